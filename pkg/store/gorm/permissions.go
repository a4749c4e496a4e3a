package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Ensure PermissionsStore implements store.PermissionsStore
var _ store.PermissionsStore = (*PermissionsStore)(nil)

// PermissionsStore implements store.PermissionsStore using GORM
type PermissionsStore struct {
	db *gorm.DB
}

// NewPermissionsStore creates a new PermissionsStore
func NewPermissionsStore(db *gorm.DB) *PermissionsStore {
	return &PermissionsStore{db: db}
}

// Insert attaches a permission string to a role. A duplicate reports 0 rows.
func (s *PermissionsStore) Insert(perm *model.RolePermission) (int64, error) {
	tx := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(perm)
	return tx.RowsAffected, tx.Error
}

// Delete detaches a permission string from a role
func (s *PermissionsStore) Delete(tenant string, roleID int64, permission string) (int64, error) {
	tx := s.db.Exec(`
		DELETE FROM role_permissions
		WHERE tenant = ? AND role_id = ? AND permission = ?
	`, tenant, roleID, permission)
	return tx.RowsAffected, tx.Error
}

// Matching returns permissions whose string matches pattern under SQL LIKE
// semantics with backslash escaping, optionally restricted to one role.
func (s *PermissionsStore) Matching(tenant, pattern string, roleID *int64) ([]model.RolePermission, error) {
	query := `
		SELECT id, tenant, role_id, permission, created_by, created_at, updated_by, updated_at
		FROM role_permissions
		WHERE tenant = ? AND permission LIKE ? ESCAPE '\'
	`
	args := []interface{}{tenant, pattern}

	if roleID != nil {
		query += ` AND role_id = ?`
		args = append(args, *roleID)
	}

	query += ` ORDER BY permission`

	var perms []model.RolePermission
	if err := s.db.Raw(query, args...).Scan(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

// ByRoleIDs returns all permissions held by the given roles
func (s *PermissionsStore) ByRoleIDs(tenant string, roleIDs []int64) ([]model.RolePermission, error) {
	if len(roleIDs) == 0 {
		return nil, nil
	}

	var perms []model.RolePermission
	err := s.db.Raw(`
		SELECT id, tenant, role_id, permission, created_by, created_at, updated_by, updated_at
		FROM role_permissions
		WHERE tenant = ? AND role_id IN ?
		ORDER BY permission
	`, tenant, roleIDs).Scan(&perms).Error
	if err != nil {
		return nil, err
	}
	return perms, nil
}

// UpdateValue rewrites a single permission string in place
func (s *PermissionsStore) UpdateValue(tenant string, id int64, permission, by string) (int64, error) {
	tx := s.db.Exec(`
		UPDATE role_permissions
		SET permission = ?, updated_by = ?, updated_at = now()
		WHERE tenant = ? AND id = ?
	`, permission, by, tenant, id)
	return tx.RowsAffected, tx.Error
}
