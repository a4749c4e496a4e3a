package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Ensure UserRolesStore implements store.UserRolesStore
var _ store.UserRolesStore = (*UserRolesStore)(nil)

// UserRolesStore implements store.UserRolesStore using GORM
type UserRolesStore struct {
	db *gorm.DB
}

// NewUserRolesStore creates a new UserRolesStore
func NewUserRolesStore(db *gorm.DB) *UserRolesStore {
	return &UserRolesStore{db: db}
}

// Insert creates a direct assignment. A duplicate reports 0 rows.
func (s *UserRolesStore) Insert(assignment *model.UserRole) (int64, error) {
	tx := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(assignment)
	return tx.RowsAffected, tx.Error
}

// Delete removes a direct assignment
func (s *UserRolesStore) Delete(tenant, userName string, roleID int64) (int64, error) {
	tx := s.db.Exec(`
		DELETE FROM user_roles
		WHERE tenant = ? AND user_name = ? AND role_id = ?
	`, tenant, userName, roleID)
	return tx.RowsAffected, tx.Error
}

// RoleIDsForUser returns the ids of roles directly assigned to the user
func (s *UserRolesStore) RoleIDsForUser(tenant, userName string) ([]int64, error) {
	type idRow struct {
		RoleID int64 `gorm:"column:role_id"`
	}
	var rows []idRow
	err := s.db.Raw(`
		SELECT role_id FROM user_roles WHERE tenant = ? AND user_name = ?
	`, tenant, userName).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.RoleID)
	}
	return ids, nil
}

// UserNamesByRoleIDs returns the distinct names of users directly assigned
// any of the given roles, in alphabetic order
func (s *UserRolesStore) UserNamesByRoleIDs(tenant string, roleIDs []int64) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}

	type nameRow struct {
		UserName string `gorm:"column:user_name"`
	}
	var rows []nameRow
	err := s.db.Raw(`
		SELECT DISTINCT user_name FROM user_roles
		WHERE tenant = ? AND role_id IN ?
		ORDER BY user_name
	`, tenant, roleIDs).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.UserName)
	}
	return names, nil
}
