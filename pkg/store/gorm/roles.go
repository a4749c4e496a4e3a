package gorm

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Ensure RolesStore implements store.RolesStore
var _ store.RolesStore = (*RolesStore)(nil)

// RolesStore implements store.RolesStore using GORM
type RolesStore struct {
	db *gorm.DB
}

// NewRolesStore creates a new RolesStore
func NewRolesStore(db *gorm.DB) *RolesStore {
	return &RolesStore{db: db}
}

// Insert creates a role. A (tenant, name) conflict reports 0 rows.
func (s *RolesStore) Insert(role *model.Role) (int64, error) {
	tx := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(role)
	return tx.RowsAffected, tx.Error
}

// Get fetches a role by (tenant, name)
func (s *RolesStore) Get(tenant, name string) (*model.Role, error) {
	var role model.Role
	err := s.db.Where("tenant = ? AND name = ?", tenant, name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetByID fetches a role by surrogate id
func (s *RolesStore) GetByID(id int64) (*model.Role, error) {
	var role model.Role
	err := s.db.Where("id = ?", id).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// Names returns all role names in the tenant in alphabetic order
func (s *RolesStore) Names(tenant string) ([]string, error) {
	return s.scanNames(`SELECT name FROM roles WHERE tenant = ? ORDER BY name`, tenant)
}

// NamesByIDs returns the names of the given roles in alphabetic order
func (s *RolesStore) NamesByIDs(ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}
	return s.scanNames(`SELECT name FROM roles WHERE id IN ? ORDER BY name`, ids)
}

// Rename changes a role's name. Renaming onto a taken name reports 0 rows.
func (s *RolesStore) Rename(tenant, name, newName, by, byTenant string) (int64, error) {
	tx := s.db.Exec(`
		UPDATE roles
		SET name = ?, updated_by = ?, updated_by_tenant = ?, updated_at = now()
		WHERE tenant = ? AND name = ?
		  AND NOT EXISTS (SELECT 1 FROM roles taken WHERE taken.tenant = ? AND taken.name = ?)
	`, newName, by, byTenant, tenant, name, tenant, newName)
	return tx.RowsAffected, tx.Error
}

// SetOwner changes a role's owner
func (s *RolesStore) SetOwner(tenant, name, owner, ownerTenant, by, byTenant string) (int64, error) {
	tx := s.db.Exec(`
		UPDATE roles
		SET owner = ?, owner_tenant = ?, updated_by = ?, updated_by_tenant = ?, updated_at = now()
		WHERE tenant = ? AND name = ?
	`, owner, ownerTenant, by, byTenant, tenant, name)
	return tx.RowsAffected, tx.Error
}

// SetDescription changes a role's description
func (s *RolesStore) SetDescription(tenant, name, description, by, byTenant string) (int64, error) {
	tx := s.db.Exec(`
		UPDATE roles
		SET description = ?, updated_by = ?, updated_by_tenant = ?, updated_at = now()
		WHERE tenant = ? AND name = ?
	`, description, by, byTenant, tenant, name)
	return tx.RowsAffected, tx.Error
}

// Delete removes a role. Edges, permissions and assignments referencing the
// role are removed by the schema's ON DELETE CASCADE constraints.
func (s *RolesStore) Delete(tenant, name string) (int64, error) {
	tx := s.db.Exec(`DELETE FROM roles WHERE tenant = ? AND name = ?`, tenant, name)
	return tx.RowsAffected, tx.Error
}

func (s *RolesStore) scanNames(query string, args ...interface{}) ([]string, error) {
	type nameRow struct {
		Name string `gorm:"column:name"`
	}
	var rows []nameRow
	if err := s.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names, nil
}
