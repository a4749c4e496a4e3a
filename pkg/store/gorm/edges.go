package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Ensure EdgesStore implements store.EdgesStore
var _ store.EdgesStore = (*EdgesStore)(nil)

// EdgesStore implements store.EdgesStore using GORM
type EdgesStore struct {
	db *gorm.DB
}

// NewEdgesStore creates a new EdgesStore
func NewEdgesStore(db *gorm.DB) *EdgesStore {
	return &EdgesStore{db: db}
}

// Insert creates a hierarchy edge. A duplicate edge reports 0 rows.
func (s *EdgesStore) Insert(edge *model.RoleEdge) (int64, error) {
	tx := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(edge)
	return tx.RowsAffected, tx.Error
}

// Delete removes a hierarchy edge. A non-edge reports 0 rows.
func (s *EdgesStore) Delete(tenant string, parentRoleID, childRoleID int64) (int64, error) {
	tx := s.db.Exec(`
		DELETE FROM role_edges
		WHERE tenant = ? AND parent_role_id = ? AND child_role_id = ?
	`, tenant, parentRoleID, childRoleID)
	return tx.RowsAffected, tx.Error
}

// ChildIDs returns the immediate child role ids of the given parents
func (s *EdgesStore) ChildIDs(parentRoleIDs []int64) ([]int64, error) {
	if len(parentRoleIDs) == 0 {
		return nil, nil
	}
	return s.scanIDs(`SELECT child_role_id AS id FROM role_edges WHERE parent_role_id IN ?`, parentRoleIDs)
}

// ParentIDs returns the immediate parent role ids of the given children
func (s *EdgesStore) ParentIDs(childRoleIDs []int64) ([]int64, error) {
	if len(childRoleIDs) == 0 {
		return nil, nil
	}
	return s.scanIDs(`SELECT parent_role_id AS id FROM role_edges WHERE child_role_id IN ?`, childRoleIDs)
}

func (s *EdgesStore) scanIDs(query string, args ...interface{}) ([]int64, error) {
	type idRow struct {
		ID int64 `gorm:"column:id"`
	}
	var rows []idRow
	if err := s.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}
