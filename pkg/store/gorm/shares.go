package gorm

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Ensure SharesStore implements store.SharesStore
var _ store.SharesStore = (*SharesStore)(nil)

// SharesStore implements store.SharesStore using GORM
type SharesStore struct {
	db *gorm.DB
}

// NewSharesStore creates a new SharesStore
func NewSharesStore(db *gorm.DB) *SharesStore {
	return &SharesStore{db: db}
}

// Insert creates a share record. A duplicate grant tuple reports 0 rows.
func (s *SharesStore) Insert(share *model.Share) (int64, error) {
	tx := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(share)
	return tx.RowsAffected, tx.Error
}

// FindExact returns the share matching every grant field of the given share
func (s *SharesStore) FindExact(share *model.Share) (*model.Share, error) {
	q := s.db.Where(
		"tenant = ? AND grantor = ? AND grantee = ? AND resource_type = ? AND resource_id1 = ? AND privilege = ?",
		share.Tenant, share.Grantor, share.Grantee, share.ResourceType, share.ResourceID1, share.Privilege,
	)
	if share.ResourceID2 != nil {
		q = q.Where("resource_id2 = ?", *share.ResourceID2)
	} else {
		q = q.Where("resource_id2 IS NULL")
	}

	var existing model.Share
	err := q.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// Get fetches a share by id within the tenant
func (s *SharesStore) Get(tenant, id string) (*model.Share, error) {
	var share model.Share
	err := s.db.Where("tenant = ? AND id = ?", tenant, id).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// List returns shares matching the filter. Each present filter field maps to
// one exact-match predicate; absent fields place no predicate, except
// resource_id2 whose null-vs-any mode follows RequireNullID2.
func (s *SharesStore) List(filter store.ShareFilter) ([]model.Share, error) {
	q := s.db.Where("tenant = ?", filter.Tenant)

	if filter.ID != "" {
		// An explicit id pins a single record; every other field is ignored.
		q = q.Where("id = ?", filter.ID)
	} else {
		q = applyShareFilter(q, filter)
	}

	var shares []model.Share
	if err := q.Order("created_at, id").Find(&shares).Error; err != nil {
		return nil, err
	}
	return shares, nil
}

func applyShareFilter(q *gorm.DB, filter store.ShareFilter) *gorm.DB {
	if filter.Grantor != nil {
		q = q.Where("grantor = ?", *filter.Grantor)
	}
	if filter.Grantee != nil {
		if filter.IncludePublicGrantees {
			q = q.Where("grantee IN ?", []string{*filter.Grantee, model.PublicGrantee, model.PublicNoAuthnGrantee})
		} else {
			q = q.Where("grantee = ?", *filter.Grantee)
		}
	}
	if filter.ResourceType != nil {
		q = q.Where("resource_type = ?", *filter.ResourceType)
	}
	if filter.ResourceID1 != nil {
		q = q.Where("resource_id1 = ?", *filter.ResourceID1)
	}
	if filter.ResourceID2 != nil {
		q = q.Where("resource_id2 = ?", *filter.ResourceID2)
	} else if filter.RequireNullID2 {
		q = q.Where("resource_id2 IS NULL")
	}
	if filter.Privilege != nil {
		q = q.Where("privilege = ?", *filter.Privilege)
	}
	if filter.CreatedBy != nil {
		q = q.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.CreatedByTenant != nil {
		q = q.Where("created_by_tenant = ?", *filter.CreatedByTenant)
	}
	if !filter.IncludePublicGrantees {
		q = q.Where("grantee NOT IN ?", []string{model.PublicGrantee, model.PublicNoAuthnGrantee})
	}
	return q
}

// Delete removes a share by id
func (s *SharesStore) Delete(tenant, id string) (int64, error) {
	tx := s.db.Exec(`DELETE FROM shares WHERE tenant = ? AND id = ?`, tenant, id)
	return tx.RowsAffected, tx.Error
}

// AnyWithPrivilege reports whether any grantee identity holds privilege on
// the resource in the tenant
func (s *SharesStore) AnyWithPrivilege(tenant string, grantees []string, resourceType, resourceID1 string, resourceID2 *string, privilege string) (bool, error) {
	if len(grantees) == 0 {
		return false, nil
	}

	query := `
		SELECT EXISTS(
			SELECT 1 FROM shares
			WHERE tenant = ? AND grantee IN ? AND resource_type = ?
			  AND resource_id1 = ? AND privilege = ?
	`
	args := []interface{}{tenant, grantees, resourceType, resourceID1, privilege}

	if resourceID2 != nil {
		query += ` AND resource_id2 = ?`
		args = append(args, *resourceID2)
	} else {
		query += ` AND resource_id2 IS NULL`
	}
	query += `)`

	var granted bool
	if err := s.db.Raw(query, args...).Scan(&granted).Error; err != nil {
		return false, err
	}
	return granted, nil
}
