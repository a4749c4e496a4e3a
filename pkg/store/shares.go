package store

import "github.com/wardenhq/warden/pkg/model"

// ShareFilter selects shares by optional exact-match fields. A nil field
// places no predicate on that column, except ResourceID2: when ResourceID2
// is nil and RequireNullID2 is true only rows with a NULL resource_id2
// match; when RequireNullID2 is false any resource_id2 value matches.
//
// Use NewShareFilter to get the documented defaults (RequireNullID2 and
// IncludePublicGrantees both true).
type ShareFilter struct {
	Tenant string

	// ID pins a single share; when set every other field is ignored.
	ID string

	Grantor         *string
	Grantee         *string
	ResourceType    *string
	ResourceID1     *string
	ResourceID2     *string
	Privilege       *string
	CreatedBy       *string
	CreatedByTenant *string

	RequireNullID2        bool
	IncludePublicGrantees bool
}

// NewShareFilter returns a filter for the tenant with default flag values.
func NewShareFilter(tenant string) ShareFilter {
	return ShareFilter{
		Tenant:                tenant,
		RequireNullID2:        true,
		IncludePublicGrantees: true,
	}
}

// SharesStore abstracts sharing grant storage.
type SharesStore interface {
	// Insert creates a share record. A duplicate grant tuple is a no-op
	// reporting 0 rows.
	Insert(share *model.Share) (int64, error)

	// FindExact returns the share matching every grant field of the given
	// share (tenant, grantor, grantee, resource, privilege), or (nil, nil).
	FindExact(share *model.Share) (*model.Share, error)

	// Get fetches a share by id within the tenant. Absent shares return
	// (nil, nil).
	Get(tenant, id string) (*model.Share, error)

	// List returns shares matching the filter, ordered by creation time.
	List(filter ShareFilter) ([]model.Share, error)

	// Delete removes a share by id. Missing rows report 0 rows.
	Delete(tenant, id string) (int64, error)

	// AnyWithPrivilege reports whether any of the grantee identities holds
	// privilege on (resourceType, resourceID1, resourceID2) in the tenant.
	// A nil resourceID2 matches only rows with a NULL resource_id2.
	AnyWithPrivilege(tenant string, grantees []string, resourceType, resourceID1 string, resourceID2 *string, privilege string) (bool, error)
}
