package store

import "github.com/wardenhq/warden/pkg/model"

// RolesStore abstracts role record storage.
type RolesStore interface {
	// Insert creates a role. A (tenant, name) conflict is a no-op
	// reporting 0 rows.
	Insert(role *model.Role) (int64, error)

	// Get fetches a role by (tenant, name). Absent roles return (nil, nil).
	Get(tenant, name string) (*model.Role, error)

	// GetByID fetches a role by surrogate id. Absent roles return (nil, nil).
	GetByID(id int64) (*model.Role, error)

	// Names returns all role names in the tenant in alphabetic order.
	Names(tenant string) ([]string, error)

	// NamesByIDs returns the names of the given roles in alphabetic order.
	NamesByIDs(ids []int64) ([]string, error)

	// Rename changes a role's name. Renaming onto an existing name or a
	// missing role is a no-op reporting 0 rows.
	Rename(tenant, name, newName, by, byTenant string) (int64, error)

	// SetOwner changes a role's owner.
	SetOwner(tenant, name, owner, ownerTenant, by, byTenant string) (int64, error)

	// SetDescription changes a role's description.
	SetDescription(tenant, name, description, by, byTenant string) (int64, error)

	// Delete removes a role. Deleting a missing role reports 0 rows.
	Delete(tenant, name string) (int64, error)
}
