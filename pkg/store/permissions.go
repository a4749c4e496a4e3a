package store

import "github.com/wardenhq/warden/pkg/model"

// PermissionsStore abstracts role permission storage. Permission strings are
// opaque here; pattern matching uses SQL LIKE semantics with `%` and `_`
// metacharacters and backslash escaping.
type PermissionsStore interface {
	// Insert attaches a permission string to a role. A duplicate
	// (tenant, role, permission) is a no-op reporting 0 rows.
	Insert(perm *model.RolePermission) (int64, error)

	// Delete detaches a permission string. Missing rows report 0 rows.
	Delete(tenant string, roleID int64, permission string) (int64, error)

	// Matching returns permissions whose string matches pattern, ordered by
	// permission string. A non-nil roleID restricts the search to one role.
	Matching(tenant, pattern string, roleID *int64) ([]model.RolePermission, error)

	// ByRoleIDs returns all permissions held by the given roles.
	ByRoleIDs(tenant string, roleIDs []int64) ([]model.RolePermission, error)

	// UpdateValue rewrites a single permission string in place.
	UpdateValue(tenant string, id int64, permission, by string) (int64, error)
}
