package store

import "github.com/wardenhq/warden/pkg/model"

// UserRolesStore abstracts direct user-role assignment storage. Transitive
// role resolution lives in the assignment engine.
type UserRolesStore interface {
	// Insert creates an assignment. A duplicate (tenant, user, role) is a
	// no-op reporting 0 rows.
	Insert(assignment *model.UserRole) (int64, error)

	// Delete removes an assignment. Missing rows report 0 rows.
	Delete(tenant, userName string, roleID int64) (int64, error)

	// RoleIDsForUser returns the ids of roles directly assigned to the user.
	RoleIDsForUser(tenant, userName string) ([]int64, error)

	// UserNamesByRoleIDs returns the distinct names of users directly
	// assigned any of the given roles, in alphabetic order.
	UserNamesByRoleIDs(tenant string, roleIDs []int64) ([]string, error)
}
