package authz

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/permspec"
	"github.com/wardenhq/warden/pkg/store"
)

// Assignments binds users to roles and resolves effective roles and
// permissions through the hierarchy. Users are opaque names here; the
// engine never consults an account directory.
type Assignments struct {
	store     store.Store
	hierarchy *Hierarchy
	recorder  *audit.Recorder
}

// NewAssignments creates the assignment engine.
func NewAssignments(st store.Store, hierarchy *Hierarchy, recorder *audit.Recorder) *Assignments {
	return &Assignments{store: st, hierarchy: hierarchy, recorder: recorder}
}

// AssignUserRole assigns the role to the user. The role must already exist
// in the tenant. A duplicate assignment reports 0 rows.
func (a *Assignments) AssignUserRole(tenant, userName, roleName string, by identity.Identity) (int64, error) {
	const op = "assignUserRole"
	if err := a.validateAssignment(op, tenant, userName, roleName); err != nil {
		return 0, err
	}

	role, err := a.store.Roles().Get(tenant, roleName)
	if err != nil {
		return 0, storeErr(op, tenant, roleName, err)
	}
	if role == nil {
		return 0, notFoundf(op, tenant, roleName)
	}

	rows, err := a.store.UserRoles().Insert(&model.UserRole{
		Tenant:          tenant,
		UserName:        userName,
		RoleID:          role.ID,
		CreatedBy:       by.User,
		CreatedByTenant: by.Tenant,
		UpdatedBy:       by.User,
		UpdatedByTenant: by.Tenant,
	})
	if err != nil {
		return 0, storeErr(op, tenant, roleName, err)
	}

	if rows > 0 {
		a.recorder.Record(audit.AssignmentEvent{Action: "assign", Tenant: tenant, UserName: userName, RoleName: roleName, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// RemoveUserRole removes a direct assignment. Removing an assignment that
// does not exist reports 0 rows.
func (a *Assignments) RemoveUserRole(tenant, userName, roleName string, by identity.Identity) (int64, error) {
	const op = "removeUserRole"
	if err := a.validateAssignment(op, tenant, userName, roleName); err != nil {
		return 0, err
	}

	role, err := a.store.Roles().Get(tenant, roleName)
	if err != nil {
		return 0, storeErr(op, tenant, roleName, err)
	}
	if role == nil {
		return 0, notFoundf(op, tenant, roleName)
	}

	rows, err := a.store.UserRoles().Delete(tenant, userName, role.ID)
	if err != nil {
		return 0, storeErr(op, tenant, roleName, err)
	}

	if rows > 0 {
		a.recorder.Record(audit.AssignmentEvent{Action: "remove", Tenant: tenant, UserName: userName, RoleName: roleName, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

func (a *Assignments) validateAssignment(op, tenant, userName, roleName string) error {
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return err
	}
	if err := requireNonBlank(op, tenant, "user name", userName); err != nil {
		return err
	}
	return requireNonBlank(op, tenant, "role name", roleName)
}

// UserRoleNames returns the names of every role the user holds, directly or
// through the hierarchy, in alphabetic order. A user with no assignments
// gets an empty slice, never an error.
func (a *Assignments) UserRoleNames(tenant, userName string) ([]string, error) {
	const op = "getUserRoleNames"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "user name", userName); err != nil {
		return nil, err
	}

	ids, err := a.effectiveRoleIDs(tenant, userName)
	if err != nil {
		return nil, storeErr(op, tenant, userName, err)
	}

	names, err := a.store.Roles().NamesByIDs(ids)
	if err != nil {
		return nil, storeErr(op, tenant, userName, err)
	}
	return names, nil
}

// UserPermissions returns the distinct permission strings the user holds
// through all effective roles, sorted.
func (a *Assignments) UserPermissions(tenant, userName string) ([]string, error) {
	const op = "getUserPermissions"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "user name", userName); err != nil {
		return nil, err
	}

	ids, err := a.effectiveRoleIDs(tenant, userName)
	if err != nil {
		return nil, storeErr(op, tenant, userName, err)
	}

	perms, err := a.store.Permissions().ByRoleIDs(tenant, ids)
	if err != nil {
		return nil, storeErr(op, tenant, userName, err)
	}

	seen := make(map[string]struct{}, len(perms))
	distinct := make([]string, 0, len(perms))
	for _, perm := range perms {
		if _, dup := seen[perm.Permission]; dup {
			continue
		}
		seen[perm.Permission] = struct{}{}
		distinct = append(distinct, perm.Permission)
	}
	sort.Strings(distinct)
	return distinct, nil
}

// effectiveRoleIDs resolves the user's direct assignments plus every
// descendant role reachable through the hierarchy.
func (a *Assignments) effectiveRoleIDs(tenant, userName string) ([]int64, error) {
	direct, err := a.store.UserRoles().RoleIDsForUser(tenant, userName)
	if err != nil {
		return nil, err
	}
	if len(direct) == 0 {
		return nil, nil
	}
	return a.hierarchy.DescendantClosureIDs(direct)
}

// UsersWithRole returns the names of every user who holds the role directly
// or through an ancestor role, in alphabetic order. The role must exist.
func (a *Assignments) UsersWithRole(tenant, roleName string) ([]string, error) {
	const op = "getUsersWithRole"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "role name", roleName); err != nil {
		return nil, err
	}

	role, err := a.store.Roles().Get(tenant, roleName)
	if err != nil {
		return nil, storeErr(op, tenant, roleName, err)
	}
	if role == nil {
		return nil, notFoundf(op, tenant, roleName)
	}

	// A user assigned any ancestor of the role holds it transitively.
	holders, err := a.hierarchy.AncestorClosureIDs([]int64{role.ID})
	if err != nil {
		return nil, storeErr(op, tenant, roleName, err)
	}

	users, err := a.store.UserRoles().UserNamesByRoleIDs(tenant, holders)
	if err != nil {
		return nil, storeErr(op, tenant, roleName, err)
	}
	return users, nil
}

// UsersWithPermission returns the names of every user holding a permission
// that matches the search pattern, directly or transitively, in alphabetic
// order. Patterns with a leading `%` or `_` wildcard are rejected: they
// defeat the permission index and scan the whole tenant.
func (a *Assignments) UsersWithPermission(tenant, pattern string) ([]string, error) {
	const op = "getUsersWithPermission"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "search pattern", pattern); err != nil {
		return nil, err
	}
	if permspec.HasLeadingWildcard(pattern) {
		return nil, validationf(op, tenant, "search pattern must not start with a wildcard")
	}

	perms, err := a.store.Permissions().Matching(tenant, pattern, nil)
	if err != nil {
		return nil, storeErr(op, tenant, pattern, err)
	}
	if len(perms) == 0 {
		return []string{}, nil
	}

	granted := make(map[int64]struct{}, len(perms))
	for _, perm := range perms {
		granted[perm.RoleID] = struct{}{}
	}

	holders, err := a.hierarchy.AncestorClosureIDs(idSet(granted))
	if err != nil {
		return nil, storeErr(op, tenant, pattern, err)
	}

	users, err := a.store.UserRoles().UserNamesByRoleIDs(tenant, holders)
	if err != nil {
		return nil, storeErr(op, tenant, pattern, err)
	}
	return users, nil
}

// CreateAndAssignRole creates the role and assigns it to the user as one
// transaction. In strict mode a pre-existing role or assignment fails the
// whole operation; otherwise both steps are idempotent. Returns the number
// of changed rows (0 to 2).
func (a *Assignments) CreateAndAssignRole(tenant, userName, roleName, description string, strict bool, by identity.Identity) (int64, error) {
	const op = "createAndAssignRole"
	if err := a.validateAssignment(op, tenant, userName, roleName); err != nil {
		return 0, err
	}
	if err := validateRoleName(op, tenant, roleName); err != nil {
		return 0, err
	}

	var changed int64
	var strictErr error
	err := a.store.Transaction(func(tx store.Store) error {
		created, err := tx.Roles().Insert(&model.Role{
			Tenant:          tenant,
			Name:            roleName,
			Description:     description,
			Owner:           by.User,
			OwnerTenant:     by.Tenant,
			CreatedBy:       by.User,
			CreatedByTenant: by.Tenant,
			UpdatedBy:       by.User,
			UpdatedByTenant: by.Tenant,
		})
		if err != nil {
			return err
		}
		if created == 0 && strict {
			strictErr = validationf(op, tenant, "role %q already exists", roleName)
			return strictErr
		}
		changed += created

		role, err := tx.Roles().Get(tenant, roleName)
		if err != nil {
			return err
		}
		if role == nil {
			return notFoundf(op, tenant, roleName)
		}

		assigned, err := tx.UserRoles().Insert(&model.UserRole{
			Tenant:          tenant,
			UserName:        userName,
			RoleID:          role.ID,
			CreatedBy:       by.User,
			CreatedByTenant: by.Tenant,
			UpdatedBy:       by.User,
			UpdatedByTenant: by.Tenant,
		})
		if err != nil {
			return err
		}
		if assigned == 0 && strict {
			strictErr = validationf(op, tenant, "user %q already holds role %q", userName, roleName)
			return strictErr
		}
		changed += assigned
		return nil
	})
	if err != nil {
		if strictErr != nil {
			return 0, strictErr
		}
		if KindOf(err) != 0 {
			return 0, err
		}
		return 0, storeErr(op, tenant, roleName, err)
	}

	if changed > 0 {
		logrus.WithFields(logrus.Fields{"tenant": tenant, "user": userName, "role": roleName}).Debug("role created and assigned")
		a.recorder.Record(audit.RoleEvent{Action: "create", Tenant: tenant, RoleName: roleName, By: by.User, ByTenant: by.Tenant})
		a.recorder.Record(audit.AssignmentEvent{Action: "assign", Tenant: tenant, UserName: userName, RoleName: roleName, By: by.User, ByTenant: by.Tenant})
	}
	return changed, nil
}

// CheckUserPermission reports whether any of the user's effective
// permissions satisfies the required permission under grant matching rules
// (field wildcards, alternation, hierarchical paths).
func (a *Assignments) CheckUserPermission(tenant, userName, required string) (bool, error) {
	const op = "checkUserPermission"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return false, err
	}
	if err := requireNonBlank(op, tenant, "user name", userName); err != nil {
		return false, err
	}
	if err := requireNonBlank(op, tenant, "permission", required); err != nil {
		return false, err
	}

	perms, err := a.UserPermissions(tenant, userName)
	if err != nil {
		return false, err
	}

	for _, grant := range perms {
		if permspec.Matches(grant, required) {
			return true, nil
		}
	}
	return false, nil
}
