package authz

import (
	"github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/permspec"
	"github.com/wardenhq/warden/pkg/store"
)

// Permissions is the permission store and matcher engine.
type Permissions struct {
	store    store.Store
	recorder *audit.Recorder
}

// NewPermissions creates the permission engine.
func NewPermissions(st store.Store, recorder *audit.Recorder) *Permissions {
	return &Permissions{store: st, recorder: recorder}
}

// Create attaches a permission string to a role addressed by id. Duplicate
// permissions report 0 rows.
func (p *Permissions) Create(tenant string, roleID int64, permission string, by identity.Identity) (int64, error) {
	const op = "createPermission"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "permission", permission); err != nil {
		return 0, err
	}

	role, err := p.store.Roles().GetByID(roleID)
	if err != nil {
		return 0, storeErr(op, tenant, permission, err)
	}
	if role == nil || role.Tenant != tenant {
		return 0, notFoundf(op, tenant, "role")
	}

	return p.insert(op, tenant, role.Name, roleID, permission, by)
}

// Delete detaches a permission string from a role addressed by id. Missing
// rows report 0 rows.
func (p *Permissions) Delete(tenant string, roleID int64, permission string) (int64, error) {
	const op = "deletePermission"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "permission", permission); err != nil {
		return 0, err
	}

	rows, err := p.store.Permissions().Delete(tenant, roleID, permission)
	if err != nil {
		return 0, storeErr(op, tenant, permission, err)
	}
	return rows, nil
}

// Assign attaches a permission string to a role addressed by name. The role
// must exist in the tenant.
func (p *Permissions) Assign(tenant, roleName, permission string, by identity.Identity) (int64, error) {
	const op = "assignPermission"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "role name", roleName); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "permission", permission); err != nil {
		return 0, err
	}

	role, err := p.store.Roles().Get(tenant, roleName)
	if err != nil {
		return 0, storeErr(op, tenant, roleName, err)
	}
	if role == nil {
		return 0, notFoundf(op, tenant, roleName)
	}

	return p.insert(op, tenant, roleName, role.ID, permission, by)
}

// Remove detaches a permission string from a role addressed by name.
func (p *Permissions) Remove(tenant, roleName, permission string, by identity.Identity) (int64, error) {
	const op = "removePermission"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "role name", roleName); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "permission", permission); err != nil {
		return 0, err
	}

	role, err := p.store.Roles().Get(tenant, roleName)
	if err != nil {
		return 0, storeErr(op, tenant, roleName, err)
	}
	if role == nil {
		return 0, notFoundf(op, tenant, roleName)
	}

	rows, err := p.store.Permissions().Delete(tenant, role.ID, permission)
	if err != nil {
		return 0, storeErr(op, tenant, permission, err)
	}
	if rows > 0 {
		p.recorder.Record(audit.PermissionEvent{Action: "remove", Tenant: tenant, RoleName: roleName, Permission: permission, By: by.User})
	}
	return rows, nil
}

func (p *Permissions) insert(op, tenant, roleName string, roleID int64, permission string, by identity.Identity) (int64, error) {
	rows, err := p.store.Permissions().Insert(&model.RolePermission{
		Tenant:     tenant,
		RoleID:     roleID,
		Permission: permission,
		CreatedBy:  by.User,
		UpdatedBy:  by.User,
	})
	if err != nil {
		return 0, storeErr(op, tenant, permission, err)
	}
	if rows > 0 {
		p.recorder.Record(audit.PermissionEvent{Action: "assign", Tenant: tenant, RoleName: roleName, Permission: permission, By: by.User})
	}
	return rows, nil
}

// Matching returns permission records whose string matches the search
// pattern under SQL LIKE semantics (`%` zero-or-more, `_` exactly-one,
// backslash escape), optionally restricted to one role. Callers escape
// literal metacharacters with permspec.EscapeLike.
func (p *Permissions) Matching(tenant, pattern string, roleID *int64) ([]model.RolePermission, error) {
	const op = "getMatchingPermissions"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "search pattern", pattern); err != nil {
		return nil, err
	}

	perms, err := p.store.Permissions().Matching(tenant, pattern, roleID)
	if err != nil {
		return nil, storeErr(op, tenant, pattern, err)
	}
	return perms, nil
}

// ReplacePathPrefix rewrites every permission of the tenant (or of one role
// when roleName is non-nil) that carries schema in its first field,
// oldSystemID in its system-id field and a path starting with oldPrefix:
// the system id becomes newSystemID and the path prefix becomes newPrefix,
// with the path suffix unchanged. Candidates are selected through the
// matcher, new strings are computed here, and all rewrites are applied as
// one all-or-nothing transaction. Returns the number of rewritten strings.
func (p *Permissions) ReplacePathPrefix(tenant, schema string, roleName *string, oldSystemID, newSystemID, oldPrefix, newPrefix string, by identity.Identity) (int64, error) {
	const op = "replacePathPrefix"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "schema", schema); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "old system id", oldSystemID); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "new system id", newSystemID); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "old path prefix", oldPrefix); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "new path prefix", newPrefix); err != nil {
		return 0, err
	}

	var roleID *int64
	if roleName != nil {
		role, err := p.store.Roles().Get(tenant, *roleName)
		if err != nil {
			return 0, storeErr(op, tenant, *roleName, err)
		}
		if role == nil {
			return 0, notFoundf(op, tenant, *roleName)
		}
		roleID = &role.ID
	}

	pattern := permspec.EscapeLike(schema) + permspec.FieldSeparator + "%"

	var rewritten int64
	err := p.store.Transaction(func(tx store.Store) error {
		candidates, err := tx.Permissions().Matching(tenant, pattern, roleID)
		if err != nil {
			return err
		}

		for _, candidate := range candidates {
			newSpec, ok := permspec.RewriteSystemPath(candidate.Permission, oldSystemID, newSystemID, oldPrefix, newPrefix)
			if !ok {
				continue
			}
			if _, err := tx.Permissions().UpdateValue(tenant, candidate.ID, newSpec, by.User); err != nil {
				return err
			}
			rewritten++
		}
		return nil
	})
	if err != nil {
		rewritten = 0
		return 0, storeErr(op, tenant, schema, err)
	}

	if rewritten > 0 {
		logrus.WithFields(logrus.Fields{
			"tenant":  tenant,
			"schema":  schema,
			"count":   rewritten,
			"system":  newSystemID,
			"pathNew": newPrefix,
		}).Info("permission path prefix rewritten")
		p.recorder.Record(audit.PermissionEvent{Action: "rewrite", Tenant: tenant, Permission: schema, By: by.User})
	}
	return rewritten, nil
}
