package authz

import (
	"github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Roles is the role store engine: CRUD over role records with tenant-scoped
// name uniqueness.
type Roles struct {
	store    store.Store
	recorder *audit.Recorder
}

// NewRoles creates the role engine.
func NewRoles(st store.Store, recorder *audit.Recorder) *Roles {
	return &Roles{store: st, recorder: recorder}
}

// Create creates a role. Creating a role whose (tenant, name) already
// exists is an idempotent no-op reporting 0 rows. A blank owner defaults to
// the requestor.
func (r *Roles) Create(tenant, name, description, owner, ownerTenant string, by identity.Identity) (int64, error) {
	const op = "createRole"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := validateRoleName(op, tenant, name); err != nil {
		return 0, err
	}
	if owner == "" {
		owner = by.User
		ownerTenant = by.Tenant
	}
	if ownerTenant == "" {
		ownerTenant = tenant
	}

	rows, err := r.store.Roles().Insert(&model.Role{
		Tenant:          tenant,
		Name:            name,
		Description:     description,
		Owner:           owner,
		OwnerTenant:     ownerTenant,
		CreatedBy:       by.User,
		CreatedByTenant: by.Tenant,
		UpdatedBy:       by.User,
		UpdatedByTenant: by.Tenant,
	})
	if err != nil {
		return 0, storeErr(op, tenant, name, err)
	}

	if rows > 0 {
		logrus.WithFields(logrus.Fields{"tenant": tenant, "role": name}).Debug("role created")
		r.recorder.Record(audit.RoleEvent{Action: "create", Tenant: tenant, RoleName: name, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// Get fetches a role by (tenant, name). Absent roles return (nil, nil);
// callers needing a hard failure wrap the nil themselves.
func (r *Roles) Get(tenant, name string) (*model.Role, error) {
	const op = "getRole"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "role name", name); err != nil {
		return nil, err
	}

	role, err := r.store.Roles().Get(tenant, name)
	if err != nil {
		return nil, storeErr(op, tenant, name, err)
	}
	return role, nil
}

// ID returns the surrogate id of a role. The second return value reports
// whether the role exists.
func (r *Roles) ID(tenant, name string) (int64, bool, error) {
	role, err := r.Get(tenant, name)
	if err != nil || role == nil {
		return 0, false, err
	}
	return role.ID, true, nil
}

// Names returns all role names in the tenant in alphabetic order.
func (r *Roles) Names(tenant string) ([]string, error) {
	const op = "getRoleNames"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}

	names, err := r.store.Roles().Names(tenant)
	if err != nil {
		return nil, storeErr(op, tenant, "", err)
	}
	return names, nil
}

// Rename changes a role's name. Renaming a missing role or renaming onto a
// name that is already taken reports 0 rows.
func (r *Roles) Rename(tenant, name, newName string, by identity.Identity) (int64, error) {
	const op = "updateRoleName"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "role name", name); err != nil {
		return 0, err
	}
	if err := validateRoleName(op, tenant, newName); err != nil {
		return 0, err
	}

	rows, err := r.store.Roles().Rename(tenant, name, newName, by.User, by.Tenant)
	if err != nil {
		return 0, storeErr(op, tenant, name, err)
	}
	if rows > 0 {
		r.recorder.Record(audit.RoleEvent{Action: "rename", Tenant: tenant, RoleName: newName, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// SetOwner changes a role's owner. The owner may belong to a different
// tenant than the role (service-owned roles).
func (r *Roles) SetOwner(tenant, name, owner, ownerTenant string, by identity.Identity) (int64, error) {
	const op = "updateRoleOwner"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "role name", name); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "owner", owner); err != nil {
		return 0, err
	}
	if ownerTenant == "" {
		ownerTenant = tenant
	}

	rows, err := r.store.Roles().SetOwner(tenant, name, owner, ownerTenant, by.User, by.Tenant)
	if err != nil {
		return 0, storeErr(op, tenant, name, err)
	}
	if rows > 0 {
		r.recorder.Record(audit.RoleEvent{Action: "owner", Tenant: tenant, RoleName: name, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// SetDescription changes a role's description.
func (r *Roles) SetDescription(tenant, name, description string, by identity.Identity) (int64, error) {
	const op = "updateRoleDescription"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "role name", name); err != nil {
		return 0, err
	}

	rows, err := r.store.Roles().SetDescription(tenant, name, description, by.User, by.Tenant)
	if err != nil {
		return 0, storeErr(op, tenant, name, err)
	}
	if rows > 0 {
		r.recorder.Record(audit.RoleEvent{Action: "description", Tenant: tenant, RoleName: name, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// Delete removes a role. Deleting a missing role reports 0 rows.
func (r *Roles) Delete(tenant, name string, by identity.Identity) (int64, error) {
	const op = "deleteRole"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "role name", name); err != nil {
		return 0, err
	}

	rows, err := r.store.Roles().Delete(tenant, name)
	if err != nil {
		return 0, storeErr(op, tenant, name, err)
	}
	if rows > 0 {
		logrus.WithFields(logrus.Fields{"tenant": tenant, "role": name}).Debug("role deleted")
		r.recorder.Record(audit.RoleEvent{Action: "delete", Tenant: tenant, RoleName: name, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}
