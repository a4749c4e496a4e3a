package authz

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

// Shares manages cross-service sharing grants. Shares sidestep the role
// system entirely: a grant names a grantee, a resource and a privilege, and
// privilege checks consult the grant table directly.
type Shares struct {
	store    store.Store
	recorder *audit.Recorder
}

// NewShares creates the share grant engine.
func NewShares(st store.Store, recorder *audit.Recorder) *Shares {
	return &Shares{store: st, recorder: recorder}
}

// ShareRequest describes a grant to create. ResourceID2 is optional; nil is
// stored as NULL and is distinct from any concrete value.
type ShareRequest struct {
	Tenant       string
	Grantor      string
	Grantee      string
	ResourceType string
	ResourceID1  string
	ResourceID2  *string
	Privilege    string
}

// ShareResource creates a sharing grant and returns its record. Creating a
// grant whose tuple already exists returns the existing record unchanged,
// with no new row.
func (s *Shares) ShareResource(req ShareRequest, by identity.Identity) (*model.Share, error) {
	const op = "shareResource"
	if err := s.validateRequest(op, req); err != nil {
		return nil, err
	}

	candidate := &model.Share{
		Tenant:          req.Tenant,
		Grantor:         req.Grantor,
		Grantee:         req.Grantee,
		ResourceType:    req.ResourceType,
		ResourceID1:     req.ResourceID1,
		ResourceID2:     req.ResourceID2,
		Privilege:       req.Privilege,
		CreatedBy:       by.User,
		CreatedByTenant: by.Tenant,
	}

	var result *model.Share
	var created bool
	err := s.store.Transaction(func(tx store.Store) error {
		existing, err := tx.Shares().FindExact(candidate)
		if err != nil {
			return err
		}
		if existing != nil {
			result = existing
			return nil
		}

		candidate.ID = uuid.NewString()
		rows, err := tx.Shares().Insert(candidate)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost a race with a concurrent identical grant.
			existing, err = tx.Shares().FindExact(candidate)
			if err != nil {
				return err
			}
			result = existing
			return nil
		}

		result = candidate
		created = true
		return nil
	})
	if err != nil {
		return nil, storeErr(op, req.Tenant, req.ResourceType, err)
	}
	if result == nil {
		return nil, &Error{Kind: KindStorage, Op: op, Tenant: req.Tenant, Entity: req.ResourceType, Msg: "share vanished during creation"}
	}

	if created {
		logrus.WithFields(logrus.Fields{
			"tenant":   req.Tenant,
			"share":    result.ID,
			"grantee":  req.Grantee,
			"resource": req.ResourceType,
		}).Debug("share created")
		s.recorder.Record(audit.ShareEvent{Action: "create", Tenant: req.Tenant, ShareID: result.ID, Grantee: req.Grantee, ResourceType: req.ResourceType, Privilege: req.Privilege, By: by.User, ByTenant: by.Tenant})
	}
	return result, nil
}

func (s *Shares) validateRequest(op string, req ShareRequest) error {
	if err := requireNonBlank(op, req.Tenant, "tenant", req.Tenant); err != nil {
		return err
	}
	if err := requireNonBlank(op, req.Tenant, "grantor", req.Grantor); err != nil {
		return err
	}
	if err := requireNonBlank(op, req.Tenant, "grantee", req.Grantee); err != nil {
		return err
	}
	if err := requireNonBlank(op, req.Tenant, "resource type", req.ResourceType); err != nil {
		return err
	}
	if err := requireNonBlank(op, req.Tenant, "resource id", req.ResourceID1); err != nil {
		return err
	}
	if req.ResourceID2 != nil && *req.ResourceID2 == "" {
		return validationf(op, req.Tenant, "secondary resource id must be absent or non-blank")
	}
	return requireNonBlank(op, req.Tenant, "privilege", req.Privilege)
}

// Get fetches a share by id within the tenant. A missing share is a
// not-found error.
func (s *Shares) Get(tenant, id string) (*model.Share, error) {
	const op = "getShare"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return nil, err
	}
	if err := requireNonBlank(op, tenant, "share id", id); err != nil {
		return nil, err
	}

	share, err := s.store.Shares().Get(tenant, id)
	if err != nil {
		return nil, storeErr(op, tenant, id, err)
	}
	if share == nil {
		return nil, notFoundf(op, tenant, id)
	}
	return share, nil
}

// List returns shares matching the filter, ordered by creation time. An
// empty result is an empty slice, never an error.
func (s *Shares) List(filter store.ShareFilter) ([]model.Share, error) {
	const op = "listShares"
	if err := requireNonBlank(op, filter.Tenant, "tenant", filter.Tenant); err != nil {
		return nil, err
	}

	shares, err := s.store.Shares().List(filter)
	if err != nil {
		return nil, storeErr(op, filter.Tenant, "", err)
	}
	return shares, nil
}

// Delete removes a share by id. Deleting a missing share reports 0 rows.
func (s *Shares) Delete(tenant, id string, by identity.Identity) (int64, error) {
	const op = "deleteShare"
	if err := requireNonBlank(op, tenant, "tenant", tenant); err != nil {
		return 0, err
	}
	if err := requireNonBlank(op, tenant, "share id", id); err != nil {
		return 0, err
	}

	share, err := s.store.Shares().Get(tenant, id)
	if err != nil {
		return 0, storeErr(op, tenant, id, err)
	}
	if share == nil {
		return 0, nil
	}

	rows, err := s.store.Shares().Delete(tenant, id)
	if err != nil {
		return 0, storeErr(op, tenant, id, err)
	}
	if rows > 0 {
		s.recorder.Record(audit.ShareEvent{Action: "delete", Tenant: tenant, ShareID: id, Grantee: share.Grantee, ResourceType: share.ResourceType, Privilege: share.Privilege, By: by.User, ByTenant: by.Tenant})
	}
	return rows, nil
}

// PrivilegeSelector describes a privilege check. Grantee is the caller's
// literal identity; the public grantees are consulted automatically unless
// excluded. A nil ResourceID2 matches only grants with no secondary id.
type PrivilegeSelector struct {
	Tenant       string
	Grantee      string
	ResourceType string
	ResourceID1  string
	ResourceID2  *string
	Privilege    string

	// ExcludePublic suppresses ~public grants (the caller is not
	// authenticated). ExcludePublicNoAuthn suppresses ~public_no_authn.
	ExcludePublic        bool
	ExcludePublicNoAuthn bool
}

// HasPrivilege reports whether the selector's grantee, or an applicable
// public grantee, holds the privilege on the resource. Every check is
// audited with its outcome.
func (s *Shares) HasPrivilege(sel PrivilegeSelector) (bool, error) {
	const op = "hasPrivilege"
	if err := requireNonBlank(op, sel.Tenant, "tenant", sel.Tenant); err != nil {
		return false, err
	}
	if err := requireNonBlank(op, sel.Tenant, "resource type", sel.ResourceType); err != nil {
		return false, err
	}
	if err := requireNonBlank(op, sel.Tenant, "resource id", sel.ResourceID1); err != nil {
		return false, err
	}
	if err := requireNonBlank(op, sel.Tenant, "privilege", sel.Privilege); err != nil {
		return false, err
	}
	if sel.Grantee == "" && sel.ExcludePublic && sel.ExcludePublicNoAuthn {
		return false, validationf(op, sel.Tenant, "no grantee to check: blank grantee with all public grants excluded")
	}

	grantees := make([]string, 0, 3)
	if sel.Grantee != "" {
		grantees = append(grantees, sel.Grantee)
	}
	if !sel.ExcludePublic {
		grantees = append(grantees, model.PublicGrantee)
	}
	if !sel.ExcludePublicNoAuthn {
		grantees = append(grantees, model.PublicNoAuthnGrantee)
	}

	granted, err := s.store.Shares().AnyWithPrivilege(sel.Tenant, grantees, sel.ResourceType, sel.ResourceID1, sel.ResourceID2, sel.Privilege)
	if err != nil {
		return false, storeErr(op, sel.Tenant, sel.ResourceType, err)
	}

	s.recorder.Record(audit.CheckEvent{Tenant: sel.Tenant, Grantee: sel.Grantee, ResourceType: sel.ResourceType, Privilege: sel.Privilege, Granted: granted})
	return granted, nil
}
