package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/store"
)

func strptr(s string) *string { return &s }

func grantRequest() ShareRequest {
	return ShareRequest{
		Tenant:       "acme",
		Grantor:      "reporting-svc",
		Grantee:      "alice",
		ResourceType: "dashboard",
		ResourceID1:  "revenue",
		Privilege:    "view",
	}
}

func TestShareResource(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	share, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)
	require.NotNil(t, share)
	assert.NotEmpty(t, share.ID)
	assert.Equal(t, "alice", share.Grantee)
	assert.Nil(t, share.ResourceID2)
}

func TestShareResourceIdempotent(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	first, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)

	second, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "duplicate grant returns the existing record")
}

func TestShareResourceDistinctID2(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	first, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)

	req := grantRequest()
	req.ResourceID2 = strptr("q3")
	second, err := s.ShareResource(req, admin)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID, "NULL and concrete secondary ids are distinct grants")
}

func TestShareResourceValidation(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	req := grantRequest()
	req.Grantee = ""
	_, err := s.ShareResource(req, admin)
	assert.True(t, IsValidation(err))

	req = grantRequest()
	req.ResourceID2 = strptr("")
	_, err = s.ShareResource(req, admin)
	assert.True(t, IsValidation(err), "blank secondary id is rejected, got %v", err)
}

func TestGetShare(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	created, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)

	got, err := s.Get("acme", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = s.Get("acme", "missing-id")
	assert.True(t, IsNotFound(err))

	_, err = s.Get("globex", created.ID)
	assert.True(t, IsNotFound(err), "shares are tenant scoped")
}

func TestListShares(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	_, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)

	req := grantRequest()
	req.Grantee = model.PublicGrantee
	_, err = s.ShareResource(req, admin)
	require.NoError(t, err)

	req = grantRequest()
	req.Grantee = "bob"
	req.Privilege = "edit"
	_, err = s.ShareResource(req, admin)
	require.NoError(t, err)

	filter := store.NewShareFilter("acme")
	filter.Grantee = strptr("alice")
	shares, err := s.List(filter)
	require.NoError(t, err)
	assert.Len(t, shares, 2, "public grants ride along by default")

	filter.IncludePublicGrantees = false
	shares, err = s.List(filter)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "alice", shares[0].Grantee)

	filter = store.NewShareFilter("acme")
	filter.Privilege = strptr("edit")
	shares, err = s.List(filter)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "bob", shares[0].Grantee)
}

func TestDeleteShare(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	created, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)

	rows, err := s.Delete("acme", created.ID, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = s.Delete("acme", created.ID, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestHasPrivilege(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	_, err := s.ShareResource(grantRequest(), admin)
	require.NoError(t, err)

	granted, err := s.HasPrivilege(PrivilegeSelector{
		Tenant: "acme", Grantee: "alice", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "view",
	})
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = s.HasPrivilege(PrivilegeSelector{
		Tenant: "acme", Grantee: "bob", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "view",
	})
	require.NoError(t, err)
	assert.False(t, granted)

	granted, err = s.HasPrivilege(PrivilegeSelector{
		Tenant: "acme", Grantee: "alice", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "edit",
	})
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestHasPrivilegeSecondaryID(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	req := grantRequest()
	req.ResourceID2 = strptr("q3")
	_, err := s.ShareResource(req, admin)
	require.NoError(t, err)

	granted, err := s.HasPrivilege(PrivilegeSelector{
		Tenant: "acme", Grantee: "alice", ResourceType: "dashboard", ResourceID1: "revenue",
		ResourceID2: strptr("q3"), Privilege: "view",
	})
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = s.HasPrivilege(PrivilegeSelector{
		Tenant: "acme", Grantee: "alice", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "view",
	})
	require.NoError(t, err)
	assert.False(t, granted, "nil selector matches only NULL grants")
}

func TestHasPrivilegePublicGrantees(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	req := grantRequest()
	req.Grantee = model.PublicGrantee
	_, err := s.ShareResource(req, admin)
	require.NoError(t, err)

	sel := PrivilegeSelector{
		Tenant: "acme", Grantee: "anyone", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "view",
	}
	granted, err := s.HasPrivilege(sel)
	require.NoError(t, err)
	assert.True(t, granted, "~public covers authenticated users")

	sel.ExcludePublic = true
	granted, err = s.HasPrivilege(sel)
	require.NoError(t, err)
	assert.False(t, granted)

	// Unauthenticated caller: only ~public_no_authn applies.
	anon := PrivilegeSelector{
		Tenant: "acme", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "view",
		ExcludePublic: true,
	}
	granted, err = s.HasPrivilege(anon)
	require.NoError(t, err)
	assert.False(t, granted)

	req = grantRequest()
	req.Grantee = model.PublicNoAuthnGrantee
	_, err = s.ShareResource(req, admin)
	require.NoError(t, err)

	granted, err = s.HasPrivilege(anon)
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestHasPrivilegeNoGrantee(t *testing.T) {
	s := NewShares(newFakeStore(), nil)

	_, err := s.HasPrivilege(PrivilegeSelector{
		Tenant: "acme", ResourceType: "dashboard", ResourceID1: "revenue", Privilege: "view",
		ExcludePublic: true, ExcludePublicNoAuthn: true,
	})
	assert.True(t, IsValidation(err), "got %v", err)
}
