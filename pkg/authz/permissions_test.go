package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePermission(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	ids := seedRoles(t, st, "acme", "ops")

	rows, err := p.Create("acme", ids["ops"], "svc:acme:read:db1:/data", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = p.Create("acme", ids["ops"], "svc:acme:read:db1:/data", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows, "duplicate permission is a no-op")
}

func TestCreatePermissionWrongTenant(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	ids := seedRoles(t, st, "acme", "ops")

	_, err := p.Create("globex", ids["ops"], "svc:globex:read:db1:/", admin)
	assert.True(t, IsNotFound(err), "role id from another tenant, got %v", err)
}

func TestAssignAndRemovePermissionByName(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	seedRoles(t, st, "acme", "ops")

	rows, err := p.Assign("acme", "ops", "svc:acme:read:db1:/data", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = p.Remove("acme", "ops", "svc:acme:read:db1:/data", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = p.Remove("acme", "ops", "svc:acme:read:db1:/data", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)

	_, err = p.Assign("acme", "ghost", "svc:acme:read:db1:/data", admin)
	assert.True(t, IsNotFound(err))
}

func TestMatchingPermissions(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	ids := seedRoles(t, st, "acme", "ops", "dev")

	specs := map[string][]string{
		"ops": {"svc:acme:admin:db1:/", "svc:acme:read:db2:/data"},
		"dev": {"svc:acme:read:db1:/logs"},
	}
	for role, perms := range specs {
		for _, spec := range perms {
			_, err := p.Create("acme", ids[role], spec, admin)
			require.NoError(t, err)
		}
	}

	matches, err := p.Matching("acme", "svc:acme:read:%", nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "svc:acme:read:db1:/logs", matches[0].Permission, "ordered by permission string")
	assert.Equal(t, "svc:acme:read:db2:/data", matches[1].Permission)

	opsID := ids["ops"]
	matches, err = p.Matching("acme", "svc:acme:read:%", &opsID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "svc:acme:read:db2:/data", matches[0].Permission)
}

func TestReplacePathPrefix(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	ids := seedRoles(t, st, "acme", "ops", "dev")

	for role, spec := range map[string]string{
		"ops": "svc:acme:read:db1:/old/data",
		"dev": "svc:acme:write:db1:/old/logs",
	} {
		_, err := p.Create("acme", ids[role], spec, admin)
		require.NoError(t, err)
	}
	// Different system id: untouched.
	_, err := p.Create("acme", ids["ops"], "svc:acme:read:db2:/old/data", admin)
	require.NoError(t, err)
	// Different schema: untouched.
	_, err = p.Create("acme", ids["ops"], "other:acme:read:db1:/old/data", admin)
	require.NoError(t, err)

	count, err := p.ReplacePathPrefix("acme", "svc", nil, "db1", "db9", "/old", "/new", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	matches, err := p.Matching("acme", "svc:acme:%:db9:%", nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "svc:acme:read:db9:/new/data", matches[0].Permission)
	assert.Equal(t, "svc:acme:write:db9:/new/logs", matches[1].Permission)

	untouched, err := p.Matching("acme", "svc:acme:read:db2:%", nil)
	require.NoError(t, err)
	require.Len(t, untouched, 1)
	assert.Equal(t, "svc:acme:read:db2:/old/data", untouched[0].Permission)

	// The reverse rewrite restores the original strings exactly.
	count, err = p.ReplacePathPrefix("acme", "svc", nil, "db9", "db1", "/new", "/old", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	restored, err := p.Matching("acme", "svc:acme:%:db1:%", nil)
	require.NoError(t, err)
	require.Len(t, restored, 2)
	assert.Equal(t, "svc:acme:read:db1:/old/data", restored[0].Permission)
	assert.Equal(t, "svc:acme:write:db1:/old/logs", restored[1].Permission)
}

func TestReplacePathPrefixScopedToRole(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	ids := seedRoles(t, st, "acme", "ops", "dev")

	for role, spec := range map[string]string{
		"ops": "svc:acme:read:db1:/old/data",
		"dev": "svc:acme:read:db1:/old/logs",
	} {
		_, err := p.Create("acme", ids[role], spec, admin)
		require.NoError(t, err)
	}

	roleName := "ops"
	count, err := p.ReplacePathPrefix("acme", "svc", &roleName, "db1", "db1", "/old", "/new", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	devID := ids["dev"]
	matches, err := p.Matching("acme", "%", &devID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "svc:acme:read:db1:/old/logs", matches[0].Permission, "other roles untouched")
}

func TestReplacePathPrefixNoCandidates(t *testing.T) {
	st := newFakeStore()
	p := NewPermissions(st, nil)
	seedRoles(t, st, "acme", "ops")

	count, err := p.ReplacePathPrefix("acme", "svc", nil, "db1", "db9", "/old", "/new", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}
