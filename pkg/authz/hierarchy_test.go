package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/pkg/store/storetest"
)

// seedRoles creates the named roles and returns their ids.
func seedRoles(t *testing.T, st *storetest.Store, tenant string, names ...string) map[string]int64 {
	t.Helper()
	roles := NewRoles(st, nil)
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		_, err := roles.Create(tenant, name, "", "", "", admin)
		require.NoError(t, err)
		id, ok, err := roles.ID(tenant, name)
		require.NoError(t, err)
		require.True(t, ok)
		ids[name] = id
	}
	return ids
}

func linkRoles(t *testing.T, h *Hierarchy, tenant string, pairs ...[2]string) {
	t.Helper()
	for _, pair := range pairs {
		_, err := h.AssignChildRole(tenant, pair[0], pair[1], admin)
		require.NoError(t, err)
	}
}

func TestAssignChildRole(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	seedRoles(t, st, "acme", "parent", "child")

	rows, err := h.AssignChildRole("acme", "parent", "child", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = h.AssignChildRole("acme", "parent", "child", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows, "duplicate edge is a no-op")
}

func TestAssignChildRoleMissingEndpoint(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	seedRoles(t, st, "acme", "parent")

	_, err := h.AssignChildRole("acme", "parent", "ghost", admin)
	assert.True(t, IsNotFound(err), "missing child, got %v", err)

	_, err = h.AssignChildRole("acme", "ghost", "parent", admin)
	assert.True(t, IsNotFound(err), "missing parent, got %v", err)
}

func TestRemoveChildRole(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	seedRoles(t, st, "acme", "parent", "child")
	linkRoles(t, h, "acme", [2]string{"parent", "child"})

	rows, err := h.RemoveChildRole("acme", "parent", "child", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 1, rows)

	rows, err = h.RemoveChildRole("acme", "parent", "child", admin)
	require.NoError(t, err)
	assert.EqualValues(t, 0, rows)
}

func TestDescendantRoleNames(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	ids := seedRoles(t, st, "acme", "admin_role", "ops", "dev", "intern")
	linkRoles(t, h, "acme",
		[2]string{"admin_role", "ops"},
		[2]string{"ops", "dev"},
		[2]string{"dev", "intern"},
	)

	names, err := h.DescendantRoleNames(ids["admin_role"])
	require.NoError(t, err)
	assert.Equal(t, []string{"dev", "intern", "ops"}, names, "transitive, sorted, seed excluded")

	names, err = h.DescendantRoleNames(ids["intern"])
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestAncestorRoleNames(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	ids := seedRoles(t, st, "acme", "admin_role", "ops", "dev")
	linkRoles(t, h, "acme",
		[2]string{"admin_role", "ops"},
		[2]string{"ops", "dev"},
	)

	names, err := h.AncestorRoleNames(ids["dev"])
	require.NoError(t, err)
	assert.Equal(t, []string{"admin_role", "ops"}, names)
}

func TestDiamondClosure(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	ids := seedRoles(t, st, "acme", "top", "left", "right", "bottom")
	linkRoles(t, h, "acme",
		[2]string{"top", "left"},
		[2]string{"top", "right"},
		[2]string{"left", "bottom"},
		[2]string{"right", "bottom"},
	)

	names, err := h.DescendantRoleNames(ids["top"])
	require.NoError(t, err)
	assert.Equal(t, []string{"bottom", "left", "right"}, names, "shared descendant appears once")
}

func TestCyclicEdgesTerminate(t *testing.T) {
	st := newFakeStore()
	h := NewHierarchy(st, nil)
	ids := seedRoles(t, st, "acme", "a", "b", "c")
	linkRoles(t, h, "acme",
		[2]string{"a", "b"},
		[2]string{"b", "c"},
		[2]string{"c", "a"},
	)

	names, err := h.DescendantRoleNames(ids["a"])
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, names, "cycle degrades to all reachable nodes")
}
