package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignAndListUserRoles(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterHierarchyEndpoints(srv)
	RegisterUsersEndpoints(srv)

	for _, name := range []string{"ops", "dev"} {
		DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"`+name+`"}`))
	}
	DoRequest(t, srv, http.MethodPut, "/roles/acme/ops/children/dev", nil)

	rec := DoRequest(t, srv, http.MethodPut, "/users/acme/alice/roles/ops", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 1, rows.Rows)

	// Inherited roles appear in the listing.
	rec = DoRequest(t, srv, http.MethodGet, "/users/acme/alice/roles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"dev", "ops"}, names)

	rec = DoRequest(t, srv, http.MethodPut, "/users/acme/alice/roles/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveUserRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterUsersEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"ops"}`))
	DoRequest(t, srv, http.MethodPut, "/users/acme/alice/roles/ops", nil)

	rec := DoRequest(t, srv, http.MethodDelete, "/users/acme/alice/roles/ops", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 1, rows.Rows)

	rec = DoRequest(t, srv, http.MethodDelete, "/users/acme/alice/roles/ops", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 0, rows.Rows)
}

func TestCreateAndAssignRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterUsersEndpoints(srv)

	rec := DoRequest(t, srv, http.MethodPost, "/users/acme/alice/roles",
		strings.NewReader(`{"name":"ops","description":"on call"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 2, rows.Rows)

	// Strict mode fails when nothing changed.
	rec = DoRequest(t, srv, http.MethodPost, "/users/acme/alice/roles",
		strings.NewReader(`{"name":"ops","strict":true}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckUserPermissionEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterPermissionsEndpoints(srv)
	RegisterUsersEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"ops"}`))
	DoRequest(t, srv, http.MethodPost, "/roles/acme/ops/permissions",
		strings.NewReader(`{"permission":"svc:acme:read:*:/data"}`))
	DoRequest(t, srv, http.MethodPut, "/users/acme/alice/roles/ops", nil)

	rec := DoRequest(t, srv, http.MethodGet,
		"/users/acme/alice/check?permission=svc%3Aacme%3Aread%3Adb1%3A%2Fdata", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]bool
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result["granted"])

	rec = DoRequest(t, srv, http.MethodGet,
		"/users/acme/alice/check?permission=svc%3Aacme%3Awrite%3Adb1%3A%2Fdata", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result["granted"])

	rec = DoRequest(t, srv, http.MethodGet, "/users/acme/alice/check", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserPermissionsEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterPermissionsEndpoints(srv)
	RegisterUsersEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"ops"}`))
	DoRequest(t, srv, http.MethodPost, "/roles/acme/ops/permissions",
		strings.NewReader(`{"permission":"svc:acme:read:db1:/data"}`))
	DoRequest(t, srv, http.MethodPut, "/users/acme/alice/roles/ops", nil)

	rec := DoRequest(t, srv, http.MethodGet, "/users/acme/alice/permissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var perms []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &perms))
	assert.Equal(t, []string{"svc:acme:read:db1:/data"}, perms)
}

func TestUsersWithRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterHierarchyEndpoints(srv)
	RegisterUsersEndpoints(srv)

	for _, name := range []string{"ops", "dev"} {
		DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"`+name+`"}`))
	}
	DoRequest(t, srv, http.MethodPut, "/roles/acme/ops/children/dev", nil)
	DoRequest(t, srv, http.MethodPut, "/users/acme/alice/roles/ops", nil)
	DoRequest(t, srv, http.MethodPut, "/users/acme/bob/roles/dev", nil)

	// Holders of ops do not show up for the child role's direct holders only;
	// holders of an ancestor role count for the child.
	rec := DoRequest(t, srv, http.MethodGet, "/roles/acme/dev/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var users []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Equal(t, []string{"alice", "bob"}, users)

	rec = DoRequest(t, srv, http.MethodGet, "/roles/acme/ops/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Equal(t, []string{"alice"}, users)
}
