package endpoints

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	rec := DoRequest(t, srv, http.MethodPost, "/roles/acme",
		strings.NewReader(`{"name":"auditor","description":"review team"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var role RoleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &role))
	assert.Equal(t, "auditor", role.Name)
	assert.Equal(t, "admin", role.Owner, "owner defaults to the requestor")

	// Duplicate create returns the existing role with 200.
	rec = DoRequest(t, srv, http.MethodPost, "/roles/acme",
		strings.NewReader(`{"name":"auditor"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateRoleEndpointValidation(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	rec := DoRequest(t, srv, http.MethodPost, "/roles/acme",
		strings.NewReader(`{"name":"1bad"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = DoRequest(t, srv, http.MethodPost, "/roles/acme",
		strings.NewReader(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRolesEndpointRequiresAuth(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	rec := DoAnonymousRequest(t, srv, http.MethodGet, "/roles/acme", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"auditor"}`))

	rec := DoRequest(t, srv, http.MethodGet, "/roles/acme/auditor", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = DoRequest(t, srv, http.MethodGet, "/roles/acme/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRoleNamesEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	for _, name := range []string{"ops", "auditor"} {
		DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"`+name+`"}`))
	}

	rec := DoRequest(t, srv, http.MethodGet, "/roles/acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"auditor", "ops"}, names)
}

func TestRenameRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"auditor"}`))

	rec := DoRequest(t, srv, http.MethodPut, "/roles/acme/auditor/name",
		strings.NewReader(`{"new_name":"reviewer"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 1, rows.Rows)

	rec = DoRequest(t, srv, http.MethodGet, "/roles/acme/reviewer", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteRoleEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"auditor"}`))

	rec := DoRequest(t, srv, http.MethodDelete, "/roles/acme/auditor", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 1, rows.Rows)

	rec = DoRequest(t, srv, http.MethodDelete, "/roles/acme/auditor", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 0, rows.Rows)
}

func TestHierarchyEndpoints(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterHierarchyEndpoints(srv)

	for _, name := range []string{"admin_role", "ops", "dev"} {
		DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"`+name+`"}`))
	}

	rec := DoRequest(t, srv, http.MethodPut, "/roles/acme/admin_role/children/ops", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = DoRequest(t, srv, http.MethodPut, "/roles/acme/ops/children/dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = DoRequest(t, srv, http.MethodGet, "/roles/acme/admin_role/descendants", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var names []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"dev", "ops"}, names)

	rec = DoRequest(t, srv, http.MethodGet, "/roles/acme/dev/ancestors", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &names))
	assert.Equal(t, []string{"admin_role", "ops"}, names)

	rec = DoRequest(t, srv, http.MethodPut, "/roles/acme/admin_role/children/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = DoRequest(t, srv, http.MethodDelete, "/roles/acme/ops/children/dev", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestPermissionEndpoints(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterRolesEndpoints(srv)
	RegisterPermissionsEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/roles/acme", strings.NewReader(`{"name":"ops"}`))

	rec := DoRequest(t, srv, http.MethodPost, "/roles/acme/ops/permissions",
		strings.NewReader(`{"permission":"svc:acme:read:db1:/data"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = DoRequest(t, srv, http.MethodGet, "/permissions/acme?pattern=svc%3Aacme%3Aread%3A%25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var matches []PermissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "svc:acme:read:db1:/data", matches[0].Permission)

	rec = DoRequest(t, srv, http.MethodPost, "/permissions/acme/rewrite",
		strings.NewReader(`{"schema":"svc","old_system_id":"db1","new_system_id":"db9","old_prefix":"/data","new_prefix":"/archive"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var rewrite map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rewrite))
	assert.EqualValues(t, 1, rewrite["rewritten"])

	rec = DoRequest(t, srv, http.MethodDelete, "/roles/acme/ops/permissions",
		strings.NewReader(`{"permission":"svc:acme:read:db9:/archive"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 1, rows.Rows)
}
