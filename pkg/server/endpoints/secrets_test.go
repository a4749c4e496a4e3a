package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/vault"
)

func TestSecretRoundTrip(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterSecretsEndpoints(srv)

	rec := DoRequest(t, srv, http.MethodPost, "/secrets/acme/db/password",
		strings.NewReader("hunter2"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = DoRequest(t, srv, http.MethodGet, "/secrets/acme/db/password", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hunter2", rec.Body.String())
	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))

	rec = DoRequest(t, srv, http.MethodGet, "/secrets/acme/db/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecretListAndDelete(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterSecretsEndpoints(srv)

	DoRequest(t, srv, http.MethodPost, "/secrets/acme/db/password", strings.NewReader("a"))
	DoRequest(t, srv, http.MethodPost, "/secrets/acme/api/token", strings.NewReader("b"))

	rec := DoRequest(t, srv, http.MethodGet, "/secrets/acme?prefix=%2Fdb%2F", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var paths []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paths))
	assert.Equal(t, []string{"/db/password"}, paths)

	rec = DoRequest(t, srv, http.MethodDelete, "/secrets/acme/db/password", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows rowsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.EqualValues(t, 1, rows.Rows)

	rec = DoRequest(t, srv, http.MethodGet, "/secrets/acme/db/password", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSecretsRequireAuth(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterSecretsEndpoints(srv)

	rec := DoAnonymousRequest(t, srv, http.MethodGet, "/secrets/acme/db/password", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticateEndpoint(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterAuthenticateEndpoint(srv)
	RegisterWhoamiEndpoint(srv)

	apiKey := []byte("s3cr3t-api-key")
	require.NoError(t, srv.Vault.Put("acme", apiKeyPath("alice"), apiKey,
		vault.WriteOptions{}, identity.Identity{Tenant: "acme", User: "bootstrap"}))

	rec := DoAnonymousRequest(t, srv, http.MethodPost, "/authn/acme/alice/authenticate",
		strings.NewReader(string(apiKey)))
	require.Equal(t, http.StatusOK, rec.Code)
	token := rec.Body.String()
	require.NotEmpty(t, token)

	// The issued token authenticates subsequent requests.
	rec = DoAnonymousRequest(t, srv, http.MethodGet, "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var who WhoamiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &who))
	assert.Equal(t, "acme", who.Tenant)
	assert.Equal(t, "alice", who.Username)
}

func TestAuthenticateRejectsBadKey(t *testing.T) {
	srv, _ := NewTestServer(t)
	RegisterAuthenticateEndpoint(srv)

	require.NoError(t, srv.Vault.Put("acme", apiKeyPath("alice"), []byte("right"),
		vault.WriteOptions{}, identity.Identity{Tenant: "acme", User: "bootstrap"}))

	rec := DoAnonymousRequest(t, srv, http.MethodPost, "/authn/acme/alice/authenticate",
		strings.NewReader("wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = DoAnonymousRequest(t, srv, http.MethodPost, "/authn/acme/nobody/authenticate",
		strings.NewReader("right"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = DoAnonymousRequest(t, srv, http.MethodPost, "/authn/acme/alice/authenticate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
