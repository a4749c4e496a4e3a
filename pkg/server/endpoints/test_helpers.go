package endpoints

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/config"
	"github.com/wardenhq/warden/pkg/server"
	"github.com/wardenhq/warden/pkg/server/middleware"
	"github.com/wardenhq/warden/pkg/store/storetest"
	"github.com/wardenhq/warden/pkg/vault"
)

// NewTestServer builds a server over an in-memory store with a known
// signing key, for handler tests.
func NewTestServer(t *testing.T) (*server.Server, *storetest.Store) {
	t.Helper()

	st := storetest.New()
	cfg := config.NewDefault()

	tokens, err := middleware.NewTokenService([]byte("test-signing-key"), cfg)
	require.NoError(t, err)

	key := make([]byte, 32)
	cipher, err := vault.NewCipher(key)
	require.NoError(t, err)

	hierarchy := authz.NewHierarchy(st, nil)
	srv := &server.Server{
		Router:      mux.NewRouter().UseEncodedPath(),
		Config:      cfg,
		Roles:       authz.NewRoles(st, nil),
		Hierarchy:   hierarchy,
		Permissions: authz.NewPermissions(st, nil),
		Assignments: authz.NewAssignments(st, hierarchy, nil),
		Shares:      authz.NewShares(st, nil),
		Vault:       vault.New(st, cipher),
		Tokens:      tokens,
	}
	return srv, st
}

// DoRequest performs a request against the test server with a valid token
// for acme:admin and returns the response.
func DoRequest(t *testing.T, srv *server.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	token, err := srv.Tokens.Issue("acme", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

// DoAnonymousRequest performs a request without an Authorization header.
func DoAnonymousRequest(t *testing.T, srv *server.Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}
