package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/wardenhq/warden/pkg/audit"
	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/config"
	"github.com/wardenhq/warden/pkg/server/middleware"
	"github.com/wardenhq/warden/pkg/vault"
)

// Server bundles the router, the engines and the shared infrastructure the
// endpoints need. All dependencies are passed in explicitly.
type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config *config.Config

	Roles       *authz.Roles
	Hierarchy   *authz.Hierarchy
	Permissions *authz.Permissions
	Assignments *authz.Assignments
	Shares      *authz.Shares
	Vault       *vault.Vault

	Tokens   *middleware.TokenService
	Recorder *audit.Recorder

	srv *http.Server
}

// Deps carries the constructed engines and infrastructure for NewServer.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config

	Roles       *authz.Roles
	Hierarchy   *authz.Hierarchy
	Permissions *authz.Permissions
	Assignments *authz.Assignments
	Shares      *authz.Shares
	Vault       *vault.Vault

	Tokens   *middleware.TokenService
	Recorder *audit.Recorder
}

// NewServer creates the HTTP server on the configured listen address.
func NewServer(deps Deps) *Server {
	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    deps.Config.ListenAddress,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:      router,
		DB:          deps.DB,
		Config:      deps.Config,
		Roles:       deps.Roles,
		Hierarchy:   deps.Hierarchy,
		Permissions: deps.Permissions,
		Assignments: deps.Assignments,
		Shares:      deps.Shares,
		Vault:       deps.Vault,
		Tokens:      deps.Tokens,
		Recorder:    deps.Recorder,
		srv:         srv,
	}
}

// Start begins serving. It blocks until the listener fails.
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}
