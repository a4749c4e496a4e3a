package endpoints

import (
	"github.com/wardenhq/warden/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthenticateEndpoint(srv)
	RegisterRolesEndpoints(srv)
	RegisterHierarchyEndpoints(srv)
	RegisterPermissionsEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterSharesEndpoints(srv)
	RegisterSecretsEndpoints(srv)
	RegisterStatusEndpoints(srv)
	RegisterWhoamiEndpoint(srv)
}
