package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/server"
)

// PermissionResponse represents a permission grant in the API response
type PermissionResponse struct {
	ID         int64  `json:"id"`
	RoleID     int64  `json:"role_id"`
	Permission string `json:"permission"`
}

func permissionResponses(perms []model.RolePermission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionResponse{ID: p.ID, RoleID: p.RoleID, Permission: p.Permission})
	}
	return out
}

// RewriteRequest is the body for a bulk permission path rewrite
type RewriteRequest struct {
	Schema      string  `json:"schema"`
	Role        *string `json:"role,omitempty"`
	OldSystemID string  `json:"old_system_id"`
	NewSystemID string  `json:"new_system_id"`
	OldPrefix   string  `json:"old_prefix"`
	NewPrefix   string  `json:"new_prefix"`
}

// RegisterPermissionsEndpoints registers the permission endpoints
func RegisterPermissionsEndpoints(s *server.Server) {
	rolesRouter := s.Router.PathPrefix("/roles").Subrouter()
	rolesRouter.Use(s.Tokens.Middleware)
	rolesRouter.HandleFunc("/{tenant}/{name}/permissions", handleAssignPermission(s.Permissions)).Methods("POST")
	rolesRouter.HandleFunc("/{tenant}/{name}/permissions", handleRemovePermission(s.Permissions)).Methods("DELETE")

	permsRouter := s.Router.PathPrefix("/permissions").Subrouter()
	permsRouter.Use(s.Tokens.Middleware)
	permsRouter.HandleFunc("/{tenant}", handleMatchingPermissions(s.Permissions, s.Roles)).Methods("GET")
	permsRouter.HandleFunc("/{tenant}/users", handleUsersWithPermission(s.Assignments)).Methods("GET")
	permsRouter.HandleFunc("/{tenant}/rewrite", handleRewritePermissions(s.Permissions)).Methods("POST")
}

func handleAssignPermission(perms *authz.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var req struct {
			Permission string `json:"permission"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := perms.Assign(vars["tenant"], vars["name"], req.Permission, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleRemovePermission(perms *authz.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var req struct {
			Permission string `json:"permission"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := perms.Remove(vars["tenant"], vars["name"], req.Permission, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleMatchingPermissions(perms *authz.Permissions, roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]
		pattern := r.URL.Query().Get("pattern")

		var roleID *int64
		if roleName := r.URL.Query().Get("role"); roleName != "" {
			id, ok, err := roles.ID(tenant, roleName)
			if err != nil {
				respondWithEngineError(w, err)
				return
			}
			if !ok {
				respondWithError(w, http.StatusNotFound, "role not found")
				return
			}
			roleID = &id
		}

		matches, err := perms.Matching(tenant, pattern, roleID)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, permissionResponses(matches))
	}
}

func handleUsersWithPermission(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]
		pattern := r.URL.Query().Get("pattern")

		users, err := assignments.UsersWithPermission(tenant, pattern)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}

func handleRewritePermissions(perms *authz.Permissions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]

		var req RewriteRequest
		if !decodeBody(w, r, &req) {
			return
		}

		count, err := perms.ReplacePathPrefix(tenant, req.Schema, req.Role,
			req.OldSystemID, req.NewSystemID, req.OldPrefix, req.NewPrefix, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]int64{"rewritten": count})
	}
}
