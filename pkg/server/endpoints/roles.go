package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/server"
)

// RoleResponse represents a role in the API response
type RoleResponse struct {
	ID          int64  `json:"id"`
	Tenant      string `json:"tenant"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Owner       string `json:"owner"`
	OwnerTenant string `json:"owner_tenant"`
}

func roleResponse(role *model.Role) RoleResponse {
	return RoleResponse{
		ID:          role.ID,
		Tenant:      role.Tenant,
		Name:        role.Name,
		Description: role.Description,
		Owner:       role.Owner,
		OwnerTenant: role.OwnerTenant,
	}
}

// CreateRoleRequest is the body for role creation
type CreateRoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	OwnerTenant string `json:"owner_tenant"`
}

// RegisterRolesEndpoints registers the role CRUD endpoints
func RegisterRolesEndpoints(s *server.Server) {
	rolesRouter := s.Router.PathPrefix("/roles").Subrouter()
	rolesRouter.Use(s.Tokens.Middleware)

	rolesRouter.HandleFunc("/{tenant}", handleCreateRole(s.Roles)).Methods("POST")
	rolesRouter.HandleFunc("/{tenant}", handleListRoleNames(s.Roles)).Methods("GET")
	rolesRouter.HandleFunc("/{tenant}/{name}", handleGetRole(s.Roles)).Methods("GET")
	rolesRouter.HandleFunc("/{tenant}/{name}", handleDeleteRole(s.Roles)).Methods("DELETE")
	rolesRouter.HandleFunc("/{tenant}/{name}/name", handleRenameRole(s.Roles)).Methods("PUT")
	rolesRouter.HandleFunc("/{tenant}/{name}/owner", handleSetRoleOwner(s.Roles)).Methods("PUT")
	rolesRouter.HandleFunc("/{tenant}/{name}/description", handleSetRoleDescription(s.Roles)).Methods("PUT")
}

func handleCreateRole(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]

		var req CreateRoleRequest
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := roles.Create(tenant, req.Name, req.Description, req.Owner, req.OwnerTenant, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}

		role, err := roles.Get(tenant, req.Name)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}

		code := http.StatusOK
		if rows > 0 {
			code = http.StatusCreated
		}
		respondWithJSON(w, code, roleResponse(role))
	}
}

func handleListRoleNames(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := roles.Names(mux.Vars(r)["tenant"])
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, names)
	}
}

func handleGetRole(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		role, err := roles.Get(vars["tenant"], vars["name"])
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		if role == nil {
			respondWithError(w, http.StatusNotFound, "role not found")
			return
		}
		respondWithJSON(w, http.StatusOK, roleResponse(role))
	}
}

func handleDeleteRole(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		rows, err := roles.Delete(vars["tenant"], vars["name"], requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleRenameRole(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var req struct {
			NewName string `json:"new_name"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := roles.Rename(vars["tenant"], vars["name"], req.NewName, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleSetRoleOwner(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var req struct {
			Owner       string `json:"owner"`
			OwnerTenant string `json:"owner_tenant"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := roles.SetOwner(vars["tenant"], vars["name"], req.Owner, req.OwnerTenant, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleSetRoleDescription(roles *authz.Roles) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var req struct {
			Description string `json:"description"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := roles.SetDescription(vars["tenant"], vars["name"], req.Description, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}
