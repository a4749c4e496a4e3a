package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/server"
)

// RegisterHierarchyEndpoints registers the role hierarchy endpoints
func RegisterHierarchyEndpoints(s *server.Server) {
	rolesRouter := s.Router.PathPrefix("/roles").Subrouter()
	rolesRouter.Use(s.Tokens.Middleware)

	rolesRouter.HandleFunc("/{tenant}/{parent}/children/{child}", handleAssignChildRole(s.Hierarchy)).Methods("PUT")
	rolesRouter.HandleFunc("/{tenant}/{parent}/children/{child}", handleRemoveChildRole(s.Hierarchy)).Methods("DELETE")
	rolesRouter.HandleFunc("/{tenant}/{name}/descendants", handleDescendants(s.Roles, s.Hierarchy)).Methods("GET")
	rolesRouter.HandleFunc("/{tenant}/{name}/ancestors", handleAncestors(s.Roles, s.Hierarchy)).Methods("GET")
}

func handleAssignChildRole(h *authz.Hierarchy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		rows, err := h.AssignChildRole(vars["tenant"], vars["parent"], vars["child"], requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleRemoveChildRole(h *authz.Hierarchy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		rows, err := h.RemoveChildRole(vars["tenant"], vars["parent"], vars["child"], requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func resolveRoleID(w http.ResponseWriter, r *http.Request, roles *authz.Roles) (int64, bool) {
	vars := mux.Vars(r)

	id, ok, err := roles.ID(vars["tenant"], vars["name"])
	if err != nil {
		respondWithEngineError(w, err)
		return 0, false
	}
	if !ok {
		respondWithError(w, http.StatusNotFound, "role not found")
		return 0, false
	}
	return id, true
}

func handleDescendants(roles *authz.Roles, h *authz.Hierarchy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoleID(w, r, roles)
		if !ok {
			return
		}

		names, err := h.DescendantRoleNames(id)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, names)
	}
}

func handleAncestors(roles *authz.Roles, h *authz.Hierarchy) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := resolveRoleID(w, r, roles)
		if !ok {
			return
		}

		names, err := h.AncestorRoleNames(id)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, names)
	}
}
