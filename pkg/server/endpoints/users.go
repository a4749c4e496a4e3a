package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/server"
)

// RegisterUsersEndpoints registers the user-role assignment endpoints
func RegisterUsersEndpoints(s *server.Server) {
	usersRouter := s.Router.PathPrefix("/users").Subrouter()
	usersRouter.Use(s.Tokens.Middleware)

	usersRouter.HandleFunc("/{tenant}/{user}/roles/{role}", handleAssignUserRole(s.Assignments)).Methods("PUT")
	usersRouter.HandleFunc("/{tenant}/{user}/roles/{role}", handleRemoveUserRole(s.Assignments)).Methods("DELETE")
	usersRouter.HandleFunc("/{tenant}/{user}/roles", handleUserRoleNames(s.Assignments)).Methods("GET")
	usersRouter.HandleFunc("/{tenant}/{user}/roles", handleCreateAndAssignRole(s.Assignments)).Methods("POST")
	usersRouter.HandleFunc("/{tenant}/{user}/permissions", handleUserPermissions(s.Assignments)).Methods("GET")
	usersRouter.HandleFunc("/{tenant}/{user}/check", handleCheckUserPermission(s.Assignments)).Methods("GET")

	rolesRouter := s.Router.PathPrefix("/roles").Subrouter()
	rolesRouter.Use(s.Tokens.Middleware)
	rolesRouter.HandleFunc("/{tenant}/{name}/users", handleUsersWithRole(s.Assignments)).Methods("GET")
}

func handleAssignUserRole(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		rows, err := assignments.AssignUserRole(vars["tenant"], vars["user"], vars["role"], requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleRemoveUserRole(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		rows, err := assignments.RemoveUserRole(vars["tenant"], vars["user"], vars["role"], requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleUserRoleNames(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		names, err := assignments.UserRoleNames(vars["tenant"], vars["user"])
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, names)
	}
}

func handleCreateAndAssignRole(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		var req struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			Strict      bool   `json:"strict"`
		}
		if !decodeBody(w, r, &req) {
			return
		}

		rows, err := assignments.CreateAndAssignRole(vars["tenant"], vars["user"], req.Name, req.Description, req.Strict, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleUserPermissions(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		perms, err := assignments.UserPermissions(vars["tenant"], vars["user"])
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, perms)
	}
}

func handleCheckUserPermission(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		required := r.URL.Query().Get("permission")

		granted, err := assignments.CheckUserPermission(vars["tenant"], vars["user"], required)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"granted": granted})
	}
}

func handleUsersWithRole(assignments *authz.Assignments) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		users, err := assignments.UsersWithRole(vars["tenant"], vars["name"])
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, users)
	}
}
