package endpoints

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/wardenhq/warden/pkg/server"
	"github.com/wardenhq/warden/pkg/vault"
)

// RegisterSecretsEndpoints registers the vault endpoints. Secret values are
// raw bytes in the request and response bodies, never JSON-wrapped.
func RegisterSecretsEndpoints(s *server.Server) {
	secretsRouter := s.Router.PathPrefix("/secrets").Subrouter()
	secretsRouter.Use(s.Tokens.Middleware)

	secretsRouter.HandleFunc("/{tenant}", handleListSecretPaths(s.Vault)).Methods("GET")
	secretsRouter.HandleFunc("/{tenant}/{path:.+}", handleGetSecret(s.Vault)).Methods("GET")
	secretsRouter.HandleFunc("/{tenant}/{path:.+}", handlePutSecret(s.Vault)).Methods("POST")
	secretsRouter.HandleFunc("/{tenant}/{path:.+}", handleDeleteSecret(s.Vault)).Methods("DELETE")
}

func secretPath(r *http.Request) (string, bool) {
	path, err := url.PathUnescape(mux.Vars(r)["path"])
	if err != nil || path == "" {
		return "", false
	}
	return "/" + path, true
}

func handleGetSecret(v *vault.Vault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]
		path, ok := secretPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid secret path")
			return
		}

		value, err := v.Get(tenant, path)
		if err != nil {
			if errors.Is(err, vault.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "secret not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "failed to retrieve secret")
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(value)
	}
}

func handlePutSecret(v *vault.Vault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]
		path, ok := secretPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid secret path")
			return
		}

		value, err := io.ReadAll(r.Body)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		var opts vault.WriteOptions
		if casParam := r.URL.Query().Get("cas"); casParam != "" {
			// Accepted for client compatibility; writes always replace.
			cas := 0
			opts.CAS = &cas
		}

		if err := v.Put(tenant, path, value, opts, requestor(r)); err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to store secret")
			return
		}
		w.WriteHeader(http.StatusCreated)
	}
}

func handleDeleteSecret(v *vault.Vault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]
		path, ok := secretPath(r)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "invalid secret path")
			return
		}

		rows, err := v.Delete(tenant, path)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to delete secret")
			return
		}
		respondWithRows(w, rows)
	}
}

func handleListSecretPaths(v *vault.Vault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "/"
		}

		paths, err := v.List(tenant, prefix)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list secrets")
			return
		}
		respondWithJSON(w, http.StatusOK, paths)
	}
}
