package endpoints

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/wardenhq/warden/pkg/server"
	"github.com/wardenhq/warden/pkg/server/middleware"
	"github.com/wardenhq/warden/pkg/vault"
)

// apiKeyPath is where a user's API key lives in the vault.
func apiKeyPath(user string) string {
	return "/warden/users/" + user + "/api-key"
}

// RegisterAuthenticateEndpoint registers the API-key login endpoint. It is
// the only unauthenticated route besides status.
func RegisterAuthenticateEndpoint(s *server.Server) {
	s.Router.HandleFunc("/authn/{tenant}/{user}/authenticate",
		handleAuthenticate(s.Vault, s.Tokens)).Methods("POST")
}

func handleAuthenticate(v *vault.Vault, tokens *middleware.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		tenant := vars["tenant"]
		user := vars["user"]

		presented, err := io.ReadAll(r.Body)
		if err != nil || len(presented) == 0 {
			respondWithError(w, http.StatusBadRequest, "api key required in request body")
			return
		}

		stored, err := v.Get(tenant, apiKeyPath(user))
		if err != nil {
			if !errors.Is(err, vault.ErrNotFound) {
				logrus.WithError(err).Error("api key lookup failed")
			}
			respondWithError(w, http.StatusUnauthorized, "authentication failed")
			return
		}

		if subtle.ConstantTimeCompare(stored, presented) != 1 {
			respondWithError(w, http.StatusUnauthorized, "authentication failed")
			return
		}

		token, err := tokens.Issue(tenant, user)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to issue token")
			return
		}

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(token))
	}
}
