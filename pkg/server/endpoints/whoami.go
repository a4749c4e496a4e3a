package endpoints

import (
	"net/http"

	"github.com/wardenhq/warden/pkg/identity"
	"github.com/wardenhq/warden/pkg/server"
)

// WhoamiResponse reports the authenticated identity
type WhoamiResponse struct {
	Tenant   string `json:"tenant"`
	Username string `json:"username"`
	ClientIP string `json:"client_ip,omitempty"`
}

// RegisterWhoamiEndpoint registers the /whoami endpoint
func RegisterWhoamiEndpoint(s *server.Server) {
	whoamiRouter := s.Router.PathPrefix("/whoami").Subrouter()
	whoamiRouter.Use(s.Tokens.Middleware)

	whoamiRouter.HandleFunc("", handleWhoami()).Methods("GET")
}

func handleWhoami() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "unable to determine identity")
			return
		}

		resp := WhoamiResponse{Tenant: id.Tenant, Username: id.User}
		if id.RemoteIP != nil {
			resp.ClientIP = id.RemoteIP.String()
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}
