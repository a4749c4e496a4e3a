package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/model"
	"github.com/wardenhq/warden/pkg/server"
	"github.com/wardenhq/warden/pkg/store"
)

// ShareResponse represents a sharing grant in the API response
type ShareResponse struct {
	ID           string  `json:"id"`
	Tenant       string  `json:"tenant"`
	Grantor      string  `json:"grantor"`
	Grantee      string  `json:"grantee"`
	ResourceType string  `json:"resource_type"`
	ResourceID1  string  `json:"resource_id1"`
	ResourceID2  *string `json:"resource_id2,omitempty"`
	Privilege    string  `json:"privilege"`
}

func shareResponse(share *model.Share) ShareResponse {
	return ShareResponse{
		ID:           share.ID,
		Tenant:       share.Tenant,
		Grantor:      share.Grantor,
		Grantee:      share.Grantee,
		ResourceType: share.ResourceType,
		ResourceID1:  share.ResourceID1,
		ResourceID2:  share.ResourceID2,
		Privilege:    share.Privilege,
	}
}

// CreateShareRequest is the body for share creation
type CreateShareRequest struct {
	Grantor      string  `json:"grantor"`
	Grantee      string  `json:"grantee"`
	ResourceType string  `json:"resource_type"`
	ResourceID1  string  `json:"resource_id1"`
	ResourceID2  *string `json:"resource_id2,omitempty"`
	Privilege    string  `json:"privilege"`
}

// RegisterSharesEndpoints registers the sharing grant endpoints
func RegisterSharesEndpoints(s *server.Server) {
	sharesRouter := s.Router.PathPrefix("/shares").Subrouter()
	sharesRouter.Use(s.Tokens.Middleware)

	sharesRouter.HandleFunc("/{tenant}", handleCreateShare(s.Shares)).Methods("POST")
	sharesRouter.HandleFunc("/{tenant}", handleListShares(s.Shares)).Methods("GET")
	sharesRouter.HandleFunc("/{tenant}/check", handleCheckPrivilege(s.Shares)).Methods("GET")
	sharesRouter.HandleFunc("/{tenant}/{id}", handleGetShare(s.Shares)).Methods("GET")
	sharesRouter.HandleFunc("/{tenant}/{id}", handleDeleteShare(s.Shares)).Methods("DELETE")
}

func handleCreateShare(shares *authz.Shares) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenant := mux.Vars(r)["tenant"]

		var req CreateShareRequest
		if !decodeBody(w, r, &req) {
			return
		}

		share, err := shares.ShareResource(authz.ShareRequest{
			Tenant:       tenant,
			Grantor:      req.Grantor,
			Grantee:      req.Grantee,
			ResourceType: req.ResourceType,
			ResourceID1:  req.ResourceID1,
			ResourceID2:  req.ResourceID2,
			Privilege:    req.Privilege,
		}, requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, shareResponse(share))
	}
}

func queryParam(r *http.Request, name string) *string {
	if !r.URL.Query().Has(name) {
		return nil
	}
	value := r.URL.Query().Get(name)
	return &value
}

func handleListShares(shares *authz.Shares) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := store.NewShareFilter(mux.Vars(r)["tenant"])
		filter.Grantor = queryParam(r, "grantor")
		filter.Grantee = queryParam(r, "grantee")
		filter.ResourceType = queryParam(r, "resource_type")
		filter.ResourceID1 = queryParam(r, "resource_id1")
		filter.ResourceID2 = queryParam(r, "resource_id2")
		filter.Privilege = queryParam(r, "privilege")
		if r.URL.Query().Get("any_resource_id2") == "true" {
			filter.RequireNullID2 = false
		}
		if r.URL.Query().Get("exclude_public") == "true" {
			filter.IncludePublicGrantees = false
		}

		matches, err := shares.List(filter)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}

		out := make([]ShareResponse, 0, len(matches))
		for i := range matches {
			out = append(out, shareResponse(&matches[i]))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleGetShare(shares *authz.Shares) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		share, err := shares.Get(vars["tenant"], vars["id"])
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, shareResponse(share))
	}
}

func handleDeleteShare(shares *authz.Shares) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		rows, err := shares.Delete(vars["tenant"], vars["id"], requestor(r))
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithRows(w, rows)
	}
}

func handleCheckPrivilege(shares *authz.Shares) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		sel := authz.PrivilegeSelector{
			Tenant:               mux.Vars(r)["tenant"],
			Grantee:              query.Get("grantee"),
			ResourceType:         query.Get("resource_type"),
			ResourceID1:          query.Get("resource_id1"),
			ResourceID2:          queryParam(r, "resource_id2"),
			Privilege:            query.Get("privilege"),
			ExcludePublic:        query.Get("exclude_public") == "true",
			ExcludePublicNoAuthn: query.Get("exclude_public_no_authn") == "true",
		}

		granted, err := shares.HasPrivilege(sel)
		if err != nil {
			respondWithEngineError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]bool{"granted": granted})
	}
}
