package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/wardenhq/warden/pkg/authz"
	"github.com/wardenhq/warden/pkg/identity"
)

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithEngineError maps engine error kinds to status codes. The
// engine error text is caller-safe by construction.
func respondWithEngineError(w http.ResponseWriter, err error) {
	switch authz.KindOf(err) {
	case authz.KindValidation:
		respondWithError(w, http.StatusBadRequest, err.Error())
	case authz.KindNotFound:
		respondWithError(w, http.StatusNotFound, err.Error())
	case authz.KindConnectivity:
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		respondWithError(w, http.StatusInternalServerError, err.Error())
	}
}

// requestor returns the authenticated identity placed in the context by the
// token middleware.
func requestor(r *http.Request) identity.Identity {
	if id, ok := identity.Get(r.Context()); ok {
		return *id
	}
	return identity.Identity{}
}

// rowsResponse reports how many rows an idempotent mutation changed.
type rowsResponse struct {
	Rows int64 `json:"rows"`
}

func respondWithRows(w http.ResponseWriter, rows int64) {
	respondWithJSON(w, http.StatusOK, rowsResponse{Rows: rows})
}

func decodeBody(w http.ResponseWriter, r *http.Request, into interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		respondWithError(w, http.StatusBadRequest, "request body is not valid JSON")
		return false
	}
	return true
}
