package endpoints

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/wardenhq/warden/pkg/server"
)

// StatusResponse reports service and database health
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the unauthenticated health endpoint
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/status", handleStatus(s.DB)).Methods("GET")
}

func handleStatus(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StatusResponse{Status: "ok", Database: "ok"}
		code := http.StatusOK

		sqlDB, err := db.DB()
		if err != nil || sqlDB.Ping() != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			code = http.StatusServiceUnavailable
		}

		respondWithJSON(w, code, resp)
	}
}
