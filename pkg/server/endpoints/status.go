package endpoints

import (
	"net/http"
	"os"

	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	"github.com/eventdeckhq/eventdeck/pkg/worker"
)

// ServiceInfoResponse is the status document served at the API root
type ServiceInfoResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Status  string `json:"status"`
	Workers int    `json:"workers"`
}

// HealthResponse represents the response from /health
type HealthResponse struct {
	Status string `json:"status"`
}

// RegisterStatusEndpoints registers the status and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status document (no auth required)
	s.Router.HandleFunc("/", handleServiceInfo(s.Pool)).Methods("GET")

	// GET /health - Database connectivity probe (no auth required)
	s.Router.HandleFunc("/health", handleHealth(s.Stores.Health)).Methods("GET")
}

func handleServiceInfo(pool *worker.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("EVENTDECK_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		workers := 0
		if pool != nil {
			workers = pool.Size()
		}

		respondWithJSON(w, http.StatusOK, ServiceInfoResponse{
			Name:    "eventdeck",
			Version: version,
			Status:  "ok",
			Workers: workers,
		})
	}
}

func handleHealth(healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := healthStore.Ping(r.Context()); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable"})
			return
		}

		respondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
