package endpoints

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/middleware"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// AuditLogResponse represents an event change record in API responses
type AuditLogResponse struct {
	ID            int64     `json:"id"`
	EventID       int64     `json:"event_id"`
	ChangedBy     *int64    `json:"changed_by"`
	ChangedColumn string    `json:"changed_column"`
	OldValue      *string   `json:"old_value"`
	NewValue      *string   `json:"new_value"`
	ChangeDate    time.Time `json:"change_date"`
}

// RegisterAuditEndpoints registers the event change history endpoint
func RegisterAuditEndpoints(s *server.Server) {
	auditStore := s.Stores.Audit

	tokenAuth := middleware.NewTokenAuthenticator(s.Tokens, s.Stores.Users)

	adminRouter := s.Router.PathPrefix("/api/v1/audit").Subrouter()
	adminRouter.Use(tokenAuth.Middleware, middleware.RequireAdmin)

	// GET /api/v1/audit?event_id= - Event change history, newest first
	adminRouter.HandleFunc("", handleListAuditLogs(auditStore)).Methods("GET")
}

func handleListAuditLogs(auditStore store.AuditStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var eventID *int64
		if raw := strings.TrimSpace(r.URL.Query().Get("event_id")); raw != "" {
			value, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				respondWithError(w, http.StatusUnprocessableEntity, "Invalid event_id")
				return
			}
			eventID = &value
		}

		logs, err := auditStore.ListEventAuditLogs(eventID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list audit logs")
			return
		}

		out := make([]AuditLogResponse, 0, len(logs))
		for _, entry := range logs {
			out = append(out, AuditLogResponse{
				ID:            entry.ID,
				EventID:       entry.EventID,
				ChangedBy:     entry.ChangedBy,
				ChangedColumn: entry.ChangedColumn,
				OldValue:      entry.OldValue,
				NewValue:      entry.NewValue,
				ChangeDate:    entry.ChangeDate,
			})
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}
