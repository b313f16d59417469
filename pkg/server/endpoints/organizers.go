package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/identity"
	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/middleware"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// OrganizerResponse represents an organizer in API responses
type OrganizerResponse struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Website      *string `json:"website"`
	ContactEmail *string `json:"contact_email"`
	Description  *string `json:"description"`
}

// OrganizerCreateRequest is the body of POST /api/v1/organizers
type OrganizerCreateRequest struct {
	Name         string  `json:"name" validate:"required,max=255"`
	Website      *string `json:"website" validate:"omitempty,url,max=500"`
	ContactEmail *string `json:"contact_email" validate:"omitempty,email,max=255"`
	Description  *string `json:"description"`
}

func newOrganizerResponse(organizer *model.Organizer) OrganizerResponse {
	return OrganizerResponse{
		ID:           organizer.ID,
		Name:         organizer.Name,
		Website:      organizer.Website,
		ContactEmail: organizer.ContactEmail,
		Description:  organizer.Description,
	}
}

// RegisterOrganizersEndpoints registers the organizer endpoints
func RegisterOrganizersEndpoints(s *server.Server) {
	organizersStore := s.Stores.Organizers

	// GET /api/v1/organizers - List organizers (no auth required)
	s.Router.HandleFunc("/api/v1/organizers", handleListOrganizers(organizersStore)).Methods("GET")

	// GET /api/v1/organizers/{organizer_id} - Single organizer (no auth required)
	s.Router.HandleFunc("/api/v1/organizers/{organizer_id}", handleGetOrganizer(organizersStore)).Methods("GET")

	tokenAuth := middleware.NewTokenAuthenticator(s.Tokens, s.Stores.Users)

	adminRouter := s.Router.PathPrefix("/api/v1/organizers").Subrouter()
	adminRouter.Use(tokenAuth.Middleware, middleware.RequireAdmin)

	// POST /api/v1/organizers - Create an organizer
	adminRouter.HandleFunc("", handleCreateOrganizer(organizersStore)).Methods("POST")
}

func handleListOrganizers(organizersStore store.OrganizersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organizers, err := organizersStore.ListOrganizers()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list organizers")
			return
		}

		out := make([]OrganizerResponse, 0, len(organizers))
		for i := range organizers {
			out = append(out, newOrganizerResponse(&organizers[i]))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleGetOrganizer(organizersStore store.OrganizersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		organizerID, err := pathID(r, "organizer_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid organizer_id")
			return
		}

		organizer, err := organizersStore.OrganizerByID(organizerID)
		if err != nil {
			if errors.Is(err, store.ErrOrganizerNotFound) {
				respondWithError(w, http.StatusNotFound, "Organizer not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch organizer")
			return
		}

		respondWithJSON(w, http.StatusOK, newOrganizerResponse(organizer))
	}
}

func handleCreateOrganizer(organizersStore store.OrganizersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body OrganizerCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		if err := validate.Struct(body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}

		organizer := &model.Organizer{
			Name:         strings.TrimSpace(body.Name),
			Website:      body.Website,
			ContactEmail: body.ContactEmail,
			Description:  body.Description,
		}

		id, _ := identity.Get(r.Context())

		if err := organizersStore.CreateOrganizer(organizer); err != nil {
			if errors.Is(err, store.ErrDuplicateOrganizer) {
				audit.Log(audit.ResourceEvent{
					Actor:        id.Email,
					ClientIP:     middleware.ClientIP(r),
					Kind:         "organizer",
					Name:         organizer.Name,
					Operation:    "create",
					Success:      false,
					ErrorMessage: "organizer already exists",
				})
				respondWithError(w, http.StatusConflict, "Organizer already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to create organizer")
			return
		}

		audit.Log(audit.ResourceEvent{
			Actor:      id.Email,
			ClientIP:   middleware.ClientIP(r),
			Kind:       "organizer",
			ResourceID: organizer.ID,
			Name:       organizer.Name,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, newOrganizerResponse(organizer))
	}
}
