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

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TagCreateRequest is the body of POST /api/v1/tags
type TagCreateRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// RegisterTagsEndpoints registers the tag endpoints
func RegisterTagsEndpoints(s *server.Server) {
	tagsStore := s.Stores.Tags

	// GET /api/v1/tags - List tags (no auth required)
	s.Router.HandleFunc("/api/v1/tags", handleListTags(tagsStore)).Methods("GET")

	tokenAuth := middleware.NewTokenAuthenticator(s.Tokens, s.Stores.Users)

	adminRouter := s.Router.PathPrefix("/api/v1/tags").Subrouter()
	adminRouter.Use(tokenAuth.Middleware, middleware.RequireAdmin)

	// POST /api/v1/tags - Create a tag
	adminRouter.HandleFunc("", handleCreateTag(tagsStore)).Methods("POST")

	// DELETE /api/v1/tags/{tag_id} - Delete a tag
	adminRouter.HandleFunc("/{tag_id}", handleDeleteTag(tagsStore)).Methods("DELETE")
}

func handleListTags(tagsStore store.TagsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := tagsStore.ListTags()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list tags")
			return
		}

		out := make([]TagResponse, 0, len(tags))
		for _, tag := range tags {
			out = append(out, TagResponse{ID: tag.ID, Name: tag.Name})
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleCreateTag(tagsStore store.TagsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body TagCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		if err := validate.Struct(body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}

		tag := &model.Tag{Name: strings.TrimSpace(body.Name)}

		id, _ := identity.Get(r.Context())

		if err := tagsStore.CreateTag(tag); err != nil {
			if errors.Is(err, store.ErrDuplicateTag) {
				audit.Log(audit.ResourceEvent{
					Actor:        id.Email,
					ClientIP:     middleware.ClientIP(r),
					Kind:         "tag",
					Name:         tag.Name,
					Operation:    "create",
					Success:      false,
					ErrorMessage: "tag already exists",
				})
				respondWithError(w, http.StatusConflict, "Tag already exists")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to create tag")
			return
		}

		audit.Log(audit.ResourceEvent{
			Actor:      id.Email,
			ClientIP:   middleware.ClientIP(r),
			Kind:       "tag",
			ResourceID: tag.ID,
			Name:       tag.Name,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, TagResponse{ID: tag.ID, Name: tag.Name})
	}
}

func handleDeleteTag(tagsStore store.TagsStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := pathID(r, "tag_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid tag_id")
			return
		}

		if err := tagsStore.DeleteTag(tagID); err != nil {
			if errors.Is(err, store.ErrTagNotFound) {
				respondWithError(w, http.StatusNotFound, "Tag not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to delete tag")
			return
		}

		id, _ := identity.Get(r.Context())
		audit.Log(audit.ResourceEvent{
			Actor:      id.Email,
			ClientIP:   middleware.ClientIP(r),
			Kind:       "tag",
			ResourceID: tagID,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
