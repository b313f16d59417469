package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/identity"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/middleware"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
)

// BookmarkResponse represents a saved event in API responses
type BookmarkResponse struct {
	EventID int64         `json:"event_id"`
	AddedAt time.Time     `json:"added_at"`
	Event   EventResponse `json:"event"`
}

// RegisterBookmarksEndpoints registers the per-user bookmark endpoints
func RegisterBookmarksEndpoints(s *server.Server) {
	bookmarksStore := s.Stores.Bookmarks
	objects := s.Storage

	tokenAuth := middleware.NewTokenAuthenticator(s.Tokens, s.Stores.Users)

	bookmarksRouter := s.Router.PathPrefix("/api/v1/bookmarks").Subrouter()
	bookmarksRouter.Use(tokenAuth.Middleware)

	// GET /api/v1/bookmarks - List the caller's bookmarks
	bookmarksRouter.HandleFunc("", handleListBookmarks(bookmarksStore, objects)).Methods("GET")

	// POST /api/v1/bookmarks/{event_id} - Bookmark an event
	bookmarksRouter.HandleFunc("/{event_id}", handleAddBookmark(bookmarksStore)).Methods("POST")

	// DELETE /api/v1/bookmarks/{event_id} - Remove a bookmark
	bookmarksRouter.HandleFunc("/{event_id}", handleRemoveBookmark(bookmarksStore)).Methods("DELETE")
}

func handleListBookmarks(bookmarksStore store.BookmarksStore, objects storage.ObjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		bookmarks, err := bookmarksStore.ListBookmarks(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list bookmarks")
			return
		}

		out := make([]BookmarkResponse, 0, len(bookmarks))
		for i := range bookmarks {
			out = append(out, BookmarkResponse{
				EventID: bookmarks[i].EventID,
				AddedAt: bookmarks[i].AddedAt,
				Event:   newEventResponse(r.Context(), objects, &bookmarks[i].Event),
			})
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleAddBookmark(bookmarksStore store.BookmarksStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "event_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid event_id")
			return
		}

		id, _ := identity.Get(r.Context())
		clientIP := middleware.ClientIP(r)

		if _, err := bookmarksStore.AddBookmark(id.UserID, eventID); err != nil {
			switch {
			case errors.Is(err, store.ErrEventNotFound):
				audit.Log(audit.BookmarkEvent{
					UserEmail:    id.Email,
					UserID:       id.UserID,
					ClientIP:     clientIP,
					EventID:      eventID,
					Operation:    "add",
					Success:      false,
					ErrorMessage: "event not found",
				})
				respondWithError(w, http.StatusNotFound, "Event not found")
			case errors.Is(err, store.ErrDuplicateBookmark):
				audit.Log(audit.BookmarkEvent{
					UserEmail:    id.Email,
					UserID:       id.UserID,
					ClientIP:     clientIP,
					EventID:      eventID,
					Operation:    "add",
					Success:      false,
					ErrorMessage: "already bookmarked",
				})
				respondWithError(w, http.StatusConflict, "Already bookmarked")
			default:
				respondWithError(w, http.StatusInternalServerError, "Failed to add bookmark")
			}
			return
		}

		audit.Log(audit.BookmarkEvent{
			UserEmail: id.Email,
			UserID:    id.UserID,
			ClientIP:  clientIP,
			EventID:   eventID,
			Operation: "add",
			Success:   true,
		})
		respondWithJSON(w, http.StatusCreated, map[string]string{"detail": "Bookmarked"})
	}
}

func handleRemoveBookmark(bookmarksStore store.BookmarksStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "event_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid event_id")
			return
		}

		id, _ := identity.Get(r.Context())

		if err := bookmarksStore.RemoveBookmark(id.UserID, eventID); err != nil {
			if errors.Is(err, store.ErrBookmarkNotFound) {
				respondWithError(w, http.StatusNotFound, "Bookmark not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to remove bookmark")
			return
		}

		audit.Log(audit.BookmarkEvent{
			UserEmail: id.Email,
			UserID:    id.UserID,
			ClientIP:  middleware.ClientIP(r),
			EventID:   eventID,
			Operation: "remove",
			Success:   true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
