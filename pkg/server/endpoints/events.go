package endpoints

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/identity"
	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/middleware"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
	"github.com/eventdeckhq/eventdeck/pkg/worker"
)

// maxUploadBytes caps the in-memory part of multipart parsing.
const maxUploadBytes = 10 << 20

// imageExtensions maps accepted upload content types to object key extensions.
var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID                   int64         `json:"id"`
	Title                string        `json:"title"`
	Description          *string       `json:"description"`
	OrganizerID          int64         `json:"organizer_id"`
	CityID               *int64        `json:"city_id"`
	WebsiteURL           *string       `json:"website_url"`
	Price                string        `json:"price"`
	DateStart            time.Time     `json:"date_start"`
	DateEnd              *time.Time    `json:"date_end"`
	RegistrationDeadline *time.Time    `json:"registration_deadline"`
	LocationAddress      *string       `json:"location_address"`
	IsOnline             bool          `json:"is_online"`
	ImageURL             *string       `json:"image_url"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            *time.Time    `json:"updated_at"`
	Tags                 []TagResponse `json:"tags"`
}

// EventUpdateRequest is the body of PATCH /api/v1/event/{event_id}. Absent
// fields are left untouched; organizer_id cannot be changed.
type EventUpdateRequest struct {
	Title                *string  `json:"title" validate:"omitempty,min=1,max=100"`
	Description          *string  `json:"description"`
	WebsiteURL           *string  `json:"website_url" validate:"omitempty,max=500"`
	Price                *string  `json:"price"`
	DateStart            *string  `json:"date_start"`
	DateEnd              *string  `json:"date_end"`
	RegistrationDeadline *string  `json:"registration_deadline"`
	CityID               *int64   `json:"city_id"`
	LocationAddress      *string  `json:"location_address" validate:"omitempty,max=255"`
	IsOnline             *bool    `json:"is_online"`
	TagIDs               *[]int64 `json:"tag_ids"`
}

// newEventResponse converts an event model, resolving the stored image key
// to a browsable URL.
func newEventResponse(ctx context.Context, objects storage.ObjectStore, event *model.Event) EventResponse {
	out := EventResponse{
		ID:                   event.ID,
		Title:                event.Title,
		Description:          event.Description,
		OrganizerID:          event.OrganizerID,
		CityID:               event.CityID,
		WebsiteURL:           event.WebsiteURL,
		Price:                event.Price,
		DateStart:            event.DateStart,
		DateEnd:              event.DateEnd,
		RegistrationDeadline: event.RegistrationDeadline,
		LocationAddress:      event.LocationAddress,
		IsOnline:             event.IsOnline,
		CreatedAt:            event.CreatedAt,
		UpdatedAt:            event.UpdatedAt,
		Tags:                 make([]TagResponse, 0, len(event.Tags)),
	}

	if event.ImageURL != nil && *event.ImageURL != "" && objects != nil {
		resolved := objects.ResolveURL(ctx, *event.ImageURL)
		out.ImageURL = &resolved
	}

	for _, tag := range event.Tags {
		out.Tags = append(out.Tags, TagResponse{ID: tag.ID, Name: tag.Name})
	}

	return out
}

// RegisterEventsEndpoints registers the public event listing endpoints and
// the admin-only event management endpoints
func RegisterEventsEndpoints(s *server.Server) {
	eventsStore := s.Stores.Events
	objects := s.Storage

	// GET /api/v1/events - List events with filters (no auth required)
	s.Router.HandleFunc("/api/v1/events", handleListEvents(eventsStore, objects)).Methods("GET")

	// GET /api/v1/event/{event_id} - Single event (no auth required)
	s.Router.HandleFunc("/api/v1/event/{event_id}", handleGetEvent(eventsStore, objects)).Methods("GET")

	tokenAuth := middleware.NewTokenAuthenticator(s.Tokens, s.Stores.Users)

	adminRouter := s.Router.PathPrefix("/api/v1/event").Subrouter()
	adminRouter.Use(tokenAuth.Middleware, middleware.RequireAdmin)

	// POST /api/v1/event - Create an event from a multipart form
	adminRouter.HandleFunc("", handleCreateEvent(eventsStore, objects, s.Pool)).Methods("POST")

	// PATCH /api/v1/event/{event_id} - Partially update an event
	adminRouter.HandleFunc("/{event_id}", handleUpdateEvent(eventsStore, objects)).Methods("PATCH")

	// DELETE /api/v1/event/{event_id} - Delete an event
	adminRouter.HandleFunc("/{event_id}", handleDeleteEvent(eventsStore, objects, s.Pool)).Methods("DELETE")
}

func handleListEvents(eventsStore store.EventsStore, objects storage.ObjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := eventFilterFromQuery(r.URL.Query())
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		events, err := eventsStore.ListEvents(filter)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list events")
			return
		}

		out := make([]EventResponse, 0, len(events))
		for i := range events {
			out = append(out, newEventResponse(r.Context(), objects, &events[i]))
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleGetEvent(eventsStore store.EventsStore, objects storage.ObjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "event_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid event_id")
			return
		}

		event, err := eventsStore.EventByID(eventID)
		if err != nil {
			if errors.Is(err, store.ErrEventNotFound) {
				respondWithError(w, http.StatusNotFound, "Event not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch event")
			return
		}

		respondWithJSON(w, http.StatusOK, newEventResponse(r.Context(), objects, event))
	}
}

func handleCreateEvent(eventsStore store.EventsStore, objects storage.ObjectStore, pool *worker.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid multipart form")
			return
		}

		event, err := eventFromForm(r)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		tagIDs := parseTagIDs(r.FormValue("tag_ids"))

		imageKey, status, detail := uploadEventImage(r, objects)
		if detail != "" {
			respondWithError(w, status, detail)
			return
		}
		if imageKey != "" {
			event.ImageURL = &imageKey
		}

		id, _ := identity.Get(r.Context())

		if err := eventsStore.CreateEvent(event, tagIDs); err != nil {
			// The event row never landed, so the uploaded image is orphaned.
			if imageKey != "" {
				removeObject(pool, objects, imageKey)
			}
			if errors.Is(err, store.ErrInvalidReference) {
				audit.Log(audit.ResourceEvent{
					Actor:        id.Email,
					ClientIP:     middleware.ClientIP(r),
					Kind:         "event",
					Name:         event.Title,
					Operation:    "create",
					Success:      false,
					ErrorMessage: "invalid organizer, city or tag reference",
				})
				respondWithError(w, http.StatusBadRequest, "Invalid organizer_id, city_id, or tag_id.")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to create event")
			return
		}

		created, err := eventsStore.EventByID(event.ID)
		if err != nil {
			// The insert succeeded; fall back to what we wrote.
			created = event
		}

		audit.Log(audit.ResourceEvent{
			Actor:      id.Email,
			ClientIP:   middleware.ClientIP(r),
			Kind:       "event",
			ResourceID: created.ID,
			Name:       created.Title,
			Operation:  "create",
			Success:    true,
		})
		respondWithJSON(w, http.StatusCreated, newEventResponse(r.Context(), objects, created))
	}
}

func handleUpdateEvent(eventsStore store.EventsStore, objects storage.ObjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "event_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid event_id")
			return
		}

		var body EventUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		if err := validate.Struct(body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}

		event, err := eventsStore.EventByID(eventID)
		if err != nil {
			if errors.Is(err, store.ErrEventNotFound) {
				respondWithError(w, http.StatusNotFound, "Event not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch event")
			return
		}

		changes, err := applyEventUpdate(event, body)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		now := time.Now().UTC()
		event.UpdatedAt = &now

		var tagIDs []int64
		if body.TagIDs != nil {
			tagIDs = *body.TagIDs
			if tagIDs == nil {
				tagIDs = []int64{}
			}
		}

		id, _ := identity.Get(r.Context())

		if err := eventsStore.UpdateEvent(event, id.UserID, changes, tagIDs); err != nil {
			if errors.Is(err, store.ErrInvalidReference) {
				respondWithError(w, http.StatusBadRequest, "Invalid organizer_id, city_id, or tag_id.")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to update event")
			return
		}

		updated, err := eventsStore.EventByID(eventID)
		if err != nil {
			updated = event
		}

		fields := make([]string, 0, len(changes)+1)
		for _, change := range changes {
			fields = append(fields, change.Column)
		}
		if body.TagIDs != nil {
			fields = append(fields, "tags")
		}

		audit.Log(audit.ResourceEvent{
			Actor:      id.Email,
			ClientIP:   middleware.ClientIP(r),
			Kind:       "event",
			ResourceID: updated.ID,
			Name:       updated.Title,
			Operation:  "update",
			Fields:     fields,
			Success:    true,
		})
		respondWithJSON(w, http.StatusOK, newEventResponse(r.Context(), objects, updated))
	}
}

func handleDeleteEvent(eventsStore store.EventsStore, objects storage.ObjectStore, pool *worker.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID, err := pathID(r, "event_id")
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid event_id")
			return
		}

		event, err := eventsStore.EventByID(eventID)
		if err != nil {
			if errors.Is(err, store.ErrEventNotFound) {
				respondWithError(w, http.StatusNotFound, "Not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch event")
			return
		}

		if err := eventsStore.DeleteEvent(eventID); err != nil {
			if errors.Is(err, store.ErrEventNotFound) {
				respondWithError(w, http.StatusNotFound, "Not found")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to delete event")
			return
		}

		// Only object keys are cleaned up; externally hosted images stay.
		if event.ImageURL != nil && *event.ImageURL != "" && !strings.HasPrefix(*event.ImageURL, "http") {
			removeObject(pool, objects, *event.ImageURL)
		}

		id, _ := identity.Get(r.Context())
		audit.Log(audit.ResourceEvent{
			Actor:      id.Email,
			ClientIP:   middleware.ClientIP(r),
			Kind:       "event",
			ResourceID: eventID,
			Name:       event.Title,
			Operation:  "delete",
			Success:    true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// pathID parses a numeric path variable.
func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func eventFilterFromQuery(query url.Values) (store.EventFilter, error) {
	var filter store.EventFilter

	if search := strings.TrimSpace(query.Get("search")); search != "" {
		filter.Search = &search
	}

	cityID, err := optionalQueryInt64(query, "city_id")
	if err != nil {
		return filter, err
	}
	filter.CityID = cityID

	organizerID, err := optionalQueryInt64(query, "organizer_id")
	if err != nil {
		return filter, err
	}
	filter.OrganizerID = organizerID

	tagID, err := optionalQueryInt64(query, "tag_id")
	if err != nil {
		return filter, err
	}
	filter.TagID = tagID

	if raw := strings.TrimSpace(query.Get("is_online")); raw != "" {
		isOnline, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid is_online: %q", raw)
		}
		filter.IsOnline = &isOnline
	}

	return filter, nil
}

func optionalQueryInt64(query url.Values, name string) (*int64, error) {
	raw := strings.TrimSpace(query.Get(name))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &value, nil
}

// eventFromForm builds an event from the multipart create form. The error
// text is client-facing.
func eventFromForm(r *http.Request) (*model.Event, error) {
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		return nil, errors.New("title is required")
	}
	if len(title) > 100 {
		return nil, errors.New("title must be at most 100 characters")
	}

	organizerID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("organizer_id")), 10, 64)
	if err != nil {
		return nil, errors.New("organizer_id must be an integer")
	}

	dateStart, err := parseEventTime(r.FormValue("date_start"))
	if err != nil {
		return nil, errors.New("date_start must be a valid timestamp")
	}

	price := strings.TrimSpace(r.FormValue("price"))
	if price == "" {
		price = "0.00"
	} else if _, err := strconv.ParseFloat(price, 64); err != nil {
		return nil, errors.New("price must be a number")
	}

	event := &model.Event{
		Title:       title,
		OrganizerID: organizerID,
		DateStart:   dateStart,
		Price:       price,
	}

	if raw := strings.TrimSpace(r.FormValue("city_id")); raw != "" {
		cityID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.New("city_id must be an integer")
		}
		event.CityID = &cityID
	}

	event.Description = optionalFormValue(r, "description")
	event.WebsiteURL = optionalFormValue(r, "website_url")
	event.LocationAddress = optionalFormValue(r, "location_address")

	if raw := strings.TrimSpace(r.FormValue("date_end")); raw != "" {
		dateEnd, err := parseEventTime(raw)
		if err != nil {
			return nil, errors.New("date_end must be a valid timestamp")
		}
		event.DateEnd = &dateEnd
	}
	if raw := strings.TrimSpace(r.FormValue("registration_deadline")); raw != "" {
		deadline, err := parseEventTime(raw)
		if err != nil {
			return nil, errors.New("registration_deadline must be a valid timestamp")
		}
		event.RegistrationDeadline = &deadline
	}
	if raw := strings.TrimSpace(r.FormValue("is_online")); raw != "" {
		isOnline, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.New("is_online must be a boolean")
		}
		event.IsOnline = isOnline
	}

	return event, nil
}

func optionalFormValue(r *http.Request, name string) *string {
	value := strings.TrimSpace(r.FormValue(name))
	if value == "" {
		return nil
	}
	return &value
}

var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseEventTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range eventTimeLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// parseTagIDs splits a comma separated list, dropping anything that isn't an
// integer. Duplicates are removed.
func parseTagIDs(raw string) []int64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	seen := make(map[int64]bool)
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

// uploadEventImage stores the multipart image, if one was sent. A non-empty
// detail reports a client-visible failure with the given status.
func uploadEventImage(r *http.Request, objects storage.ObjectStore) (key string, status int, detail string) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", 0, ""
		}
		return "", http.StatusUnprocessableEntity, "Invalid image upload"
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	extension, ok := imageExtensions[contentType]
	if !ok {
		return "", http.StatusUnsupportedMediaType, "Unsupported file type"
	}

	key = "uploads/" + uuid.NewString() + "." + extension
	if err := objects.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			return "", http.StatusServiceUnavailable, "Image uploads are not configured"
		}
		return "", http.StatusInternalServerError, "Image upload failed"
	}
	return key, 0, ""
}

// removeObject schedules a best-effort object deletion on the worker pool.
func removeObject(pool *worker.Pool, objects storage.ObjectStore, key string) {
	remove := func() {
		if err := objects.Delete(context.Background(), key); err != nil {
			log.Printf("endpoints: failed to delete object %q: %v", key, err)
		}
	}
	if pool == nil {
		remove()
		return
	}
	pool.Submit("storage-delete", remove)
}

// applyEventUpdate copies the provided fields onto the event and records one
// FieldChange per column whose rendered value actually changed.
func applyEventUpdate(event *model.Event, body EventUpdateRequest) ([]store.FieldChange, error) {
	var changes []store.FieldChange

	record := func(column, oldValue, newValue string, apply func()) {
		if oldValue == newValue {
			return
		}
		changes = append(changes, store.FieldChange{
			Column:   column,
			OldValue: &oldValue,
			NewValue: &newValue,
		})
		apply()
	}

	if body.Title != nil {
		record("title", event.Title, *body.Title, func() { event.Title = *body.Title })
	}
	if body.Description != nil {
		record("description", stringValue(event.Description), *body.Description,
			func() { event.Description = body.Description })
	}
	if body.WebsiteURL != nil {
		record("website_url", stringValue(event.WebsiteURL), *body.WebsiteURL,
			func() { event.WebsiteURL = body.WebsiteURL })
	}
	if body.LocationAddress != nil {
		record("location_address", stringValue(event.LocationAddress), *body.LocationAddress,
			func() { event.LocationAddress = body.LocationAddress })
	}
	if body.Price != nil {
		if _, err := strconv.ParseFloat(*body.Price, 64); err != nil {
			return nil, errors.New("price must be a number")
		}
		record("price", event.Price, *body.Price, func() { event.Price = *body.Price })
	}
	if body.CityID != nil {
		newValue := strconv.FormatInt(*body.CityID, 10)
		record("city_id", int64Value(event.CityID), newValue, func() { event.CityID = body.CityID })
	}
	if body.IsOnline != nil {
		record("is_online", strconv.FormatBool(event.IsOnline), strconv.FormatBool(*body.IsOnline),
			func() { event.IsOnline = *body.IsOnline })
	}
	if body.DateStart != nil {
		parsed, err := parseEventTime(*body.DateStart)
		if err != nil {
			return nil, errors.New("date_start must be a valid timestamp")
		}
		record("date_start", event.DateStart.Format(time.RFC3339), parsed.Format(time.RFC3339),
			func() { event.DateStart = parsed })
	}
	if body.DateEnd != nil {
		parsed, err := parseEventTime(*body.DateEnd)
		if err != nil {
			return nil, errors.New("date_end must be a valid timestamp")
		}
		record("date_end", timeValue(event.DateEnd), parsed.Format(time.RFC3339),
			func() { event.DateEnd = &parsed })
	}
	if body.RegistrationDeadline != nil {
		parsed, err := parseEventTime(*body.RegistrationDeadline)
		if err != nil {
			return nil, errors.New("registration_deadline must be a valid timestamp")
		}
		record("registration_deadline", timeValue(event.RegistrationDeadline), parsed.Format(time.RFC3339),
			func() { event.RegistrationDeadline = &parsed })
	}

	return changes, nil
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func int64Value(ptr *int64) string {
	if ptr == nil {
		return ""
	}
	return strconv.FormatInt(*ptr, 10)
}

func timeValue(ptr *time.Time) string {
	if ptr == nil {
		return ""
	}
	return ptr.Format(time.RFC3339)
}
