package endpoints

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
)

// failingStorage stands in for an unreachable object store: uploads are
// accepted and then fail.
type failingStorage struct{ storage.Disabled }

func (failingStorage) Upload(context.Context, string, io.Reader, int64, string) error {
	return errors.New("connection reset by peer")
}

func (failingStorage) Enabled() bool { return true }

func testEvent(id int64) *model.Event {
	imageKey := "uploads/abc.jpg"
	return &model.Event{
		ID:          id,
		Title:       "GopherCon",
		OrganizerID: 3,
		DateStart:   time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Price:       "25.00",
		ImageURL:    &imageKey,
		CreatedAt:   time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Tags:        []model.Tag{{ID: 1, Name: "conference"}},
	}
}

// multipartForm builds a multipart body with the given fields and,
// optionally, an image part with an explicit content type.
func multipartForm(t *testing.T, fields map[string]string, imageType string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	if imageType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, "poster.bin"))
		header.Set("Content-Type", imageType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestListEventsEndpoint(t *testing.T) {
	t.Run("lists events", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("ListEvents", store.EventFilter{}).
			Return([]model.Event{*testEvent(1), *testEvent(2)}, nil)
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/api/v1/events", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var events []EventResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
		assert.Len(t, events, 2)
		assert.Equal(t, "GopherCon", events[0].Title)
		assert.Equal(t, "25.00", events[0].Price)
		// Disabled storage passes keys through unchanged.
		assert.Equal(t, "uploads/abc.jpg", *events[0].ImageURL)
		assert.Equal(t, []TagResponse{{ID: 1, Name: "conference"}}, events[0].Tags)
	})

	t.Run("passes filters to the store", func(t *testing.T) {
		stores := newMockStores()
		expected := store.EventFilter{
			Search:      strPtr("go"),
			CityID:      int64Ptr(5),
			OrganizerID: int64Ptr(3),
			IsOnline:    boolPtr(true),
			TagID:       int64Ptr(2),
		}
		stores.Events.On("ListEvents", expected).Return([]model.Event{}, nil)
		s := newMockServer(stores)

		req := httptest.NewRequest("GET",
			"/api/v1/events?search=go&city_id=5&organizer_id=3&is_online=true&tag_id=2", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
		stores.Events.AssertExpectations(t)
	})

	t.Run("rejects malformed numeric filters", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/api/v1/events?city_id=abc", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, decodeDetail(t, w), "city_id")
		stores.Events.AssertNotCalled(t, "ListEvents", mock.Anything)
	})
}

func TestGetEventEndpoint(t *testing.T) {
	t.Run("returns the event", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(9)).Return(testEvent(9), nil)
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/api/v1/event/9", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var event EventResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
		assert.Equal(t, int64(9), event.ID)
		assert.Equal(t, "GopherCon", event.Title)
	})

	t.Run("event not found", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(404)).Return(nil, store.ErrEventNotFound)
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/api/v1/event/404", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Event not found", decodeDetail(t, w))
	})

	t.Run("rejects non-numeric id", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/api/v1/event/abc", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Invalid event_id", decodeDetail(t, w))
	})
}

func TestCreateEventEndpoint(t *testing.T) {
	form := map[string]string{
		"title":        "GopherCon",
		"organizer_id": "3",
		"date_start":   "2025-06-01T10:00:00Z",
		"price":        "25.00",
		"is_online":    "true",
		"tag_ids":      "1, 2, x, 2",
	}

	t.Run("creates an event", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("CreateEvent", mock.MatchedBy(func(e *model.Event) bool {
			return e.Title == "GopherCon" && e.OrganizerID == 3 && e.Price == "25.00" && e.IsOnline
		}), []int64{1, 2}).
			Run(func(args mock.Arguments) {
				args.Get(0).(*model.Event).ID = 10
			}).
			Return(nil)
		stores.Events.On("EventByID", int64(10)).Return(testEvent(10), nil)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		body, contentType := multipartForm(t, form, "")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var event EventResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
		assert.Equal(t, int64(10), event.ID)
		stores.Events.AssertExpectations(t)
	})

	t.Run("requires admin role", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testRegularUser())

		body, contentType := multipartForm(t, form, "")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Admin access required", decodeDetail(t, w))
	})

	t.Run("requires a token", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)

		body, contentType := multipartForm(t, form, "")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects missing title", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		body, contentType := multipartForm(t, map[string]string{
			"organizer_id": "3",
			"date_start":   "2025-06-01T10:00:00Z",
		}, "")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "title is required", decodeDetail(t, w))
	})

	t.Run("rejects unsupported image type", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		body, contentType := multipartForm(t, form, "text/plain")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
		assert.Equal(t, "Unsupported file type", decodeDetail(t, w))
	})

	t.Run("turns images away when storage is disabled", func(t *testing.T) {
		// The mock server runs with object storage disabled.
		stores := newMockStores()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		body, contentType := multipartForm(t, form, "image/png")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Image uploads are not configured", decodeDetail(t, w))
		stores.Events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	})

	t.Run("reports upload failures", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServerWithStorage(stores, failingStorage{})
		header := authHeader(t, s, stores, testAdminUser())

		body, contentType := multipartForm(t, form, "image/png")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Image upload failed", decodeDetail(t, w))
		stores.Events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything)
	})

	t.Run("invalid reference", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("CreateEvent", mock.Anything, mock.Anything).
			Return(store.ErrInvalidReference)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		body, contentType := multipartForm(t, form, "")
		req := httptest.NewRequest("POST", "/api/v1/event", body)
		req.Header.Set("Authorization", header)
		req.Header.Set("Content-Type", contentType)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid organizer_id, city_id, or tag_id.", decodeDetail(t, w))
	})
}

func TestUpdateEventEndpoint(t *testing.T) {
	t.Run("applies changes and records them", func(t *testing.T) {
		existing := testEvent(5)
		updated := testEvent(5)
		updated.Title = "GopherCon EU"
		updated.Price = "30.00"

		stores := newMockStores()
		stores.Events.On("EventByID", int64(5)).Return(existing, nil).Once()
		stores.Events.On("UpdateEvent",
			mock.AnythingOfType("*model.Event"),
			int64(42),
			mock.MatchedBy(func(changes []store.FieldChange) bool {
				if len(changes) != 2 {
					return false
				}
				byColumn := map[string]store.FieldChange{}
				for _, change := range changes {
					byColumn[change.Column] = change
				}
				title, ok := byColumn["title"]
				if !ok || *title.OldValue != "GopherCon" || *title.NewValue != "GopherCon EU" {
					return false
				}
				price, ok := byColumn["price"]
				return ok && *price.OldValue == "25.00" && *price.NewValue == "30.00"
			}),
			[]int64{1, 3},
		).Return(nil).Once()
		stores.Events.On("EventByID", int64(5)).Return(updated, nil).Once()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("PATCH", "/api/v1/event/5",
			strings.NewReader(`{"title":"GopherCon EU","price":"30.00","tag_ids":[1,3]}`))
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var event EventResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
		assert.Equal(t, "GopherCon EU", event.Title)
		assert.Equal(t, "30.00", event.Price)
		stores.Events.AssertExpectations(t)
	})

	t.Run("unchanged values produce no audit rows", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(5)).Return(testEvent(5), nil)
		stores.Events.On("UpdateEvent",
			mock.AnythingOfType("*model.Event"), int64(42), []store.FieldChange(nil), []int64(nil),
		).Return(nil)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("PATCH", "/api/v1/event/5",
			strings.NewReader(`{"title":"GopherCon"}`))
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)
		stores.Events.AssertExpectations(t)
	})

	t.Run("event not found", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(404)).Return(nil, store.ErrEventNotFound)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("PATCH", "/api/v1/event/404",
			strings.NewReader(`{"title":"New"}`))
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Event not found", decodeDetail(t, w))
	})

	t.Run("rejects malformed timestamps", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(5)).Return(testEvent(5), nil)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("PATCH", "/api/v1/event/5",
			strings.NewReader(`{"date_start":"yesterday"}`))
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "date_start must be a valid timestamp", decodeDetail(t, w))
	})
}

func TestDeleteEventEndpoint(t *testing.T) {
	t.Run("deletes the event", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(5)).Return(testEvent(5), nil)
		stores.Events.On("DeleteEvent", int64(5)).Return(nil)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("DELETE", "/api/v1/event/5", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
		stores.Events.AssertExpectations(t)
	})

	t.Run("event not found", func(t *testing.T) {
		stores := newMockStores()
		stores.Events.On("EventByID", int64(404)).Return(nil, store.ErrEventNotFound)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("DELETE", "/api/v1/event/404", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Not found", decodeDetail(t, w))
	})
}
