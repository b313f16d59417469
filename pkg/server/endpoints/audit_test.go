package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

func TestListAuditLogsEndpoint(t *testing.T) {
	entry := model.EventAuditLog{
		ID:            1,
		EventID:       9,
		ChangedBy:     int64Ptr(42),
		ChangedColumn: "title",
		OldValue:      strPtr("GopherCon"),
		NewValue:      strPtr("GopherCon EU"),
		ChangeDate:    time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}

	t.Run("lists all changes", func(t *testing.T) {
		stores := newMockStores()
		stores.Audit.On("ListEventAuditLogs", (*int64)(nil)).
			Return([]model.EventAuditLog{entry}, nil)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("GET", "/api/v1/audit", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var logs []AuditLogResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
		assert.Len(t, logs, 1)
		assert.Equal(t, "title", logs[0].ChangedColumn)
		assert.Equal(t, int64(42), *logs[0].ChangedBy)
		stores.Audit.AssertExpectations(t)
	})

	t.Run("filters by event", func(t *testing.T) {
		stores := newMockStores()
		stores.Audit.On("ListEventAuditLogs", mock.MatchedBy(func(eventID *int64) bool {
			return eventID != nil && *eventID == 9
		})).Return([]model.EventAuditLog{entry}, nil)
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("GET", "/api/v1/audit?event_id=9", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)
		stores.Audit.AssertExpectations(t)
	})

	t.Run("rejects malformed event_id", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testAdminUser())

		req := httptest.NewRequest("GET", "/api/v1/audit?event_id=abc", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Invalid event_id", decodeDetail(t, w))
	})

	t.Run("requires admin role", func(t *testing.T) {
		stores := newMockStores()
		s := newMockServer(stores)
		header := authHeader(t, s, stores, testRegularUser())

		req := httptest.NewRequest("GET", "/api/v1/audit", nil)
		req.Header.Set("Authorization", header)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
