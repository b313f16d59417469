package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestServiceInfoEndpoint(t *testing.T) {
	stores := newMockStores()
	s := newMockServer(stores)

	req := httptest.NewRequest("GET", "/", nil)
	w := doRequest(s, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var info ServiceInfoResponse
	err := json.Unmarshal(w.Body.Bytes(), &info)
	assert.NoError(t, err)
	assert.Equal(t, "eventdeck", info.Name)
	assert.Equal(t, "ok", info.Status)
	assert.Equal(t, "0.1.0", info.Version)
	assert.Equal(t, 0, info.Workers)
}

func TestHealthEndpoint(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		stores := newMockStores()
		stores.Health.On("Ping", mock.Anything).Return(nil)
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/health", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("database unreachable", func(t *testing.T) {
		stores := newMockStores()
		stores.Health.On("Ping", mock.Anything).Return(errors.New("connection refused"))
		s := newMockServer(stores)

		req := httptest.NewRequest("GET", "/health", nil)
		w := doRequest(s, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, w.Body.String())
	})
}
