package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server"
)

func TestMain(m *testing.M) {
	// Keep the syslog audit trail out of test output.
	audit.SetEnabled(false)
	os.Exit(m.Run())
}

func testAdminUser() *model.User {
	return &model.User{
		ID:           42,
		Email:        "admin@example.com",
		PasswordHash: "x",
		Role:         model.RoleAdmin,
		CreatedAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func testRegularUser() *model.User {
	return &model.User{
		ID:           7,
		Email:        "user@example.com",
		PasswordHash: "x",
		Role:         model.RoleUser,
		CreatedAt:    time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
	}
}

// authHeader issues a token for the user and registers the middleware's
// lookup expectation on the mock users store.
func authHeader(t *testing.T, s *server.Server, stores *mockStores, user *model.User) string {
	t.Helper()

	token, err := s.Tokens.Issue(user)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	stores.Users.On("UserByID", user.ID).Return(user, nil)
	return "Bearer " + token
}

// doRequest runs the request through the server's router
func doRequest(s *server.Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Router.ServeHTTP(w, req)
	return w
}

// decodeDetail extracts the "detail" message from an error response body
func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
	return body.Detail
}

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }
func boolPtr(b bool) *bool    { return &b }
