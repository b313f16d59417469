package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cucumber/godog"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	authToken    string
	passwords    map[string]string // email -> password for seeded users
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:        tc,
		passwords: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^an Eventdeck server is running$`, s.anEventdeckServerIsRunning)
	sc.Step(`^an admin user "([^"]*)" with password "([^"]*)" exists$`, s.anAdminUserExists)
	sc.Step(`^a user "([^"]*)" with password "([^"]*)" exists$`, s.aUserExists)

	// Authentication steps
	sc.Step(`^I register with email "([^"]*)" and password "([^"]*)"$`, s.iRegister)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I am logged in as "([^"]*)"$`, s.iAmLoggedInAs)
	sc.Step(`^I request the current user$`, s.iRequestTheCurrentUser)
	sc.Step(`^I should receive an access token$`, s.iShouldReceiveAnAccessToken)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^the response should contain "([^"]*)"$`, s.theResponseShouldContain)
	sc.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, s.theResponseFieldShouldBe)

	// Database assertions
	sc.Step(`^user "([^"]*)" should exist$`, s.userShouldExist)
	sc.Step(`^user "([^"]*)" should have role "([^"]*)"$`, s.userShouldHaveRole)

	s.registerEventSteps(sc)
}

// Background steps

func (s *StepsContext) anEventdeckServerIsRunning() error {
	// Server is already running via TestContext
	return nil
}

func (s *StepsContext) anAdminUserExists(email, password string) error {
	return s.seedUser(email, password, "admin")
}

func (s *StepsContext) aUserExists(email, password string) error {
	return s.seedUser(email, password, "user")
}

// seedUser inserts a user directly so scenarios can start from a known
// account without going through the register endpoint.
func (s *StepsContext) seedUser(email, password, role string) error {
	s.passwords[email] = password

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.tc.DB.Exec(`
		INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role
	`, email, hash, role).Error
}

// Authentication steps

func (s *StepsContext) iRegister(email, password string) error {
	return s.doJSON("POST", "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (s *StepsContext) iLogIn(email, password string) error {
	if err := s.doJSON("POST", "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}); err != nil {
		return err
	}

	// If successful, extract token for subsequent requests
	if s.response.StatusCode == http.StatusOK {
		var token struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(s.responseBody, &token); err == nil {
			s.authToken = token.AccessToken
		}
	}

	return nil
}

func (s *StepsContext) iAmLoggedInAs(email string) error {
	password, ok := s.passwords[email]
	if !ok {
		return fmt.Errorf("no seeded password for %q", email)
	}
	if err := s.iLogIn(email, password); err != nil {
		return err
	}
	if s.response.StatusCode != http.StatusOK {
		return fmt.Errorf("login as %q failed with status %d: %s", email, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iRequestTheCurrentUser() error {
	return s.doJSON("GET", "/api/v1/auth/me", nil)
}

func (s *StepsContext) iShouldReceiveAnAccessToken() error {
	var token struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.Unmarshal(s.responseBody, &token); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("missing access_token in response: %s", string(s.responseBody))
	}
	if token.TokenType != "bearer" {
		return fmt.Errorf("expected token_type \"bearer\", got %q", token.TokenType)
	}
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(expectedStatus int) error {
	if s.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d: %s", expectedStatus, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldContain(expected string) error {
	if !strings.Contains(string(s.responseBody), expected) {
		return fmt.Errorf("expected response to contain %q, got: %s", expected, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseFieldShouldBe(field, expected string) error {
	var body map[string]interface{}
	if err := json.Unmarshal(s.responseBody, &body); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	actual := fmt.Sprintf("%v", body[field])
	if actual != expected {
		return fmt.Errorf("expected field %q to be %q, got %q", field, expected, actual)
	}
	return nil
}

// Database assertions

func (s *StepsContext) userShouldExist(email string) error {
	var count int64
	if err := s.tc.DB.Raw(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("user %q not found", email)
	}
	return nil
}

func (s *StepsContext) userShouldHaveRole(email, role string) error {
	var actual string
	if err := s.tc.DB.Raw(`SELECT role FROM users WHERE email = ?`, email).Scan(&actual).Error; err != nil {
		return err
	}
	if actual != role {
		return fmt.Errorf("expected user %q to have role %q, got %q", email, role, actual)
	}
	return nil
}

// Request helpers

// doJSON sends a JSON request and captures the response. The bearer token
// from the last successful login is attached when present.
func (s *StepsContext) doJSON(method, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return s.doRequest(req)
}

func (s *StepsContext) doRequest(req *http.Request) error {
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	var err error
	s.response, err = s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}

	s.responseBody, err = io.ReadAll(s.response.Body)
	_ = s.response.Body.Close()
	return err
}
