package audit

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	event := AuthenticateEvent{
		Email:    "admin@example.com",
		ClientIP: "192.168.1.1",
		Success:  true,
	}

	logger.Log(event)

	output := buf.String()

	// Check RFC5424 format components
	if !strings.Contains(output, "eventdeck") {
		t.Error("Expected app name 'eventdeck' in output")
	}
	if !strings.Contains(output, "authn") {
		t.Error("Expected message ID 'authn' in output")
	}
	if !strings.Contains(output, "admin@example.com") {
		t.Error("Expected email in output")
	}
	if !strings.Contains(output, "192.168.1.1") {
		t.Error("Expected client IP in output")
	}
	if !strings.Contains(output, "successfully authenticated") {
		t.Error("Expected success message in output")
	}
	if !strings.HasPrefix(output, "<") {
		t.Error("Expected output to start with PRI value")
	}
}

func TestAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name      string
		event     AuthenticateEvent
		wantMsg   string
		wantSev   Severity
		wantFac   int
		wantMsgID string
	}{
		{
			name: "successful login",
			event: AuthenticateEvent{
				Email:    "admin@example.com",
				ClientIP: "10.0.0.1",
				Success:  true,
			},
			wantMsg:   "successfully authenticated",
			wantSev:   SeverityInfo,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "authn",
		},
		{
			name: "failed login",
			event: AuthenticateEvent{
				Email:        "admin@example.com",
				ClientIP:     "10.0.0.1",
				Success:      false,
				ErrorMessage: "incorrect email or password",
			},
			wantMsg:   "failed to authenticate",
			wantSev:   SeverityWarning,
			wantFac:   FacilityAuthPriv,
			wantMsgID: "authn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != tt.wantFac {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), tt.wantFac)
			}
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
		})
	}
}

func TestRegisterEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   RegisterEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "successful registration",
			event: RegisterEvent{
				Email:    "newuser@example.com",
				UserID:   12,
				ClientIP: "10.0.0.1",
				Success:  true,
			},
			wantMsg: "successfully registered",
			wantSev: SeverityInfo,
		},
		{
			name: "duplicate email",
			event: RegisterEvent{
				Email:        "newuser@example.com",
				ClientIP:     "10.0.0.1",
				Success:      false,
				ErrorMessage: "email already registered",
			},
			wantMsg: "failed to register",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "register" {
				t.Errorf("MessageID() = %v, want 'register'", tt.event.MessageID())
			}
		})
	}
}

func TestRegisterEventSubjectOnlyOnSuccess(t *testing.T) {
	success := RegisterEvent{Email: "a@b.c", UserID: 3, ClientIP: "10.0.0.1", Success: true}
	if success.StructuredData()[SDIDSubject]["id"] != "3" {
		t.Error("Expected subject id '3' for successful registration")
	}

	failure := RegisterEvent{Email: "a@b.c", ClientIP: "10.0.0.1", Success: false}
	if _, ok := failure.StructuredData()[SDIDSubject]; ok {
		t.Error("Expected no subject structured data for failed registration")
	}
}

func TestResourceEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   ResourceEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "create event",
			event: ResourceEvent{
				Actor:      "admin@example.com",
				ClientIP:   "10.0.0.1",
				Kind:       "event",
				ResourceID: 7,
				Name:       "GopherCon",
				Operation:  "create",
				Success:    true,
			},
			wantMsg: `created event "GopherCon"`,
			wantSev: SeverityInfo,
		},
		{
			name: "update with fields",
			event: ResourceEvent{
				Actor:      "admin@example.com",
				ClientIP:   "10.0.0.1",
				Kind:       "event",
				ResourceID: 7,
				Operation:  "update",
				Fields:     []string{"name", "price"},
				Success:    true,
			},
			wantMsg: "(name, price)",
			wantSev: SeverityInfo,
		},
		{
			name: "delete tag",
			event: ResourceEvent{
				Actor:      "admin@example.com",
				ClientIP:   "10.0.0.1",
				Kind:       "tag",
				ResourceID: 3,
				Name:       "conference",
				Operation:  "delete",
				Success:    true,
			},
			wantMsg: `deleted tag "conference"`,
			wantSev: SeverityInfo,
		},
		{
			name: "failed create",
			event: ResourceEvent{
				Actor:        "admin@example.com",
				ClientIP:     "10.0.0.1",
				Kind:         "organizer",
				ResourceID:   0,
				Name:         "PyData",
				Operation:    "create",
				Success:      false,
				ErrorMessage: "name already exists",
			},
			wantMsg: "failed to create",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.MessageID() != "resource" {
				t.Errorf("MessageID() = %v, want 'resource'", tt.event.MessageID())
			}
			if tt.event.Facility() != FacilityAuth {
				t.Errorf("Facility() = %v, want FacilityAuth", tt.event.Facility())
			}
		})
	}
}

func TestBookmarkEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   BookmarkEvent
		wantMsg string
	}{
		{
			name: "add bookmark",
			event: BookmarkEvent{
				UserEmail: "user@example.com",
				UserID:    4,
				ClientIP:  "10.0.0.1",
				EventID:   7,
				Operation: "add",
				Success:   true,
			},
			wantMsg: "bookmarked event 7",
		},
		{
			name: "remove bookmark",
			event: BookmarkEvent{
				UserEmail: "user@example.com",
				UserID:    4,
				ClientIP:  "10.0.0.1",
				EventID:   7,
				Operation: "remove",
				Success:   true,
			},
			wantMsg: "removed bookmark for event 7",
		},
		{
			name: "already bookmarked",
			event: BookmarkEvent{
				UserEmail:    "user@example.com",
				UserID:       4,
				ClientIP:     "10.0.0.1",
				EventID:      7,
				Operation:    "add",
				Success:      false,
				ErrorMessage: "already bookmarked",
			},
			wantMsg: "failed to add bookmark for event 7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %q, want to contain %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.MessageID() != "bookmark" {
				t.Errorf("MessageID() = %v, want 'bookmark'", tt.event.MessageID())
			}
		})
	}
}

func TestPasswordEvent(t *testing.T) {
	event := PasswordEvent{
		Email:    "admin@example.com",
		ClientIP: "10.0.0.1",
		Success:  true,
	}

	if event.MessageID() != "password" {
		t.Errorf("MessageID() = %v, want 'password'", event.MessageID())
	}
	if !strings.Contains(event.Message(), "changed their password") {
		t.Errorf("Message() = %q, want to contain 'changed their password'", event.Message())
	}
	if event.Facility() != FacilityAuthPriv {
		t.Errorf("Facility() = %v, want FacilityAuthPriv", event.Facility())
	}
}

func TestStructuredData(t *testing.T) {
	event := ResourceEvent{
		Actor:      "admin@example.com",
		ClientIP:   "10.0.0.1",
		Kind:       "event",
		ResourceID: 7,
		Name:       "GopherCon",
		Operation:  "update",
		Fields:     []string{"name", "price"},
		Success:    true,
	}

	sd := event.StructuredData()

	if sd[SDIDAuth]["user"] != "admin@example.com" {
		t.Errorf("StructuredData auth.user = %v, want 'admin@example.com'", sd[SDIDAuth]["user"])
	}
	if sd[SDIDSubject]["kind"] != "event" {
		t.Errorf("StructuredData subject.kind = %v, want 'event'", sd[SDIDSubject]["kind"])
	}
	if sd[SDIDSubject]["id"] != "7" {
		t.Errorf("StructuredData subject.id = %v, want '7'", sd[SDIDSubject]["id"])
	}
	if sd[SDIDSubject]["name"] != "GopherCon" {
		t.Errorf("StructuredData subject.name = %v, want 'GopherCon'", sd[SDIDSubject]["name"])
	}
	if sd[SDIDClient]["ip"] != "10.0.0.1" {
		t.Errorf("StructuredData client.ip = %v, want '10.0.0.1'", sd[SDIDClient]["ip"])
	}
	if sd[SDIDAction]["operation"] != "update" {
		t.Errorf("StructuredData action.operation = %v, want 'update'", sd[SDIDAction]["operation"])
	}
	if sd[SDIDAction]["result"] != "success" {
		t.Errorf("StructuredData action.result = %v, want 'success'", sd[SDIDAction]["result"])
	}
	if sd[SDIDAction]["fields"] != "name,price" {
		t.Errorf("StructuredData action.fields = %v, want 'name,price'", sd[SDIDAction]["fields"])
	}
}

func TestFormatStructuredDataOrdering(t *testing.T) {
	sd := map[string]map[string]string{
		SDIDClient: {"ip": "10.0.0.1"},
		SDIDAuth:   {"user": "admin@example.com"},
		SDIDAction: {"result": "success", "operation": "login"},
	}

	want := `[action@32473 operation="login" result="success"]` +
		`[auth@32473 user="admin@example.com"]` +
		`[client@32473 ip="10.0.0.1"]`

	// Run a few times since map iteration order varies
	for i := 0; i < 10; i++ {
		if got := formatStructuredData(sd); got != want {
			t.Fatalf("formatStructuredData() = %q, want %q", got, want)
		}
	}
}

type bareEvent struct{}

func (bareEvent) MessageID() string { return "noop" }
func (bareEvent) Message() string   { return "nothing happened" }
func (bareEvent) Severity() Severity {
	return SeverityInfo
}
func (bareEvent) Facility() int { return FacilityAuth }
func (bareEvent) StructuredData() map[string]map[string]string {
	return nil
}

func TestLoggerNilStructuredData(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)

	logger.Log(bareEvent{})

	if !strings.Contains(buf.String(), " - nothing happened\n") {
		t.Errorf("expected NILVALUE for empty structured data, got %q", buf.String())
	}
}

func TestAuditToggle(t *testing.T) {
	// Save original state
	originalEnabled := auditEnabled
	defer func() {
		auditEnabled = originalEnabled
	}()

	SetEnabled(false)
	if IsEnabled() {
		t.Error("Expected audit to be disabled")
	}

	SetEnabled(true)
	if !IsEnabled() {
		t.Error("Expected audit to be enabled")
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
