package audit

import (
	"fmt"
	"strconv"
	"strings"
)

// ResourceEvent represents a change to an event, organizer or tag record.
type ResourceEvent struct {
	// Actor is the email of the authenticated user performing the change.
	Actor        string
	ClientIP     string
	Kind         string
	ResourceID   int64
	Name         string
	Operation    string
	Fields       []string
	Success      bool
	ErrorMessage string
}

func (e ResourceEvent) MessageID() string {
	return "resource"
}

func (e ResourceEvent) Message() string {
	subject := fmt.Sprintf("%s %d", e.Kind, e.ResourceID)
	if e.Name != "" {
		subject = fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	if e.Success {
		msg := fmt.Sprintf("%s %sd %s", e.Actor, e.Operation, subject)
		if len(e.Fields) > 0 {
			msg += " (" + strings.Join(e.Fields, ", ") + ")"
		}
		return msg
	}
	msg := fmt.Sprintf("%s failed to %s %s", e.Actor, e.Operation, subject)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ResourceEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ResourceEvent) Facility() int {
	return FacilityAuth
}

func (e ResourceEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	subject := map[string]string{
		"kind": e.Kind,
		"id":   strconv.FormatInt(e.ResourceID, 10),
	}
	if e.Name != "" {
		subject["name"] = e.Name
	}
	sd := map[string]map[string]string{
		SDIDAuth: {
			"user": e.Actor,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDSubject: subject,
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
	if len(e.Fields) > 0 {
		sd[SDIDAction]["fields"] = strings.Join(e.Fields, ",")
	}
	return sd
}
