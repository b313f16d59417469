package audit

import (
	"fmt"
	"strconv"
)

// BookmarkEvent represents a bookmark being added or removed by a user.
type BookmarkEvent struct {
	UserEmail    string
	UserID       int64
	ClientIP     string
	EventID      int64
	Operation    string
	Success      bool
	ErrorMessage string
}

func (e BookmarkEvent) MessageID() string {
	return "bookmark"
}

func (e BookmarkEvent) Message() string {
	verb := "bookmarked"
	if e.Operation == "remove" {
		verb = "removed bookmark for"
	}
	if e.Success {
		return fmt.Sprintf("%s %s event %d", e.UserEmail, verb, e.EventID)
	}
	msg := fmt.Sprintf("%s failed to %s bookmark for event %d", e.UserEmail, e.Operation, e.EventID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e BookmarkEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e BookmarkEvent) Facility() int {
	return FacilityAuth
}

func (e BookmarkEvent) StructuredData() map[string]map[string]string {
	result := "success"
	if !e.Success {
		result = "failure"
	}
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.UserEmail,
			"id":   strconv.FormatInt(e.UserID, 10),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
		SDIDSubject: {
			"kind": "event",
			"id":   strconv.FormatInt(e.EventID, 10),
		},
		SDIDAction: {
			"operation": e.Operation,
			"result":    result,
		},
	}
}
