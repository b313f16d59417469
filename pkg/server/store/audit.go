package store

import "github.com/eventdeckhq/eventdeck/pkg/model"

// AuditStore abstracts event change history operations
type AuditStore interface {
	// ListEventAuditLogs returns change history rows, newest first.
	// A nil eventID returns history across all events.
	ListEventAuditLogs(eventID *int64) ([]model.EventAuditLog, error)
}
