package store

import (
	"errors"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// ErrEventNotFound is returned when an event doesn't exist
var ErrEventNotFound = errors.New("event not found")

// ErrInvalidReference is returned when a write references a missing
// organizer, city or tag
var ErrInvalidReference = errors.New("invalid reference to related record")

// EventFilter narrows down event listings. Nil fields are not applied.
type EventFilter struct {
	// Search matches case-insensitively against title and description.
	Search      *string
	CityID      *int64
	OrganizerID *int64
	IsOnline    *bool
	TagID       *int64
}

// FieldChange records a single field modification for the audit trail.
// Nil values mean SQL NULL, not empty string.
type FieldChange struct {
	Column   string
	OldValue *string
	NewValue *string
}

// EventsStore abstracts event storage operations
type EventsStore interface {
	// ListEvents returns events matching the filter, tags preloaded,
	// newest start date first.
	ListEvents(filter EventFilter) ([]model.Event, error)

	// EventByID retrieves a single event with tags preloaded.
	// Returns ErrEventNotFound if no such event exists.
	EventByID(id int64) (*model.Event, error)

	// CreateEvent inserts an event and attaches the given tags in one
	// transaction. Unknown tag IDs are skipped. Returns
	// ErrInvalidReference when the organizer or city doesn't exist.
	CreateEvent(event *model.Event, tagIDs []int64) error

	// UpdateEvent persists modified event fields, records one audit row
	// per change and, when tagIDs is non-nil, replaces the tag set. All
	// in one transaction. Returns ErrEventNotFound or ErrInvalidReference.
	UpdateEvent(event *model.Event, changedBy int64, changes []FieldChange, tagIDs []int64) error

	// DeleteEvent removes an event.
	// Returns ErrEventNotFound if no such event exists.
	DeleteEvent(id int64) error

	// CountEvents returns the total number of events.
	CountEvents() (int64, error)
}
