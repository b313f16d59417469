package store

import (
	"errors"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// ErrOrganizerNotFound is returned when an organizer doesn't exist
var ErrOrganizerNotFound = errors.New("organizer not found")

// ErrDuplicateOrganizer is returned when the organizer name is taken
var ErrDuplicateOrganizer = errors.New("organizer already exists")

// OrganizersStore abstracts organizer storage operations
type OrganizersStore interface {
	// ListOrganizers returns all organizers ordered by name.
	ListOrganizers() ([]model.Organizer, error)

	// OrganizerByID retrieves an organizer by primary key.
	// Returns ErrOrganizerNotFound if no such organizer exists.
	OrganizerByID(id int64) (*model.Organizer, error)

	// CreateOrganizer inserts a new organizer.
	// Returns ErrDuplicateOrganizer if the name is taken.
	CreateOrganizer(organizer *model.Organizer) error
}
