package store

import (
	"errors"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// ErrTagNotFound is returned when a tag doesn't exist
var ErrTagNotFound = errors.New("tag not found")

// ErrDuplicateTag is returned when the tag name is taken
var ErrDuplicateTag = errors.New("tag already exists")

// TagsStore abstracts tag storage operations
type TagsStore interface {
	// ListTags returns all tags ordered by name.
	ListTags() ([]model.Tag, error)

	// CreateTag inserts a new tag.
	// Returns ErrDuplicateTag if the name is taken.
	CreateTag(tag *model.Tag) error

	// DeleteTag removes a tag and its event associations.
	// Returns ErrTagNotFound if no such tag exists.
	DeleteTag(id int64) error
}
