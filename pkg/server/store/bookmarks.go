package store

import (
	"errors"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// ErrBookmarkNotFound is returned when a bookmark doesn't exist
var ErrBookmarkNotFound = errors.New("bookmark not found")

// ErrDuplicateBookmark is returned when the event is already bookmarked
var ErrDuplicateBookmark = errors.New("already bookmarked")

// BookmarksStore abstracts bookmark storage operations
type BookmarksStore interface {
	// ListBookmarks returns a user's bookmarks, newest first, with the
	// bookmarked event and its tags preloaded.
	ListBookmarks(userID int64) ([]model.Bookmark, error)

	// AddBookmark bookmarks an event for a user.
	// Returns ErrEventNotFound if the event doesn't exist and
	// ErrDuplicateBookmark if it is already bookmarked.
	AddBookmark(userID, eventID int64) (*model.Bookmark, error)

	// RemoveBookmark deletes a user's bookmark.
	// Returns ErrBookmarkNotFound if no such bookmark exists.
	RemoveBookmark(userID, eventID int64) error
}
