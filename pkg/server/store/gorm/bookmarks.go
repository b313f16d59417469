package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure BookmarksStore implements store.BookmarksStore
var _ store.BookmarksStore = (*BookmarksStore)(nil)

// BookmarksStore implements store.BookmarksStore using GORM
type BookmarksStore struct {
	db *gorm.DB
}

// NewBookmarksStore creates a new BookmarksStore
func NewBookmarksStore(db *gorm.DB) *BookmarksStore {
	return &BookmarksStore{db: db}
}

// ListBookmarks returns a user's bookmarks, newest first.
func (s *BookmarksStore) ListBookmarks(userID int64) ([]model.Bookmark, error) {
	var bookmarks []model.Bookmark
	tx := s.db.
		Preload("Event").
		Preload("Event.Tags").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Find(&bookmarks)
	return bookmarks, tx.Error
}

// AddBookmark bookmarks an event for a user.
func (s *BookmarksStore) AddBookmark(userID, eventID int64) (*model.Bookmark, error) {
	var count int64
	if err := s.db.Model(&model.Event{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, store.ErrEventNotFound
	}

	bookmark := model.Bookmark{UserID: userID, EventID: eventID}
	if err := s.db.Omit("Event").Create(&bookmark).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateBookmark
		}
		if isForeignKeyViolation(err) {
			// The event vanished between the check and the insert
			return nil, store.ErrEventNotFound
		}
		return nil, err
	}
	return &bookmark, nil
}

// RemoveBookmark deletes a user's bookmark.
func (s *BookmarksStore) RemoveBookmark(userID, eventID int64) error {
	tx := s.db.
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Delete(&model.Bookmark{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrBookmarkNotFound
	}
	return nil
}
