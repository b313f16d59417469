package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure TagsStore implements store.TagsStore
var _ store.TagsStore = (*TagsStore)(nil)

// TagsStore implements store.TagsStore using GORM
type TagsStore struct {
	db *gorm.DB
}

// NewTagsStore creates a new TagsStore
func NewTagsStore(db *gorm.DB) *TagsStore {
	return &TagsStore{db: db}
}

// ListTags returns all tags ordered by name.
func (s *TagsStore) ListTags() ([]model.Tag, error) {
	var tags []model.Tag
	tx := s.db.Order("name").Find(&tags)
	return tags, tx.Error
}

// CreateTag inserts a new tag.
func (s *TagsStore) CreateTag(tag *model.Tag) error {
	tx := s.db.Create(tag)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return store.ErrDuplicateTag
		}
		return tx.Error
	}
	return nil
}

// DeleteTag removes a tag. Join rows cascade.
func (s *TagsStore) DeleteTag(id int64) error {
	tx := s.db.Delete(&model.Tag{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrTagNotFound
	}
	return nil
}
