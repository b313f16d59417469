package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure OrganizersStore implements store.OrganizersStore
var _ store.OrganizersStore = (*OrganizersStore)(nil)

// OrganizersStore implements store.OrganizersStore using GORM
type OrganizersStore struct {
	db *gorm.DB
}

// NewOrganizersStore creates a new OrganizersStore
func NewOrganizersStore(db *gorm.DB) *OrganizersStore {
	return &OrganizersStore{db: db}
}

// ListOrganizers returns all organizers ordered by name.
func (s *OrganizersStore) ListOrganizers() ([]model.Organizer, error) {
	var organizers []model.Organizer
	tx := s.db.Order("name").Find(&organizers)
	return organizers, tx.Error
}

// OrganizerByID retrieves an organizer by primary key.
func (s *OrganizersStore) OrganizerByID(id int64) (*model.Organizer, error) {
	var organizer model.Organizer
	tx := s.db.First(&organizer, id)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrOrganizerNotFound
		}
		return nil, tx.Error
	}
	return &organizer, nil
}

// CreateOrganizer inserts a new organizer.
func (s *OrganizersStore) CreateOrganizer(organizer *model.Organizer) error {
	tx := s.db.Create(organizer)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return store.ErrDuplicateOrganizer
		}
		return tx.Error
	}
	return nil
}
