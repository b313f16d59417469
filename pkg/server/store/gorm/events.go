package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure EventsStore implements store.EventsStore
var _ store.EventsStore = (*EventsStore)(nil)

// EventsStore implements store.EventsStore using GORM
type EventsStore struct {
	db *gorm.DB
}

// NewEventsStore creates a new EventsStore
func NewEventsStore(db *gorm.DB) *EventsStore {
	return &EventsStore{db: db}
}

// ListEvents returns events matching the filter, tags preloaded.
func (s *EventsStore) ListEvents(filter store.EventFilter) ([]model.Event, error) {
	query := s.db.Model(&model.Event{}).Preload("Tags")

	if filter.Search != nil {
		like := "%" + *filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.CityID != nil {
		query = query.Where("city_id = ?", *filter.CityID)
	}
	if filter.OrganizerID != nil {
		query = query.Where("organizer_id = ?", *filter.OrganizerID)
	}
	if filter.IsOnline != nil {
		query = query.Where("is_online = ?", *filter.IsOnline)
	}
	if filter.TagID != nil {
		query = query.Joins("JOIN event_tags ON event_tags.event_id = events.id").
			Where("event_tags.tag_id = ?", *filter.TagID)
	}

	var events []model.Event
	tx := query.Order("date_start DESC").Find(&events)
	return events, tx.Error
}

// EventByID retrieves a single event with tags preloaded.
func (s *EventsStore) EventByID(id int64) (*model.Event, error) {
	var event model.Event
	tx := s.db.Preload("Tags").First(&event, id)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrEventNotFound
		}
		return nil, tx.Error
	}
	return &event, nil
}

// CreateEvent inserts an event and attaches the given tags in one
// transaction. Unknown tag IDs are skipped.
func (s *EventsStore) CreateEvent(event *model.Event, tagIDs []int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Create(event).Error; err != nil {
			return err
		}
		return attachTags(tx, event.ID, tagIDs)
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidReference
		}
		return err
	}
	return nil
}

// UpdateEvent persists modified event fields, records the audit trail and,
// when tagIDs is non-nil, replaces the tag set.
func (s *EventsStore) UpdateEvent(event *model.Event, changedBy int64, changes []store.FieldChange, tagIDs []int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags").Save(event).Error; err != nil {
			return err
		}

		for _, change := range changes {
			row := model.EventAuditLog{
				EventID:       event.ID,
				ChangedBy:     &changedBy,
				ChangedColumn: change.Column,
				OldValue:      change.OldValue,
				NewValue:      change.NewValue,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		if tagIDs != nil {
			if err := tx.Where("event_id = ?", event.ID).Delete(&model.EventTag{}).Error; err != nil {
				return err
			}
			if err := attachTags(tx, event.ID, tagIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidReference
		}
		return err
	}
	return nil
}

// DeleteEvent removes an event. Tags, bookmarks and audit rows cascade.
func (s *EventsStore) DeleteEvent(id int64) error {
	tx := s.db.Delete(&model.Event{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrEventNotFound
	}
	return nil
}

// CountEvents returns the total number of events.
func (s *EventsStore) CountEvents() (int64, error) {
	var count int64
	tx := s.db.Model(&model.Event{}).Count(&count)
	return count, tx.Error
}

// attachTags inserts join rows for the tag IDs that exist.
func attachTags(tx *gorm.DB, eventID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	var tags []model.Tag
	if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if err := tx.Create(&model.EventTag{EventID: eventID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
