package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure AuditStore implements store.AuditStore
var _ store.AuditStore = (*AuditStore)(nil)

// AuditStore implements store.AuditStore using GORM
type AuditStore struct {
	db *gorm.DB
}

// NewAuditStore creates a new AuditStore
func NewAuditStore(db *gorm.DB) *AuditStore {
	return &AuditStore{db: db}
}

// ListEventAuditLogs returns change history rows, newest first.
func (s *AuditStore) ListEventAuditLogs(eventID *int64) ([]model.EventAuditLog, error) {
	query := s.db.Model(&model.EventAuditLog{})
	if eventID != nil {
		query = query.Where("event_id = ?", *eventID)
	}

	var logs []model.EventAuditLog
	tx := query.Order("change_date DESC").Find(&logs)
	return logs, tx.Error
}
