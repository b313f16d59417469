package model

import "time"

// EventAuditLog records a single field change on an event. ChangedBy is the
// admin who made the change, kept nullable so history survives user deletion.
type EventAuditLog struct {
	ID            int64     `gorm:"column:id;primaryKey"`
	EventID       int64     `gorm:"column:event_id;not null"`
	ChangedBy     *int64    `gorm:"column:changed_by"`
	ChangedColumn string    `gorm:"column:changed_column;not null"`
	OldValue      *string   `gorm:"column:old_value"`
	NewValue      *string   `gorm:"column:new_value"`
	ChangeDate    time.Time `gorm:"column:change_date;autoCreateTime"`
}

func (EventAuditLog) TableName() string {
	return "event_audit_log"
}
