package model

import "time"

// Bookmark marks an event as saved by a user.
type Bookmark struct {
	UserID  int64     `gorm:"column:user_id;primaryKey"`
	EventID int64     `gorm:"column:event_id;primaryKey"`
	AddedAt time.Time `gorm:"column:added_at;autoCreateTime"`
	Event   Event     `gorm:"foreignKey:EventID"`
}

func (Bookmark) TableName() string {
	return "bookmarks"
}
