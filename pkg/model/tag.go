package model

// Tag categorizes events, keyed by unique name.
type Tag struct {
	ID   int64  `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// EventTag is a row of the events<->tags join table.
type EventTag struct {
	EventID int64 `gorm:"column:event_id;primaryKey"`
	TagID   int64 `gorm:"column:tag_id;primaryKey"`
}

func (EventTag) TableName() string {
	return "event_tags"
}
