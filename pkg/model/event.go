package model

import "time"

// Event is an aggregated event listing.
//
// Price maps numeric(10,2) onto a string to avoid float drift; the simple
// protocol scans it as text. ImageURL holds the storage key (or a full URL
// for externally hosted images); resolution to a servable URL happens at the
// API boundary.
type Event struct {
	ID                   int64      `gorm:"column:id;primaryKey"`
	Title                string     `gorm:"column:title;not null"`
	OrganizerID          int64      `gorm:"column:organizer_id;not null"`
	DateStart            time.Time  `gorm:"column:date_start;not null"`
	Description          *string    `gorm:"column:description"`
	ImageURL             *string    `gorm:"column:image_url"`
	WebsiteURL           *string    `gorm:"column:website_url"`
	Price                string     `gorm:"column:price;default:0.00"`
	DateEnd              *time.Time `gorm:"column:date_end"`
	RegistrationDeadline *time.Time `gorm:"column:registration_deadline"`
	CityID               *int64     `gorm:"column:city_id"`
	LocationAddress      *string    `gorm:"column:location_address"`
	IsOnline             bool       `gorm:"column:is_online"`
	CreatedAt            time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            *time.Time `gorm:"column:updated_at"`
	Tags                 []Tag      `gorm:"many2many:event_tags"`
}

func (Event) TableName() string {
	return "events"
}

// HasEnded returns true if the event has a known end time that has passed.
func (e *Event) HasEnded() bool {
	if e.DateEnd == nil {
		return false
	}
	return time.Now().After(*e.DateEnd)
}
