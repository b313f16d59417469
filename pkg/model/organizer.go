package model

// Organizer is an entity that hosts events, keyed by unique name.
type Organizer struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	Name         string  `gorm:"column:name;not null"`
	Website      *string `gorm:"column:website"`
	ContactEmail *string `gorm:"column:contact_email"`
	Description  *string `gorm:"column:description"`
}

func (Organizer) TableName() string {
	return "organizers"
}
