package model

// City belongs to a Country and anchors offline events.
type City struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Name      string `gorm:"column:name;not null"`
	CountryID int64  `gorm:"column:country_id;not null"`
}

func (City) TableName() string {
	return "cities"
}
