package model

// Country is a reference geography entry, keyed by unique name.
type Country struct {
	ID      int64   `gorm:"column:id;primaryKey"`
	Name    string  `gorm:"column:name;not null"`
	IsoCode *string `gorm:"column:iso_code"`
}

func (Country) TableName() string {
	return "countries"
}
