package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure PlacesStore implements store.PlacesStore
var _ store.PlacesStore = (*PlacesStore)(nil)

// PlacesStore implements store.PlacesStore using GORM
type PlacesStore struct {
	db *gorm.DB
}

// NewPlacesStore creates a new PlacesStore
func NewPlacesStore(db *gorm.DB) *PlacesStore {
	return &PlacesStore{db: db}
}

// ListCities returns all cities ordered by name.
func (s *PlacesStore) ListCities() ([]model.City, error) {
	var cities []model.City
	tx := s.db.Order("name").Find(&cities)
	return cities, tx.Error
}

// ListCountries returns all countries ordered by name.
func (s *PlacesStore) ListCountries() ([]model.Country, error) {
	var countries []model.Country
	tx := s.db.Order("name").Find(&countries)
	return countries, tx.Error
}
