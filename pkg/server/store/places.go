package store

import "github.com/eventdeckhq/eventdeck/pkg/model"

// PlacesStore abstracts city and country reference data operations
type PlacesStore interface {
	// ListCities returns all cities ordered by name.
	ListCities() ([]model.City, error)

	// ListCountries returns all countries ordered by name.
	ListCountries() ([]model.Country, error)
}
