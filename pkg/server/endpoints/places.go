package endpoints

import (
	"net/http"

	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// CityResponse represents a city in API responses
type CityResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
}

// CountryResponse represents a country in API responses
type CountryResponse struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	IsoCode *string `json:"iso_code"`
}

// RegisterPlacesEndpoints registers the reference data endpoints
func RegisterPlacesEndpoints(s *server.Server) {
	placesStore := s.Stores.Places

	// GET /api/v1/cities - List cities (no auth required)
	s.Router.HandleFunc("/api/v1/cities", handleListCities(placesStore)).Methods("GET")

	// GET /api/v1/countries - List countries (no auth required)
	s.Router.HandleFunc("/api/v1/countries", handleListCountries(placesStore)).Methods("GET")
}

func handleListCities(placesStore store.PlacesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cities, err := placesStore.ListCities()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list cities")
			return
		}

		out := make([]CityResponse, 0, len(cities))
		for _, city := range cities {
			out = append(out, CityResponse{ID: city.ID, Name: city.Name, CountryID: city.CountryID})
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}

func handleListCountries(placesStore store.PlacesStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries, err := placesStore.ListCountries()
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to list countries")
			return
		}

		out := make([]CountryResponse, 0, len(countries))
		for _, country := range countries {
			out = append(out, CountryResponse{ID: country.ID, Name: country.Name, IsoCode: country.IsoCode})
		}
		respondWithJSON(w, http.StatusOK, out)
	}
}
