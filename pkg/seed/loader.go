package seed

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// errDryRun forces the transaction to roll back after a dry run.
var errDryRun = errors.New("dry run rollback")

// LoadResult reports how many rows were created per entity.
type LoadResult struct {
	CountriesCreated  int
	CitiesCreated     int
	OrganizersCreated int
	TagsCreated       int
}

// Total returns the number of rows created across all entities.
func (r *LoadResult) Total() int {
	return r.CountriesCreated + r.CitiesCreated + r.OrganizersCreated + r.TagsCreated
}

// Loader applies seed documents to the database.
type Loader struct {
	db     *gorm.DB
	dryRun bool
}

// NewLoader creates a new seed loader.
func NewLoader(db *gorm.DB) *Loader {
	return &Loader{db: db}
}

// WithDryRun sets whether to validate and count only, rolling back all writes.
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// LoadFromReader parses, validates and loads a seed document.
func (l *Loader) LoadFromReader(r io.Reader) (*LoadResult, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return l.Load(doc)
}

// LoadFromFile loads a seed document from a file path.
func (l *Loader) LoadFromFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return l.LoadFromReader(f)
}

// Load upserts the document's entities inside a single transaction.
// Countries come first so cities can reference them.
func (l *Loader) Load(doc *Document) (*LoadResult, error) {
	result := &LoadResult{}

	err := l.db.Transaction(func(tx *gorm.DB) error {
		for _, c := range doc.Countries {
			country := model.Country{Name: c.Name}
			if c.IsoCode != "" {
				country.IsoCode = &c.IsoCode
			}

			var row model.Country
			res := tx.Where(model.Country{Name: c.Name}).Attrs(country).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed country %q: %w", c.Name, res.Error)
			}
			if res.RowsAffected == 1 {
				result.CountriesCreated++
			}

			for _, cityName := range c.Cities {
				var city model.City
				res := tx.Where(model.City{Name: cityName, CountryID: row.ID}).FirstOrCreate(&city)
				if res.Error != nil {
					return fmt.Errorf("failed to seed city %q: %w", cityName, res.Error)
				}
				if res.RowsAffected == 1 {
					result.CitiesCreated++
				}
			}
		}

		for _, o := range doc.Organizers {
			organizer := model.Organizer{Name: o.Name}
			if o.Website != "" {
				organizer.Website = &o.Website
			}
			if o.ContactEmail != "" {
				organizer.ContactEmail = &o.ContactEmail
			}
			if o.Description != "" {
				organizer.Description = &o.Description
			}

			var row model.Organizer
			res := tx.Where(model.Organizer{Name: o.Name}).Attrs(organizer).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed organizer %q: %w", o.Name, res.Error)
			}
			if res.RowsAffected == 1 {
				result.OrganizersCreated++
			}
		}

		for _, name := range doc.Tags {
			var row model.Tag
			res := tx.Where(model.Tag{Name: name}).FirstOrCreate(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to seed tag %q: %w", name, res.Error)
			}
			if res.RowsAffected == 1 {
				result.TagsCreated++
			}
		}

		if l.dryRun {
			return errDryRun
		}
		return nil
	})

	if errors.Is(err, errDryRun) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}
