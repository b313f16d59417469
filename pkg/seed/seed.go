// Package seed loads reference data (countries, cities, organizers, tags)
// from a YAML document into the database. Loading is idempotent: rows are
// matched by natural key and only missing ones are created.
package seed

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is the top-level structure of a seed file.
type Document struct {
	Countries  []Country   `yaml:"countries" validate:"dive"`
	Organizers []Organizer `yaml:"organizers" validate:"dive"`
	Tags       []string    `yaml:"tags" validate:"dive,required,max=50"`
}

// Country declares a country and the cities inside it.
type Country struct {
	Name    string   `yaml:"name" validate:"required,max=100"`
	IsoCode string   `yaml:"iso_code" validate:"omitempty,min=2,max=3"`
	Cities  []string `yaml:"cities" validate:"dive,required,max=100"`
}

// Organizer declares an event organizer.
type Organizer struct {
	Name         string `yaml:"name" validate:"required,max=255"`
	Website      string `yaml:"website" validate:"omitempty,url,max=500"`
	ContactEmail string `yaml:"contact_email" validate:"omitempty,email,max=255"`
	Description  string `yaml:"description"`
}

var validate = validator.New()

// Parse decodes a seed document from a reader. Unknown fields are
// rejected so typos in seed files surface immediately.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Document{}, nil
		}
		return nil, fmt.Errorf("failed to parse seed document: %w", err)
	}
	return &doc, nil
}

// Validate checks the document against the field constraints.
func (d *Document) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var messages []string
		for _, fieldErr := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s: %s", fieldErr.Namespace(), fieldErr.Tag()))
		}
		return fmt.Errorf("seed validation failed: %v", messages)
	}
	return fmt.Errorf("seed validation error: %w", err)
}
