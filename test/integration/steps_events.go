package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
)

// registerEventSteps registers the catalog and bookmark step definitions
func (s *StepsContext) registerEventSteps(sc *godog.ScenarioContext) {
	// Catalog fixtures
	sc.Step(`^an organizer "([^"]*)" exists$`, s.anOrganizerExists)
	sc.Step(`^a tag "([^"]*)" exists$`, s.aTagExists)

	// Event steps
	sc.Step(`^I create an event "([^"]*)" for organizer "([^"]*)" starting at "([^"]*)"$`, s.iCreateAnEvent)
	sc.Step(`^I create an event "([^"]*)" for organizer "([^"]*)" starting at "([^"]*)" tagged "([^"]*)"$`, s.iCreateAnEventTagged)
	sc.Step(`^I list events$`, s.iListEvents)
	sc.Step(`^I search events for "([^"]*)"$`, s.iSearchEventsFor)
	sc.Step(`^I list events tagged "([^"]*)"$`, s.iListEventsTagged)
	sc.Step(`^the event list should contain (\d+) events?$`, s.theEventListShouldContain)
	sc.Step(`^the event list should include "([^"]*)"$`, s.theEventListShouldInclude)
	sc.Step(`^the response event should be titled "([^"]*)"$`, s.theResponseEventShouldBeTitled)
	sc.Step(`^event "([^"]*)" should exist$`, s.eventShouldExist)

	// Bookmark steps
	sc.Step(`^I bookmark the event "([^"]*)"$`, s.iBookmarkTheEvent)
	sc.Step(`^I remove the bookmark for "([^"]*)"$`, s.iRemoveTheBookmarkFor)
	sc.Step(`^I list my bookmarks$`, s.iListMyBookmarks)
	sc.Step(`^the bookmark list should contain (\d+) bookmarks?$`, s.theBookmarkListShouldContain)
}

// Catalog fixtures

func (s *StepsContext) anOrganizerExists(name string) error {
	return s.tc.DB.Exec(`
		INSERT INTO organizers (name) VALUES (?) ON CONFLICT (name) DO NOTHING
	`, name).Error
}

func (s *StepsContext) aTagExists(name string) error {
	return s.tc.DB.Exec(`
		INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING
	`, name).Error
}

func (s *StepsContext) organizerIDByName(name string) (int64, error) {
	var id int64
	if err := s.tc.DB.Raw(`SELECT id FROM organizers WHERE name = ?`, name).Scan(&id).Error; err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("organizer %q not found", name)
	}
	return id, nil
}

func (s *StepsContext) tagIDByName(name string) (int64, error) {
	var id int64
	if err := s.tc.DB.Raw(`SELECT id FROM tags WHERE name = ?`, name).Scan(&id).Error; err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("tag %q not found", name)
	}
	return id, nil
}

func (s *StepsContext) eventIDByTitle(title string) (int64, error) {
	var id int64
	if err := s.tc.DB.Raw(`SELECT id FROM events WHERE title = ?`, title).Scan(&id).Error; err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, fmt.Errorf("event %q not found", title)
	}
	return id, nil
}

// Event steps

func (s *StepsContext) iCreateAnEvent(title, organizerName, dateStart string) error {
	return s.createEvent(title, organizerName, dateStart, nil)
}

func (s *StepsContext) iCreateAnEventTagged(title, organizerName, dateStart, tagNames string) error {
	var tagIDs []string
	for _, name := range strings.Split(tagNames, ",") {
		id, err := s.tagIDByName(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, strconv.FormatInt(id, 10))
	}
	return s.createEvent(title, organizerName, dateStart, tagIDs)
}

// createEvent sends the multipart create form the way browser clients do
func (s *StepsContext) createEvent(title, organizerName, dateStart string, tagIDs []string) error {
	organizerID, err := s.organizerIDByName(organizerName)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	_ = form.WriteField("title", title)
	_ = form.WriteField("organizer_id", strconv.FormatInt(organizerID, 10))
	_ = form.WriteField("date_start", dateStart)
	if len(tagIDs) > 0 {
		_ = form.WriteField("tag_ids", strings.Join(tagIDs, ","))
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequest("POST", s.tc.ServerURL+"/api/v1/event", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return s.doRequest(req)
}

func (s *StepsContext) iListEvents() error {
	return s.doJSON("GET", "/api/v1/events", nil)
}

func (s *StepsContext) iSearchEventsFor(term string) error {
	return s.doJSON("GET", "/api/v1/events?search="+url.QueryEscape(term), nil)
}

func (s *StepsContext) iListEventsTagged(tagName string) error {
	tagID, err := s.tagIDByName(tagName)
	if err != nil {
		return err
	}
	return s.doJSON("GET", fmt.Sprintf("/api/v1/events?tag_id=%d", tagID), nil)
}

func (s *StepsContext) theEventListShouldContain(expected int) error {
	var events []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &events); err != nil {
		return fmt.Errorf("failed to parse event list: %w: %s", err, string(s.responseBody))
	}
	if len(events) != expected {
		return fmt.Errorf("expected %d events, got %d: %s", expected, len(events), string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theEventListShouldInclude(title string) error {
	var events []struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(s.responseBody, &events); err != nil {
		return fmt.Errorf("failed to parse event list: %w", err)
	}
	for _, event := range events {
		if event.Title == title {
			return nil
		}
	}
	return fmt.Errorf("event %q not in list: %s", title, string(s.responseBody))
}

func (s *StepsContext) theResponseEventShouldBeTitled(title string) error {
	var event struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(s.responseBody, &event); err != nil {
		return fmt.Errorf("failed to parse event: %w", err)
	}
	if event.Title != title {
		return fmt.Errorf("expected event titled %q, got %q", title, event.Title)
	}
	return nil
}

func (s *StepsContext) eventShouldExist(title string) error {
	_, err := s.eventIDByTitle(title)
	return err
}

// Bookmark steps

func (s *StepsContext) iBookmarkTheEvent(title string) error {
	eventID, err := s.eventIDByTitle(title)
	if err != nil {
		return err
	}
	return s.doJSON("POST", fmt.Sprintf("/api/v1/bookmarks/%d", eventID), nil)
}

func (s *StepsContext) iRemoveTheBookmarkFor(title string) error {
	eventID, err := s.eventIDByTitle(title)
	if err != nil {
		return err
	}
	return s.doJSON("DELETE", fmt.Sprintf("/api/v1/bookmarks/%d", eventID), nil)
}

func (s *StepsContext) iListMyBookmarks() error {
	return s.doJSON("GET", "/api/v1/bookmarks", nil)
}

func (s *StepsContext) theBookmarkListShouldContain(expected int) error {
	var bookmarks []json.RawMessage
	if err := json.Unmarshal(s.responseBody, &bookmarks); err != nil {
		return fmt.Errorf("failed to parse bookmark list: %w: %s", err, string(s.responseBody))
	}
	if len(bookmarks) != expected {
		return fmt.Errorf("expected %d bookmarks, got %d: %s", expected, len(bookmarks), string(s.responseBody))
	}
	return nil
}
