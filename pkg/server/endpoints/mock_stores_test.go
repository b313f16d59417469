package endpoints

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func NewMockUsersStore() *MockUsersStore {
	return &MockUsersStore{}
}

func (m *MockUsersStore) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUsersStore) UserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) UserByID(id int64) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) CountUsers() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockEventsStore implements store.EventsStore for testing using testify/mock
type MockEventsStore struct {
	mock.Mock
}

func NewMockEventsStore() *MockEventsStore {
	return &MockEventsStore{}
}

func (m *MockEventsStore) ListEvents(filter store.EventFilter) ([]model.Event, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockEventsStore) EventByID(id int64) (*model.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventsStore) CreateEvent(event *model.Event, tagIDs []int64) error {
	args := m.Called(event, tagIDs)
	return args.Error(0)
}

func (m *MockEventsStore) UpdateEvent(event *model.Event, changedBy int64, changes []store.FieldChange, tagIDs []int64) error {
	args := m.Called(event, changedBy, changes, tagIDs)
	return args.Error(0)
}

func (m *MockEventsStore) DeleteEvent(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockEventsStore) CountEvents() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

// MockOrganizersStore implements store.OrganizersStore for testing using testify/mock
type MockOrganizersStore struct {
	mock.Mock
}

func NewMockOrganizersStore() *MockOrganizersStore {
	return &MockOrganizersStore{}
}

func (m *MockOrganizersStore) ListOrganizers() ([]model.Organizer, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Organizer), args.Error(1)
}

func (m *MockOrganizersStore) OrganizerByID(id int64) (*model.Organizer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organizer), args.Error(1)
}

func (m *MockOrganizersStore) CreateOrganizer(organizer *model.Organizer) error {
	args := m.Called(organizer)
	return args.Error(0)
}

// MockTagsStore implements store.TagsStore for testing using testify/mock
type MockTagsStore struct {
	mock.Mock
}

func NewMockTagsStore() *MockTagsStore {
	return &MockTagsStore{}
}

func (m *MockTagsStore) ListTags() ([]model.Tag, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagsStore) CreateTag(tag *model.Tag) error {
	args := m.Called(tag)
	return args.Error(0)
}

func (m *MockTagsStore) DeleteTag(id int64) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockBookmarksStore implements store.BookmarksStore for testing using testify/mock
type MockBookmarksStore struct {
	mock.Mock
}

func NewMockBookmarksStore() *MockBookmarksStore {
	return &MockBookmarksStore{}
}

func (m *MockBookmarksStore) ListBookmarks(userID int64) ([]model.Bookmark, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Bookmark), args.Error(1)
}

func (m *MockBookmarksStore) AddBookmark(userID, eventID int64) (*model.Bookmark, error) {
	args := m.Called(userID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bookmark), args.Error(1)
}

func (m *MockBookmarksStore) RemoveBookmark(userID, eventID int64) error {
	args := m.Called(userID, eventID)
	return args.Error(0)
}

// MockPlacesStore implements store.PlacesStore for testing using testify/mock
type MockPlacesStore struct {
	mock.Mock
}

func NewMockPlacesStore() *MockPlacesStore {
	return &MockPlacesStore{}
}

func (m *MockPlacesStore) ListCities() ([]model.City, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.City), args.Error(1)
}

func (m *MockPlacesStore) ListCountries() ([]model.Country, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Country), args.Error(1)
}

// MockAuditStore implements store.AuditStore for testing using testify/mock
type MockAuditStore struct {
	mock.Mock
}

func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

func (m *MockAuditStore) ListEventAuditLogs(eventID *int64) ([]model.EventAuditLog, error) {
	args := m.Called(eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventAuditLog), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mockStores bundles fresh mocks for every store interface
type mockStores struct {
	Users      *MockUsersStore
	Events     *MockEventsStore
	Organizers *MockOrganizersStore
	Tags       *MockTagsStore
	Bookmarks  *MockBookmarksStore
	Places     *MockPlacesStore
	Audit      *MockAuditStore
	Health     *MockHealthStore
}

func newMockStores() *mockStores {
	return &mockStores{
		Users:      NewMockUsersStore(),
		Events:     NewMockEventsStore(),
		Organizers: NewMockOrganizersStore(),
		Tags:       NewMockTagsStore(),
		Bookmarks:  NewMockBookmarksStore(),
		Places:     NewMockPlacesStore(),
		Audit:      NewMockAuditStore(),
		Health:     NewMockHealthStore(),
	}
}

// newMockServer wires a server around mock stores, a throwaway signing key
// and disabled object storage. No database is involved.
func newMockServer(stores *mockStores) *server.Server {
	return newMockServerWithStorage(stores, storage.Disabled{})
}

// newMockServerWithStorage is newMockServer with a caller-chosen object
// store, for exercising the image upload paths.
func newMockServerWithStorage(stores *mockStores, objects storage.ObjectStore) *server.Server {
	cfg := &config.EventdeckConfig{
		SecretKey:                "test-secret",
		AccessTokenExpireMinutes: 60,
		CORSAllowedOrigins:       []string{"*"},
	}
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), time.Hour)

	s := server.NewServer(nil, cfg, server.Stores{
		Users:      stores.Users,
		Events:     stores.Events,
		Organizers: stores.Organizers,
		Tags:       stores.Tags,
		Bookmarks:  stores.Bookmarks,
		Places:     stores.Places,
		Audit:      stores.Audit,
		Health:     stores.Health,
	}, tokens, objects, nil, "127.0.0.1", "0")

	RegisterAll(s)
	return s
}
