package audit

import (
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := AuthenticateEvent{
		Email:    "admin@example.com",
		ClientIP: "10.0.0.1",
		Success:  true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,  // facility
			int(SeverityInfo), // severity
			sqlmock.AnyArg(),  // timestamp
			sqlmock.AnyArg(),  // hostname
			"eventdeck",       // appname
			sqlmock.AnyArg(),  // procid
			"authn",           // msgid
			sqlmock.AnyArg(),  // sdata (JSON)
			sqlmock.AnyArg(),  // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveFailedEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := AuthenticateEvent{
		Email:        "admin@example.com",
		ClientIP:     "10.0.0.1",
		Success:      false,
		ErrorMessage: "incorrect email or password",
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityWarning), // Failed events have warning severity
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"eventdeck",
			sqlmock.AnyArg(),
			"authn",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveResourceEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := ResourceEvent{
		Actor:      "admin@example.com",
		ClientIP:   "10.0.0.1",
		Kind:       "event",
		ResourceID: 7,
		Name:       "GopherCon",
		Operation:  "update",
		Fields:     []string{"name", "price"},
		Success:    true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"eventdeck",
			sqlmock.AnyArg(),
			"resource",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveBookmarkEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := BookmarkEvent{
		UserEmail: "user@example.com",
		UserID:    4,
		ClientIP:  "10.0.0.1",
		EventID:   7,
		Operation: "add",
		Success:   true,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuth,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"eventdeck",
			sqlmock.AnyArg(),
			"bookmark",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	event := AuthenticateEvent{
		Email:    "admin@example.com",
		ClientIP: "10.0.0.1",
		Success:  true,
	}

	// Should not error when db is nil
	err := store.Save(event)
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestNewMessage(t *testing.T) {
	event := ResourceEvent{
		Actor:      "admin@example.com",
		ClientIP:   "10.0.0.1",
		Kind:       "event",
		ResourceID: 7,
		Name:       "GopherCon",
		Operation:  "create",
		Success:    true,
	}

	msg := newMessage(event)

	if msg.Facility != FacilityAuth {
		t.Errorf("Facility = %v, want %v", msg.Facility, FacilityAuth)
	}
	if msg.Severity != int(SeverityInfo) {
		t.Errorf("Severity = %v, want %v", msg.Severity, int(SeverityInfo))
	}
	if msg.Appname != "eventdeck" {
		t.Errorf("Appname = %q, want 'eventdeck'", msg.Appname)
	}
	if msg.Procid == "" {
		t.Error("Procid should carry the process id")
	}
	if msg.Msgid != "resource" {
		t.Errorf("Msgid = %q, want 'resource'", msg.Msgid)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}
	if _, ok := msg.Sdata[SDIDAuth]; !ok {
		t.Error("Sdata should carry the auth element")
	}
	if !strings.Contains(msg.Message, `created event "GopherCon"`) {
		t.Errorf("Message = %q, want the resource message", msg.Message)
	}
}
