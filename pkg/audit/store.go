package audit

import (
	"database/sql"
	"encoding/json"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"

	"github.com/eventdeckhq/eventdeck/pkg/config"
)

// Store persists audit messages to the messages table.
type Store struct {
	db *sql.DB
}

// Message is one row of the messages table: the RFC5424 header fields
// flattened into columns, with the structured data kept as JSON.
type Message struct {
	Facility  int            `json:"facility"`
	Severity  int            `json:"severity"`
	Timestamp time.Time      `json:"timestamp"`
	Hostname  string         `json:"hostname"`
	Appname   string         `json:"appname"`
	Procid    string         `json:"procid"`
	Msgid     string         `json:"msgid"`
	Sdata     map[string]any `json:"sdata"`
	Message   string         `json:"message"`
}

// NewStore opens the audit sink. The messages table ships with the main
// schema, so the sink defaults to the application database; configure
// audit_database_url (or AUDIT_DATABASE_URL) to route messages to a
// separate database instead. Returns a nil store when no database is
// configured at all.
func NewStore() (*Store, error) {
	cfg := config.Get()

	dsn := cfg.AuditDatabaseURL
	if dsn == "" {
		dsn = cfg.DatabaseURL
	}
	if dsn == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// NewStoreWithDB creates a store around an existing connection. Useful
// for testing with sqlmock.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save persists an audit event. A store without a connection drops the
// event, so callers never need to check whether a sink is wired.
func (s *Store) Save(event Event) error {
	if s.db == nil {
		return nil
	}
	return s.insert(newMessage(event))
}

// newMessage flattens an event into a messages row.
func newMessage(event Event) Message {
	hostname, _ := os.Hostname()

	sdata := make(map[string]any)
	for sdid, params := range event.StructuredData() {
		sdata[sdid] = params
	}

	return Message{
		Facility:  event.Facility(),
		Severity:  int(event.Severity()),
		Timestamp: time.Now().UTC(),
		Hostname:  hostname,
		Appname:   appName,
		Procid:    strconv.Itoa(os.Getpid()),
		Msgid:     event.MessageID(),
		Sdata:     sdata,
		Message:   event.Message(),
	}
}

func (s *Store) insert(m Message) error {
	sdata, err := json.Marshal(m.Sdata)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		INSERT INTO messages (facility, severity, timestamp, hostname, appname, procid, msgid, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		m.Facility,
		m.Severity,
		m.Timestamp,
		m.Hostname,
		m.Appname,
		m.Procid,
		m.Msgid,
		sdata,
		m.Message,
	)
	return err
}
