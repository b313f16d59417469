package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventdeckhq/eventdeck/pkg/config"
)

// Connection pool sizing for the API workload.
const (
	maxOpenConns    = 20
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Config holds database connection configuration
type Config struct {
	// URL is the connection string. Falls back to the configured
	// database_url when empty.
	URL string
}

// Connect opens a GORM connection pool against PostgreSQL. An explicit
// URL wins; otherwise the configured database_url (file or DATABASE_URL)
// is used.
func Connect(cfg Config) (*gorm.DB, error) {
	dsn := cfg.URL
	if dsn == "" {
		dsn = URL()
	}
	if dsn == "" {
		return nil, fmt.Errorf("database_url is not configured, set DATABASE_URL")
	}

	gdb, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logMode()),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return gdb, nil
}

// URL returns the configured database URL, empty when none is set.
func URL() string {
	return config.Get().DatabaseURL
}

// logMode maps the configured log level onto GORM's logger. Debug echoes
// SQL statements.
func logMode() logger.LogLevel {
	if config.Get().LogLevel == "debug" {
		return logger.Info
	}
	return logger.Silent
}
