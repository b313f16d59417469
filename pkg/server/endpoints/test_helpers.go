package endpoints

import (
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/db"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
	"github.com/eventdeckhq/eventdeck/pkg/worker"
)

// NewTestServer creates a fully wired server instance for testing.
// It requires a running PostgreSQL database with migrations applied.
func NewTestServer(dbURL string) (*server.Server, error) {
	database, err := db.Connect(db.Config{URL: dbURL})
	if err != nil {
		return nil, err
	}

	cfg := &config.EventdeckConfig{
		DatabaseURL:              dbURL,
		SecretKey:                "test-secret",
		AccessTokenExpireMinutes: 60,
		Workers:                  2,
		CORSAllowedOrigins:       []string{"*"},
	}
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), time.Hour)

	pool := worker.NewPool(cfg.Workers)
	pool.Start()

	s := server.NewServer(database, cfg, server.NewGormStores(database),
		tokens, storage.Disabled{}, pool, "127.0.0.1", "0")
	RegisterAll(s)
	return s, nil
}
