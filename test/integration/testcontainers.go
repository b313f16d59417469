package integration

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/endpoints"
	"github.com/eventdeckhq/eventdeck/pkg/storage"
	"github.com/eventdeckhq/eventdeck/pkg/worker"
)

// testSecretKey signs the tokens issued by the in-process server. Binary
// mode passes the same value through the SECRET_KEY environment variable.
const testSecretKey = "integration-test-secret-key"

// testServerPort is fixed so the feature files can assume a stable URL.
const testServerPort = "18080"

// launchMode selects how the server under test is started.
type launchMode int

const (
	// modeBinary runs a compiled eventdeckctl named by EVENTDECK_BINARY.
	modeBinary launchMode = iota
	// modeInline runs the server in-process, selected with EVENTDECK_INLINE=1.
	modeInline
)

// TestContext owns the Postgres container and the server under test for a
// feature run. Step definitions reach the system through DB for seeding and
// assertions and through HTTPClient/ServerURL for requests.
type TestContext struct {
	DB          *gorm.DB
	DatabaseURL string
	ServerURL   string
	HTTPClient  *http.Client

	// teardown steps accumulated during setup, run in reverse by Close
	cleanup []func(context.Context)
}

func (tc *TestContext) onClose(fn func(context.Context)) {
	tc.cleanup = append(tc.cleanup, fn)
}

// Close releases everything NewTestContext started, newest first, so the
// server goes down before its database.
func (tc *TestContext) Close(ctx context.Context) {
	for i := len(tc.cleanup) - 1; i >= 0; i-- {
		tc.cleanup[i](ctx)
	}
	tc.cleanup = nil
}

// NewTestContext provisions a throwaway Postgres container, migrates it and
// boots an eventdeck server against it.
//
// Two launch modes are supported:
//
//	EVENTDECK_BINARY=/path/to/eventdeckctl   run the compiled CLI
//	EVENTDECK_INLINE=1                       run the server in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	mode, binaryPath, err := resolveLaunchMode()
	if err != nil {
		return nil, err
	}

	tc := &TestContext{
		ServerURL:  "http://127.0.0.1:" + testServerPort,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}

	if err := tc.startPostgres(ctx); err != nil {
		tc.Close(ctx)
		return nil, err
	}

	root, err := projectRoot()
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}
	if err := applyMigrations(filepath.Join(root, "db", "migrations"), tc.DatabaseURL); err != nil {
		tc.Close(ctx)
		return nil, fmt.Errorf("migrating test database: %w", err)
	}

	switch mode {
	case modeInline:
		err = tc.startInline()
	case modeBinary:
		err = tc.startBinary(binaryPath)
	}
	if err != nil {
		tc.Close(ctx)
		return nil, err
	}

	if err := waitUntilReady(tc.ServerURL, 30*time.Second); err != nil {
		tc.Close(ctx)
		return nil, err
	}
	return tc, nil
}

// resolveLaunchMode reads the launch mode from the environment.
func resolveLaunchMode() (launchMode, string, error) {
	if os.Getenv("EVENTDECK_INLINE") == "1" {
		log.Println("Running server in-process")
		return modeInline, "", nil
	}
	binaryPath := os.Getenv("EVENTDECK_BINARY")
	if binaryPath == "" {
		return 0, "", fmt.Errorf("set EVENTDECK_BINARY to a compiled eventdeckctl, or EVENTDECK_INLINE=1 to run the server in-process:\n\n" +
			"  go build -o eventdeckctl ./cmd/eventdeckctl\n" +
			"  INTEGRATION_TEST=1 EVENTDECK_BINARY=$(pwd)/eventdeckctl go test -v ./test/integration/...\n\n" +
			"  INTEGRATION_TEST=1 EVENTDECK_INLINE=1 go test -v ./test/integration/...")
	}
	if _, err := os.Stat(binaryPath); err != nil {
		return 0, "", fmt.Errorf("EVENTDECK_BINARY: %w", err)
	}
	log.Printf("Running server binary %s", binaryPath)
	return modeBinary, binaryPath, nil
}

// startPostgres boots a postgres container and opens the GORM handle the
// step definitions use.
func (tc *TestContext) startPostgres(ctx context.Context) error {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("eventdeck_test"),
		tcpostgres.WithUsername("eventdeck"),
		tcpostgres.WithPassword("eventdeck"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return fmt.Errorf("starting postgres container: %w", err)
	}
	tc.onClose(func(ctx context.Context) { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	if err != nil {
		return fmt.Errorf("resolving container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return fmt.Errorf("resolving container port: %w", err)
	}
	tc.DatabaseURL = fmt.Sprintf("postgres://eventdeck:eventdeck@%s:%s/eventdeck_test?sslmode=disable", host, port.Port())

	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  tc.DatabaseURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connecting to test database: %w", err)
	}
	tc.DB = gdb

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("unwrapping sql.DB: %w", err)
	}
	tc.onClose(func(context.Context) { _ = sqlDB.Close() })
	return nil
}

// startInline wires a server from the same building blocks the CLI uses and
// serves it on a goroutine. Image uploads are covered by unit tests, so the
// features run without object storage.
func (tc *TestContext) startInline() error {
	cfg := &config.EventdeckConfig{
		DatabaseURL:              tc.DatabaseURL,
		SecretKey:                testSecretKey,
		AccessTokenExpireMinutes: 60,
		Workers:                  2,
		CORSAllowedOrigins:       []string{"*"},
	}
	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL())

	pool := worker.NewPool(cfg.Workers)
	pool.Start()
	tc.onClose(func(context.Context) { pool.Stop() })

	s := server.NewServer(tc.DB, cfg, server.NewGormStores(tc.DB),
		tokens, storage.Disabled{}, pool, "127.0.0.1", testServerPort)
	endpoints.RegisterAll(s)

	go func() { _ = s.Start() }()
	tc.onClose(func(ctx context.Context) {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	})
	return nil
}

// startBinary launches eventdeckctl server as a child process. Migrations
// already ran in setup, hence --no-migrate.
func (tc *TestContext) startBinary(binaryPath string) error {
	cmd := exec.Command(binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", testServerPort)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+tc.DatabaseURL,
		"SECRET_KEY="+testSecretKey,
		"WORKERS=2",
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", binaryPath, err)
	}
	tc.onClose(func(context.Context) {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return nil
}

// waitUntilReady polls the readiness endpoint until the server answers 200,
// which also proves it can reach the database.
func waitUntilReady(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/health")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not ready after %v", timeout)
}

// projectRoot walks up from the working directory to the module root, so the
// suite finds db/migrations no matter where go test was invoked from.
func projectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found above %s", dir)
		}
		dir = parent
	}
}

// applyMigrations brings the test database to the current schema using the
// same source and bookkeeping table the server uses on startup.
func applyMigrations(migrationsDir, dbURL string) error {
	m, err := migrate.New("file://"+migrationsDir, dbURL+"&x-migrations-table=eventdeck_schema_migrations")
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
