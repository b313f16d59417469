//go:build !embed_migrations

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationsDir resolves the on-disk migrations directory. Development
// builds read SQL straight from the working tree; EVENTDECK_MIGRATIONS_DIR
// points elsewhere when running outside a checkout.
func migrationsDir() string {
	if dir := os.Getenv("EVENTDECK_MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	return "db/migrations"
}

func createMigrateInstance(dbURL string) (*migrate.Migrate, error) {
	dir := migrationsDir()
	fmt.Printf("Running migrations from file://%s\n", dir)
	return migrate.New("file://"+dir, dbURL)
}

func listMigrationFiles() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(migrationsDir(), "*.up.sql"))
	if err != nil {
		return nil, fmt.Errorf("failed to list migrations: %w", err)
	}

	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Base(match))
	}
	return files, nil
}
