package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are located in the db/migrations directory.

Example:
  eventdeckctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runMigrations(); err != nil {
			fmt.Println("Migration failed:", err)
			os.Exit(1)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "migrate-down",
	Short: "Roll back database migrations",
	Long: `Roll back database migrations.

This command rolls back the given number of migrations (default: 1).

Example:
  eventdeckctl db migrate-down            # Roll back 1 migration
  eventdeckctl db migrate-down --steps 3  # Roll back 3 migrations`,
	Run: func(cmd *cobra.Command, args []string) {
		steps, _ := cmd.Flags().GetInt("steps")

		if err := runMigrationsDown(steps); err != nil {
			fmt.Println("Rollback failed:", err)
			os.Exit(1)
		}
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version and any pending migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := showMigrationStatus(); err != nil {
			fmt.Println("Failed to get status:", err)
			os.Exit(1)
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbStatusCmd)

	dbMigrateDownCmd.Flags().Int("steps", 1, "Number of migrations to roll back")
}

// migrationsDSN returns the configured database URL with a dedicated
// migrations table parameter, keeping golang-migrate's bookkeeping
// namespaced in shared databases
func migrationsDSN() (string, error) {
	dbURL := db.URL()
	if dbURL == "" {
		return "", fmt.Errorf("database_url is not configured, set DATABASE_URL")
	}
	if strings.Contains(dbURL, "?") {
		return dbURL + "&x-migrations-table=eventdeck_schema_migrations", nil
	}
	return dbURL + "?x-migrations-table=eventdeck_schema_migrations", nil
}

func runMigrations() error {
	dsn, err := migrationsDSN()
	if err != nil {
		return err
	}

	m, err := createMigrateInstance(dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, _ := m.Version()
	fmt.Printf("Current version: %d (dirty: %v)\n", version, dirty)

	if err := m.Up(); err != nil {
		if err == migrate.ErrNoChange {
			fmt.Println("No migrations to run - database is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, _ := m.Version()
	fmt.Printf("Migrated to version: %d\n", newVersion)

	fmt.Println("Migrations complete")
	return nil
}

func runMigrationsDown(steps int) error {
	dsn, err := migrationsDSN()
	if err != nil {
		return err
	}

	m, err := createMigrateInstance(dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	fmt.Printf("Rolling back %d migration(s)...\n", steps)

	if err := m.Steps(-steps); err != nil {
		return fmt.Errorf("rollback failed: %w", err)
	}

	version, _, _ := m.Version()
	fmt.Printf("Rolled back to version: %d\n", version)
	return nil
}

func showMigrationStatus() error {
	dsn, err := migrationsDSN()
	if err != nil {
		return err
	}

	m, err := createMigrateInstance(dsn)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		if err == migrate.ErrNilVersion {
			fmt.Println("No migrations have been applied yet")
			return nil
		}
		return err
	}

	fmt.Printf("Current version: %d\n", version)
	if dirty {
		fmt.Println("Warning: Database is in a dirty state")
	}

	files, err := listMigrationFiles()
	if err != nil {
		return fmt.Errorf("failed to list migration files: %w", err)
	}

	pending := 0
	for _, basename := range files {
		// Extract the version number from the filename
		// (e.g. "20250301100001_create_countries.up.sql" -> 20250301100001)
		parts := strings.SplitN(basename, "_", 2)
		if len(parts) < 2 {
			continue
		}

		var fileVersion uint
		_, _ = fmt.Sscanf(parts[0], "%d", &fileVersion)

		if fileVersion > version {
			pending++
		}
	}
	if pending > 0 {
		fmt.Printf("%d migration(s) pending\n", pending)
	}
	return nil
}
