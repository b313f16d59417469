package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/db"
	"github.com/eventdeckhq/eventdeck/pkg/seed"
)

// seedLoadCmd represents the seed load command
var seedLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Load a seed file",
	Long: `Load a YAML seed file into the database.

This command parses the seed YAML and creates the countries, cities,
organizers and tags it declares. Loading is idempotent: rows that already
exist are left untouched.

Use --dry-run to validate the file without writing anything.

Example:
  eventdeckctl seed load seeds/reference.yml
  eventdeckctl seed load --dry-run seeds/reference.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		result, err := loadSeedFile(filename, dryRun)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load seed file: %v\n", err)
			os.Exit(1)
		}

		// Output per-entity counts as JSON
		output, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(output))
	},
}

func init() {
	seedCmd.AddCommand(seedLoadCmd)
	seedLoadCmd.Flags().Bool("dry-run", false, "Validate the seed file without writing to the database")
}

func loadSeedFile(filename string, dryRun bool) (*seed.LoadResult, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer func() { _ = file.Close() }()

	loader := seed.NewLoader(database).WithDryRun(dryRun)
	result, err := loader.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load seed data: %w", err)
	}

	if dryRun {
		fmt.Printf("Seed file '%s' is valid (dry run, nothing written)\n", filename)
	} else {
		fmt.Printf("Seed data loaded from '%s'\n", filename)
		if result.Total() > 0 {
			fmt.Printf("Created %d row(s)\n", result.Total())
		}
	}

	return result, nil
}
