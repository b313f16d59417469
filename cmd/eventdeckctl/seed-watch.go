package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/db"
	"github.com/eventdeckhq/eventdeck/pkg/seed"
)

// seedWatchCmd represents the seed watch command
var seedWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a seed file and reload it when it changes",
	Long: `Watch a seed file and reload it when it changes.

The reference data is reloaded every time the file is written. Loading is
idempotent, so repeated reloads only create the rows that are missing.

Example:
  eventdeckctl seed watch seeds/reference.yml`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		if err := watchSeedFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch seed file: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	seedCmd.AddCommand(seedWatchCmd)
}

func watchSeedFile(filename string) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	loader := seed.NewLoader(database)

	// Create file watcher
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Add file to watcher
	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for seed data changes\n", filename)

	// Handle signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] File modified, reloading seed data...\n", time.Now().Format(time.RFC3339))

				result, err := loader.LoadFromFile(filename)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error loading seed data: %v\n", err)
					continue
				}
				fmt.Printf("Seed data reloaded, %d row(s) created\n", result.Total())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}
