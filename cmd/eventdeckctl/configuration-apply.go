package main

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/config"
)

// configurationApplyCmd represents the configuration apply command
var configurationApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Reload the Eventdeck server to apply new configuration",
	Long: `Validate the current state of the configuration file and then signal the
Eventdeck server to pick up any changes.

Note that this will NOT incorporate changes to environment variables because
Linux process environments are static once a process has started.

Use --test to validate configuration without signalling the server.

Example:
  eventdeckctl configuration apply
  eventdeckctl configuration apply --test`,
	Run: func(cmd *cobra.Command, args []string) {
		testMode, _ := cmd.Flags().GetBool("test")

		if err := applyConfiguration(testMode); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to apply configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationApplyCmd)
	configurationApplyCmd.Flags().Bool("test", false, "Validate configuration without reloading the server")
}

func applyConfiguration(testMode bool) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	fmt.Printf("Config file: %s\n", cfg.ConfigFilePath())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("database_url is not configured, set DATABASE_URL")
	}

	fmt.Println("Configuration is valid.")

	if testMode {
		fmt.Println("Test mode: not reloading server.")
		return nil
	}

	fmt.Println("Sending reload signal to server...")
	return signalServers()
}

// signalServers sends SIGHUP to every running server process, which
// triggers a reload of the file-backed configuration.
func signalServers() error {
	out, err := exec.Command("pgrep", "-f", "eventdeckctl server").Output()
	if err != nil {
		return fmt.Errorf("no running eventdeckctl server found")
	}

	for _, field := range strings.Fields(string(out)) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			return fmt.Errorf("failed to parse pid %q: %w", field, err)
		}

		proc, err := os.FindProcess(pid)
		if err != nil {
			return fmt.Errorf("failed to find process %d: %w", pid, err)
		}
		if err := proc.Signal(syscall.SIGHUP); err != nil {
			return fmt.Errorf("failed to signal process %d: %w", pid, err)
		}
		fmt.Printf("Sent reload signal to process %d\n", pid)
	}

	fmt.Println("Server will reload configuration.")
	return nil
}
