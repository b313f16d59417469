package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags "-X main.version=...".
var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "eventdeckctl",
	Short: "Eventdeck server and administration tool",
	Long: `eventdeckctl runs the Eventdeck API server and provides the operational
commands around it: database migrations, user management, seed data,
configuration and backups.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// requireSubcommand exits with the group's help text when a grouping
// command is invoked without a subcommand.
func requireSubcommand(cmd *cobra.Command, args []string) {
	fmt.Fprintf(os.Stderr, "error: %q requires a subcommand\n\n", cmd.CommandPath())
	_ = cmd.Help()
	os.Exit(1)
}

func main() {
	Execute()
}
