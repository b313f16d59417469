package main

import (
	"github.com/spf13/cobra"
)

// dbCmd groups the schema management subcommands.
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and migrations.`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
