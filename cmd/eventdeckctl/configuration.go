package main

import (
	"github.com/spf13/cobra"
)

// configurationCmd groups the configuration subcommands.
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Manage Eventdeck configuration",
	Long:  `Manage Eventdeck configuration settings.`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}
