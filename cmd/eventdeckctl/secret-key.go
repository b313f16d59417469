package main

import (
	"github.com/spf13/cobra"
)

// secretKeyCmd groups the token-signing key subcommands.
var secretKeyCmd = &cobra.Command{
	Use:   "secret-key",
	Short: "Manage the token-signing secret key",
	Long:  `Manage the token-signing secret key`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(secretKeyCmd)
}
