package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"
)

// userCmd groups the account management subcommands.
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
	Long:  `Manage user accounts and their credentials.`,
	Run:   requireSubcommand,
}

func init() {
	rootCmd.AddCommand(userCmd)
}

func randomPassword() (string, error) {
	bytes := make([]byte, 18)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate password: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}
