package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/db"
	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// userResetPasswordCmd represents the user reset-password command
var userResetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Reset a user's password",
	Long: `Reset the password for a user account.

The new password is taken from --password, or generated randomly and printed
to stdout.

Example:
  eventdeckctl user reset-password admin@admin.com
  eventdeckctl user reset-password admin@admin.com --password n3w-passw0rd`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, _ := cmd.Flags().GetString("password")

		generated, err := resetPassword(email, password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reset password for %s: %v\n", email, err)
			os.Exit(1)
		}
		if generated != "" {
			fmt.Println(generated)
		}
	},
}

func init() {
	userCmd.AddCommand(userResetPasswordCmd)
	userResetPasswordCmd.Flags().String("password", "", "New password (default: generated)")
}

// resetPassword updates the user's password hash and returns the new
// password when it was generated rather than supplied.
func resetPassword(email, password string) (string, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return "", err
	}

	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := database.Where("email = ?", email).First(&user).Error; err != nil {
		return "", fmt.Errorf("user not found: %s", email)
	}

	generated := ""
	if password == "" {
		password, err = randomPassword()
		if err != nil {
			return "", err
		}
		generated = password
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	if err := database.Model(&user).Update("password_hash", hash).Error; err != nil {
		return "", fmt.Errorf("failed to update password: %w", err)
	}

	audit.Log(audit.PasswordEvent{
		Email:   user.Email,
		UserID:  user.ID,
		Success: true,
	})

	fmt.Fprintf(os.Stderr, "Password reset for '%s'\n", user.Email)
	return generated, nil
}
