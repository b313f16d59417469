package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/db"
	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
	gormstore "github.com/eventdeckhq/eventdeck/pkg/server/store/gorm"
)

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create <email>",
	Short: "Create a user account",
	Long: `Create a user account.

The password is taken from --password, or generated randomly and printed
to stdout. Creation is idempotent: if a user with the given email already
exists the command reports it and exits successfully, so it is safe to run
on every deploy to bootstrap the first administrator.

Example:
  eventdeckctl user create admin@admin.com --password admin_password --role admin
  eventdeckctl user create reporter@example.com`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		password, _ := cmd.Flags().GetString("password")
		roleName, _ := cmd.Flags().GetString("role")

		if err := createUser(email, password, roleName); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().String("password", "", "Password for the new user (default: generated)")
	userCreateCmd.Flags().StringP("role", "r", "user", "Role for the new user (user or admin)")
}

func createUser(email, password, roleName string) error {
	role, err := model.RoleString(roleName)
	if err != nil {
		return fmt.Errorf("invalid role %q (expected user or admin)", roleName)
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}
	users := gormstore.NewUsersStore(database)

	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := users.UserByEmail(email)
	if err == nil {
		fmt.Printf("User '%s' already exists (id %d, role %s)\n", existing.Email, existing.ID, existing.Role)
		return nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return err
	}

	generated := false
	if password == "" {
		password, err = randomPassword()
		if err != nil {
			return err
		}
		generated = true
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := users.CreateUser(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Created user '%s' with role %s\n", user.Email, user.Role)
	if generated {
		fmt.Println(password)
	}
	return nil
}
