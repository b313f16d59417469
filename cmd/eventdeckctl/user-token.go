package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/config"
	"github.com/eventdeckhq/eventdeck/pkg/db"
	gormstore "github.com/eventdeckhq/eventdeck/pkg/server/store/gorm"
)

// userTokenCmd represents the user token command
var userTokenCmd = &cobra.Command{
	Use:   "token <email>",
	Short: "Issue an access token for a user",
	Long: `Issue a signed API access token for a user.

The token is printed to stdout, ready for use in an Authorization header.
Use --ttl to override the configured token lifetime. The token is only
accepted by servers running with the same SECRET_KEY.

Example:
  eventdeckctl user token admin@admin.com
  eventdeckctl user token reporter@example.com --ttl 15m`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		email := args[0]
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := issueToken(email, ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to issue token for %s: %v\n", email, err)
			os.Exit(1)
		}
		fmt.Println(token)
	},
}

func init() {
	userCmd.AddCommand(userTokenCmd)
	userTokenCmd.Flags().Duration("ttl", 0, "Token lifetime (default: configured ACCESS_TOKEN_EXPIRE_MINUTES)")
}

func issueToken(email string, ttl time.Duration) (string, error) {
	cfg := config.Get()

	database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return "", err
	}
	users := gormstore.NewUsersStore(database)

	user, err := users.UserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", fmt.Errorf("user not found: %s", email)
	}

	tokens := auth.NewTokenService([]byte(cfg.SecretKey), cfg.TokenTTL())
	if ttl > 0 {
		return tokens.IssueWithTTL(user, ttl)
	}
	return tokens.Issue(user)
}
