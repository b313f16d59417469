package store

import (
	"errors"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// ErrUserNotFound is returned when a user doesn't exist
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when the email is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// UsersStore abstracts user account storage operations
type UsersStore interface {
	// CreateUser inserts a new user.
	// Returns ErrDuplicateEmail if the email is taken.
	CreateUser(user *model.User) error

	// UserByEmail retrieves a user by email.
	// Returns ErrUserNotFound if no such user exists.
	UserByEmail(email string) (*model.User, error)

	// UserByID retrieves a user by primary key.
	// Returns ErrUserNotFound if no such user exists.
	UserByID(id int64) (*model.User, error)

	// CountUsers returns the total number of users.
	CountUsers() (int64, error)
}
