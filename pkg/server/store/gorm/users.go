package gorm

import (
	"gorm.io/gorm"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// CreateUser inserts a new user.
func (s *UsersStore) CreateUser(user *model.User) error {
	tx := s.db.Create(user)
	if tx.Error != nil {
		if isUniqueViolation(tx.Error) {
			return store.ErrDuplicateEmail
		}
		return tx.Error
	}
	return nil
}

// UserByEmail retrieves a user by email.
func (s *UsersStore) UserByEmail(email string) (*model.User, error) {
	var user model.User
	tx := s.db.Where("email = ?", email).First(&user)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// UserByID retrieves a user by primary key.
func (s *UsersStore) UserByID(id int64) (*model.User, error) {
	var user model.User
	tx := s.db.First(&user, id)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return nil, store.ErrUserNotFound
		}
		return nil, tx.Error
	}
	return &user, nil
}

// CountUsers returns the total number of users.
func (s *UsersStore) CountUsers() (int64, error) {
	var count int64
	tx := s.db.Model(&model.User{}).Count(&count)
	return count, tx.Error
}
