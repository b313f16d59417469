package gorm

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

func TestCreateUserDuplicateEmail(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := users.CreateUser(&model.User{Email: "taken@example.com", PasswordHash: "x", Role: model.RoleUser})

	assert.ErrorIs(t, err, store.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WithArgs("missing@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}))

	_, err := users.UserByEmail("missing@example.com")

	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserByIDFound(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "role", "created_at"}).
		AddRow(int64(42), "admin@example.com", "$2a$10$hash", "admin", time.Now())
	mock.ExpectQuery(`SELECT .* FROM "users"`).
		WithArgs(int64(42)).
		WillReturnRows(rows)

	user, err := users.UserByID(42)

	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.True(t, user.IsAdmin())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountUsers(t *testing.T) {
	db, mock := newMockDB(t)
	users := NewUsersStore(db)

	mock.ExpectQuery(`SELECT count`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(3)))

	count, err := users.CountUsers()

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
