package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/identity"
	"github.com/eventdeckhq/eventdeck/pkg/model"
	"github.com/eventdeckhq/eventdeck/pkg/server"
	"github.com/eventdeckhq/eventdeck/pkg/server/middleware"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// RegisterRequest is the body of POST /api/v1/auth/register
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse represents an issued access token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role.String(),
		CreatedAt: user.CreatedAt,
	}
}

// RegisterAuthEndpoints registers the registration, login and identity
// endpoints
func RegisterAuthEndpoints(s *server.Server) {
	usersStore := s.Stores.Users

	// POST /api/v1/auth/register - Create a user account (no auth required)
	s.Router.HandleFunc("/api/v1/auth/register", handleRegister(usersStore)).Methods("POST")

	// POST /api/v1/auth/login - Exchange credentials for a token (no auth required)
	s.Router.HandleFunc("/api/v1/auth/login", handleLogin(usersStore, s.Tokens)).Methods("POST")

	tokenAuth := middleware.NewTokenAuthenticator(s.Tokens, usersStore)

	// GET /api/v1/auth/me - Current authenticated user
	meRouter := s.Router.PathPrefix("/api/v1/auth/me").Subrouter()
	meRouter.Use(tokenAuth.Middleware)
	meRouter.HandleFunc("", handleMe(usersStore)).Methods("GET")
}

func handleRegister(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		if err := validate.Struct(body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}

		hash, err := auth.HashPassword(body.Password)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to register user")
			return
		}

		user := &model.User{
			Email:        strings.ToLower(strings.TrimSpace(body.Email)),
			PasswordHash: hash,
			Role:         model.RoleUser,
		}
		if err := usersStore.CreateUser(user); err != nil {
			if errors.Is(err, store.ErrDuplicateEmail) {
				audit.Log(audit.RegisterEvent{
					Email:        user.Email,
					ClientIP:     middleware.ClientIP(r),
					Success:      false,
					ErrorMessage: "email already registered",
				})
				respondWithError(w, http.StatusConflict, "Email already registered")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to register user")
			return
		}

		audit.Log(audit.RegisterEvent{
			Email:    user.Email,
			UserID:   user.ID,
			ClientIP: middleware.ClientIP(r),
			Success:  true,
		})
		respondWithJSON(w, http.StatusCreated, newUserResponse(user))
	}
}

func handleLogin(usersStore store.UsersStore, tokens *auth.TokenService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, "Invalid request body")
			return
		}
		if err := validate.Struct(body); err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, validationMessage(err))
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))
		clientIP := middleware.ClientIP(r)

		user, err := usersStore.UserByEmail(email)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				audit.Log(audit.AuthenticateEvent{
					Email:        email,
					ClientIP:     clientIP,
					Success:      false,
					ErrorMessage: "unknown email",
				})
				respondWithError(w, http.StatusUnauthorized, "Incorrect email or password")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "Failed to authenticate")
			return
		}

		if !auth.VerifyPassword(body.Password, user.PasswordHash) {
			audit.Log(audit.AuthenticateEvent{
				Email:        email,
				ClientIP:     clientIP,
				Success:      false,
				ErrorMessage: "wrong password",
			})
			respondWithError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		audit.Log(audit.AuthenticateEvent{
			Email:    email,
			ClientIP: clientIP,
			Success:  true,
		})
		respondWithJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
	}
}

func handleMe(usersStore store.UsersStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.Get(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		user, err := usersStore.UserByID(id.UserID)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		respondWithJSON(w, http.StatusOK, newUserResponse(user))
	}
}
