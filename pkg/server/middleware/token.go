// Package middleware provides HTTP middleware for bearer token
// authentication and admin authorization.
package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/audit"
	"github.com/eventdeckhq/eventdeck/pkg/auth"
	"github.com/eventdeckhq/eventdeck/pkg/identity"
	"github.com/eventdeckhq/eventdeck/pkg/server/store"
)

// TokenAuthenticator is middleware that validates bearer tokens and loads
// the authenticated user into the request context.
type TokenAuthenticator struct {
	Tokens *auth.TokenService
	Users  store.UsersStore
}

// NewTokenAuthenticator creates a new bearer token authenticator middleware
func NewTokenAuthenticator(tokens *auth.TokenService, users store.UsersStore) *TokenAuthenticator {
	return &TokenAuthenticator{Tokens: tokens, Users: users}
}

// ClientIP extracts the caller address, preferring X-Forwarded-For when a
// proxy filled it in.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware returns an HTTP middleware that validates bearer tokens.
// Rejections carry the WWW-Authenticate header and a JSON detail body.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			unauthorized(w)
			return
		}

		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			unauthorized(w)
			return
		}

		claims, err := a.Tokens.Parse(tokenStr)
		if err != nil {
			unauthorized(w)
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			unauthorized(w)
			return
		}

		user, err := a.Users.UserByID(userID)
		if err != nil {
			// Token is valid but the account is gone
			audit.Log(audit.AuthenticateEvent{
				Email:        claims.Subject,
				ClientIP:     ClientIP(r),
				Success:      false,
				ErrorMessage: "account not found for valid token",
			})
			unauthorized(w)
			return
		}

		var issued, expires time.Time
		if claims.IssuedAt != nil {
			issued = claims.IssuedAt.Time
		}
		if claims.ExpiresAt != nil {
			expires = claims.ExpiresAt.Time
		}

		ident := identity.FromUser(user).
			WithTokenTimes(issued, expires).
			WithRemoteIP(net.ParseIP(ClientIP(r)))

		ctx := identity.Set(r.Context(), ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin returns middleware that rejects non-admin users. It must
// run after the token authenticator.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := identity.Get(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if !ident.IsAdmin() {
			writeDetail(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
