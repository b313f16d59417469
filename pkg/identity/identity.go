package identity

import (
	"context"
	"net"
	"time"

	"github.com/eventdeckhq/eventdeck/pkg/model"
)

// ctxKey is unexported so only Set can install an identity.
type ctxKey struct{}

// Identity is the per-request view of the authenticated caller: the account
// the token subject resolved to plus request-specific details. Handlers and
// audit events consume it instead of re-parsing the token.
type Identity struct {
	UserID int64
	Email  string
	Role   model.Role

	// Validity window of the presented token
	IssuedAt  time.Time
	ExpiresAt time.Time

	// Where the request came from
	RemoteIP net.IP
}

// FromUser builds an Identity for the user a token subject resolved to.
func FromUser(user *model.User) *Identity {
	return &Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	}
}

// WithTokenTimes records the token validity window.
func (i *Identity) WithTokenTimes(issuedAt, expiresAt time.Time) *Identity {
	i.IssuedAt = issuedAt
	i.ExpiresAt = expiresAt
	return i
}

// WithRemoteIP records the client address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// IsAdmin reports whether the identity may manage events, organizers and tags.
func (i *Identity) IsAdmin() bool {
	return i.Role == model.RoleAdmin
}

// Set returns a context carrying the identity.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Get returns the identity installed by Set, if any.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok
}
