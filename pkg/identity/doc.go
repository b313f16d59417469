// Package identity carries the authenticated caller through a request.
//
// The token middleware resolves a bearer token to a user, wraps it in an
// Identity and installs it on the request context. Downstream handlers and
// audit events read it back with Get instead of re-parsing the token:
//
//	id := identity.FromUser(user).
//		WithTokenTimes(claims.IssuedAt.Time, claims.ExpiresAt.Time).
//		WithRemoteIP(clientIP)
//	ctx = identity.Set(ctx, id)
//
//	// later, in a handler
//	id, ok := identity.Get(r.Context())
//
// The context key is unexported, so an Identity only enters a context
// through Set.
package identity
