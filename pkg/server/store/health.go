package store

import "context"

// HealthStore reports whether the backing database can be reached.
type HealthStore interface {
	// Ping verifies database connectivity.
	Ping(ctx context.Context) error
}
