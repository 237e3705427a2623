// Package cache stores extracted editorials keyed by problem identity.
// Backends are interchangeable byte stores; EditorialCache layers the
// editorial wire format and expiry on top of any of them.
package cache

import (
	"context"
	"time"
)

// Backend is a byte-oriented key/value store. Implementations must be safe
// for concurrent use.
type Backend interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A ttl of zero means no backend expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every entry owned by this cache.
	Clear(ctx context.Context) error

	Close() error
}
