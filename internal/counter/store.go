// Package counter abstracts the remote, eventually-consistent counter
// store consumed by the admission guards.
//
// The contract is deliberately read-then-write, not atomic increment: the
// guards tolerate a bounded overshoot under concurrent load from many
// instances, and a store implementation must not be assumed to offer
// anything stronger. Store unavailability is an ordinary error value the
// guards handle by failing open, never an exception path.
package counter

import (
	"context"
	"time"
)

// Store is remote key/value counter storage with per-key expiry.
type Store interface {
	// Get returns the current value for key, or 0 when the key does not
	// exist or has expired.
	Get(ctx context.Context, key string) (int64, error)

	// Set writes value under key with the given expiry. A non-positive ttl
	// means the key does not expire.
	Set(ctx context.Context, key string, value int64, ttl time.Duration) error
}
