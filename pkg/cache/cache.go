// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]: [NullCache] disables caching,
// [FileCache] keeps entries under the user's cache directory for the CLI,
// and [RedisCache] is shared by server replicas. Keys come from a [Keyer]
// so callers never build them by hand.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}
