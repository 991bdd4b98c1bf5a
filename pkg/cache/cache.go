// Package cache provides caching for computed layout sets.
//
// Enumerating hundreds of grid layouts for a large element set is the
// expensive half of a generation run; rendering the same layouts under
// different cosmetics is cheap. Caching the serialized layout set lets
// repeated runs over the same elements and placement knobs skip straight
// to rendering.
//
// Backends:
//   - file: Sharded JSON files in a directory, for CLI usage
//   - redis: Shared cache for server deployments
//   - null: Disables caching
//
// Keys are generated by a [Keyer] so every knob that changes enumeration
// output is part of the identity; see [LayoutKeyOpts].
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long cached layout sets stay valid.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is the interface for cache backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found
	// and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL stores without
	// expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
