package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. Implementations are advisory:
// callers must treat every error as a miss and fall through to the source
// of truth.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns false on a miss; dest is untouched in that case.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
