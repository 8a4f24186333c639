package repository

import (
	"context"
	"time"
)

// KVStore abstracts the ephemeral key-value store that backs pairings.
// Implementations: Redis (production) or in-memory (local dev / tests).
//
// A missing key is reported as a nil value, never an error. Expiry is
// enforced entirely by the store; callers only attach TTLs to writes.
type KVStore interface {
	// Set writes the key with the given TTL, overwriting any prior value.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX writes the key only if it is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// GetDel reads and deletes the key as one atomic step.
	GetDel(ctx context.Context, key string) ([]byte, error)
	// GetAndConsume reads getKey and read-deletes consumeKey in a single
	// atomic round trip: once it returns a value for consumeKey, no other
	// caller can observe that value.
	GetAndConsume(ctx context.Context, getKey, consumeKey string) (got, consumed []byte, err error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Expire refreshes the TTL of an existing key. Missing keys are a no-op.
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Ping(ctx context.Context) error
}
