// Package cache provides the key-value cache used for single-record lookups.
// Entries are derived, time-bounded copies of store records; the backing
// store stays authoritative.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss indicates the key is absent or expired.
var ErrMiss = errors.New("cache: key not found")

// Store abstracts a TTL key-value backend. Implementations are expected to
// be atomic per key.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Key builds the canonical cache key for a record: "{prefix}:{id}".
// Keeping key construction in one place prevents ad-hoc formats from
// spreading through the services.
func Key(prefix string, id uint) string {
	return fmt.Sprintf("%s:%d", prefix, id)
}
