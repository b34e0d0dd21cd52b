package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
)

const defaultEntryTTL = time.Hour

var noOpLogger = zap.NewNop()

// ViewConfig configures the cache gate shared by the resource services.
type ViewConfig struct {
	Store   Store
	Enabled bool
	TTL     time.Duration
	Logger  *zap.Logger
}

// View is the single gate for the cache-enabled flag. Services call its
// methods unconditionally; when the view is disabled every method is a no-op,
// so the enable/disable branch exists in exactly one place.
//
// Cache failures never fail the surrounding operation: a read failure is a
// miss, a write or delete failure is logged and swallowed. The store read
// fallback always exists.
type View struct {
	store   Store
	enabled bool
	ttl     time.Duration
	logger  *zap.Logger
}

// NewView constructs a View. A disabled view needs no store.
func NewView(cfg ViewConfig) *View {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultEntryTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	enabled := cfg.Enabled && cfg.Store != nil
	return &View{
		store:   cfg.Store,
		enabled: enabled,
		ttl:     ttl,
		logger:  logger,
	}
}

// GetRecord loads and deserializes the cached record for key into dest.
// It reports whether a usable entry was found.
func (v *View) GetRecord(ctx context.Context, key string, dest interface{}) bool {
	if !v.enabled {
		return false
	}
	raw, err := v.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			v.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		v.logger.Warn("cache entry decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// PutRecord serializes record and replaces the entry for key wholesale.
// Entries are never merged; the stored value is always the full record.
func (v *View) PutRecord(ctx context.Context, key string, record interface{}) {
	if !v.enabled {
		return
	}
	raw, err := json.Marshal(record)
	if err != nil {
		v.logger.Warn("cache entry encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := v.store.Set(ctx, key, raw, v.ttl); err != nil {
		v.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// DropRecord evicts the entry for key.
func (v *View) DropRecord(ctx context.Context, key string) {
	if !v.enabled {
		return
	}
	if err := v.store.Delete(ctx, key); err != nil {
		v.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
	}
}
