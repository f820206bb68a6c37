package cache

import (
	"context"
	"time"
)

// Cache stores raw remote responses keyed by the full request parameters.
// Entries are immutable once written and evicted purely by TTL, so sharing
// one cache across sessions needs no coordination beyond the implementation's
// own locking.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}
