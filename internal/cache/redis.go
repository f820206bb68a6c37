package cache

import (
	"context"
	"errors"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"
)

// Redis backs the response cache with a Redis instance so several server
// processes can share one quota-saving cache. Expiration rides on Redis
// key TTLs.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing Redis client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get retrieves a value; a missing key or any transport error reads as a
// cache miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[WARN] redis get failed for %q: %v", key, err)
		}
		return nil, false
	}
	return val, true
}

// Set stores a value with the given TTL. Failures are logged and swallowed;
// the cache is an optimization, not a correctness requirement.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Printf("[WARN] redis set failed for %q: %v", key, err)
	}
}

// Close releases the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}
