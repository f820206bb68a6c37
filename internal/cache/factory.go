package cache

import (
	"context"
	"time"

	log "github.com/go-pkgz/lgr"
	"github.com/redis/go-redis/v9"

	"github.com/seojun-park/naverboard/internal/config"
)

// New builds the response cache from config: Redis when configured and
// reachable, otherwise the in-process memory cache. The returned closer
// releases whichever backend was chosen.
func New(cfg *config.Config) (Cache, func()) {
	if cfg.CacheBackend == "redis" && cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[WARN] redis %s unreachable (%v), falling back to memory cache", cfg.RedisAddr, err)
			_ = client.Close()
		} else {
			log.Printf("[INFO] using redis response cache at %s", cfg.RedisAddr)
			r := NewRedis(client)
			return r, func() { _ = r.Close() }
		}
	}

	log.Printf("[INFO] using in-memory response cache")
	m := NewMemory(DefaultMemoryConfig())
	return m, m.Close
}
