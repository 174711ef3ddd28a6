// Package cache provides the read-through cache used for product lookups.
// Values are stored JSON-encoded so the in-memory and Redis stores behave
// the same way.
//
//	var p models.Product
//	if store.Get(ctx, key, &p) { return &p, nil }
//	...
//	_ = store.Set(ctx, key, p, config.CacheTTL())
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/inventory/config"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// Store is a cache backend. Get reports a hit; every failure is a miss.
type Store interface {
	Get(ctx context.Context, key string, dest interface{}) bool
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// New builds the store selected by CACHE_DRIVER. A Redis store that cannot
// be reached at startup falls back to memory.
func New(ctx context.Context) Store {
	if config.CacheDriver() != "redis" {
		return NewMemoryStore()
	}

	rs := NewRedisStore(config.RedisAddr(), config.RedisPassword())
	if err := rs.Ping(ctx); err != nil {
		logger.Warn("cache: redis unavailable, using memory", "error", err)
		_ = rs.Close()
		return NewMemoryStore()
	}
	return rs
}

// ProductKey is the cache key for one product.
func ProductKey(sku int64) string {
	return fmt.Sprintf("product:%d", sku)
}

func hit(driver string, ok bool) bool {
	if ok {
		metrics.CacheHits.WithLabelValues(driver).Inc()
	} else {
		metrics.CacheMisses.WithLabelValues(driver).Inc()
	}
	return ok
}
