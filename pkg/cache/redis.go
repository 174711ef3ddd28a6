package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/shashiranjanraj/inventory/pkg/logger"
)

// RedisStore is a Store backed by Redis. Calls go through a circuit breaker
// so a dead Redis degrades to cache misses instead of slowing every request.
type RedisStore struct {
	rdb *redis.Client
	cb  *gobreaker.CircuitBreaker
}

func NewRedisStore(addr, password string) *RedisStore {
	return newRedisStore(redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	}), breakerSettings())
}

func newRedisStore(rdb *redis.Client, settings gobreaker.Settings) *RedisStore {
	return &RedisStore{rdb: rdb, cb: gobreaker.NewCircuitBreaker(settings)}
}

func breakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "redis",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache: circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
		// A missing key is a normal answer, not a Redis failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
	}
}

// Ping verifies the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }

// State exposes the breaker state for health reporting.
func (s *RedisStore) State() gobreaker.State { return s.cb.State() }

func (s *RedisStore) Get(ctx context.Context, key string, dest interface{}) bool {
	val, err := s.cb.Execute(func() (interface{}, error) {
		return s.rdb.Get(ctx, key).Bytes()
	})
	if err != nil {
		return hit("redis", false)
	}
	return hit("redis", json.Unmarshal(val.([]byte), dest) == nil)
}

func (s *RedisStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl < 0 {
		ttl = 0
	}

	_, err = s.cb.Execute(func() (interface{}, error) {
		return nil, s.rdb.Set(ctx, key, data, ttl).Err()
	})
	return err
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.rdb.Del(ctx, keys...).Err()
	})
	return err
}
