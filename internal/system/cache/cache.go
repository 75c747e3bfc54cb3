// Package cache provides an optional redis-backed cache used by read-heavy
// reporting endpoints. It is never consulted for approval state or
// authorization decisions.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campushr/hr-management-api/internal/system/config"
	"github.com/campushr/hr-management-api/internal/system/log"
)

// Cache wraps a redis client with TTL-based get/set semantics.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Initialize connects to redis when caching is enabled. Returns nil (no
// cache) when disabled, which callers must tolerate.
func Initialize(cfg *config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "Cache"))

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Connected to redis", log.String("address", cfg.Address))

	return &Cache{client: client, ttl: cfg.TTL}, nil
}

// Get returns the cached payload for key, or "" when missing or on error.
func (c *Cache) Get(ctx context.Context, key string) string {
	if c == nil {
		return ""
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores a payload under key with the configured TTL. Errors are logged
// and swallowed; the cache is best-effort.
func (c *Cache) Set(ctx context.Context, key, value string) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		log.GetLogger().Warn("Cache set failed", log.String("key", key), log.Error(err))
	}
}

// Invalidate removes a cached payload.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.GetLogger().Warn("Cache invalidate failed", log.String("key", key), log.Error(err))
	}
}

// Close shuts down the redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
