package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garrison/asset-ledger/pkg/logger"
)

// NewRedisClient connects to Redis. Returns nil when the address is empty or
// the server is unreachable; callers treat a nil client as "caching disabled".
func NewRedisClient(addr string) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("addr", addr).
			Msg("Redis unavailable, caching disabled")
		return nil
	}

	logger.Logger.Info().Str("addr", addr).Msg("Redis cache connected")
	return client
}

// ReportCache is a JSON cache-aside helper for derived reports. All methods
// are no-ops when the underlying client is nil, so callers never need to
// branch on cache availability.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a report cache with the given TTL.
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Get loads a cached report into dest. Returns false on miss, disabled cache,
// or decode failure.
func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.Logger.Warn().Err(err).Str("key", key).Msg("Failed to decode cached report")
		return false
	}
	return true
}

// Set stores a report under the cache TTL. Failures are logged, never
// surfaced; the cache is an optimization only.
func (c *ReportCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.Logger.Warn().Err(err).Str("key", key).Msg("Failed to encode report for cache")
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("key", key).Msg("Failed to cache report")
	}
}

// InvalidatePrefix drops every key under a prefix. Called after each commit
// so dashboards never serve a report older than the TTL allows.
func (c *ReportCache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.client == nil {
		return
	}
	keys, err := c.client.Keys(ctx, prefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("prefix", prefix).Msg("Failed to invalidate cached reports")
	}
}
