// Package cache stores serialized analysis reports in Redis so repeated
// tool calls with the same options within a gameweek skip the recompute.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportTTL bounds how stale a cached report may get. Raw data refreshes at
// most a few times per day, so an hour is plenty.
const ReportTTL = time.Hour

// ReportCache is nil-safe: a nil cache (no Redis configured) disables
// caching without any call-site branching.
type ReportCache struct {
	client *redis.Client
}

func New(addr string) *ReportCache {
	if addr == "" {
		return nil
	}
	return &ReportCache{client: redis.NewClient(&redis.Options{Addr: addr})}
}

// Key builds the cache key for one analysis configuration.
func Key(gw, window int, budget float64, maxPerClub, maxRisk int) string {
	return fmt.Sprintf("report:gw%d:w%d:b%.1f:club%d:risk%d", gw, window, budget, maxPerClub, maxRisk)
}

// Get returns the cached report bytes, or false on miss or any Redis error.
func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the report bytes with the standard TTL. Errors are returned so
// the caller can log them, but a failed write never fails the request.
func (c *ReportCache) Set(ctx context.Context, key string, data []byte) error {
	if c == nil {
		return nil
	}
	return c.client.Set(ctx, key, data, ReportTTL).Err()
}

// Ping verifies the Redis connection at startup.
func (c *ReportCache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}
