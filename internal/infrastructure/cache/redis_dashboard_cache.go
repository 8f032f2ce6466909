package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/smartinventory/backend/internal/domain/report"
)

const dashboardKey = "analytics:dashboard"

// RedisDashboardCache stores the dashboard summary as JSON under one key
type RedisDashboardCache struct {
	client redis.UniversalClient
	key    string
}

// NewRedisDashboardCache creates a new RedisDashboardCache
func NewRedisDashboardCache(client redis.UniversalClient) *RedisDashboardCache {
	return &RedisDashboardCache{client: client, key: dashboardKey}
}

// Get returns the cached summary, or nil when nothing is cached
func (c *RedisDashboardCache) Get(ctx context.Context) (*report.DashboardStats, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read dashboard cache: %w", err)
	}
	var stats report.DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode dashboard cache: %w", err)
	}
	return &stats, nil
}

// Set stores stats for ttl
func (c *RedisDashboardCache) Set(ctx context.Context, stats report.DashboardStats, ttl time.Duration) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write dashboard cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summary
func (c *RedisDashboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

// Ensure RedisDashboardCache implements DashboardCache
var _ report.DashboardCache = (*RedisDashboardCache)(nil)
