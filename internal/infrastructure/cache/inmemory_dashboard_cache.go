package cache

import (
	"context"
	"sync"
	"time"

	"github.com/smartinventory/backend/internal/domain/report"
)

// InMemoryDashboardCache keeps the dashboard summary in process. It is used
// when Redis is disabled and in tests.
type InMemoryDashboardCache struct {
	mu        sync.RWMutex
	stats     *report.DashboardStats
	expiresAt time.Time
	now       func() time.Time
}

// NewInMemoryDashboardCache creates an empty cache
func NewInMemoryDashboardCache() *InMemoryDashboardCache {
	return &InMemoryDashboardCache{now: time.Now}
}

// Get returns the cached summary until it expires
func (c *InMemoryDashboardCache) Get(_ context.Context) (*report.DashboardStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.stats == nil || !c.now().Before(c.expiresAt) {
		return nil, nil
	}
	stats := *c.stats
	return &stats, nil
}

// Set stores stats for ttl
func (c *InMemoryDashboardCache) Set(_ context.Context, stats report.DashboardStats, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = &stats
	c.expiresAt = c.now().Add(ttl)
	return nil
}

// Ensure InMemoryDashboardCache implements DashboardCache
var _ report.DashboardCache = (*InMemoryDashboardCache)(nil)
