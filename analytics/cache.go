package analytics

import (
	"context"
	"sync"
	"time"
)

// Counter is the read side StatsCache wraps.
type Counter interface {
	CountByPage(ctx context.Context) ([]PageCount, error)
}

// StatsCache keeps per-page counts in memory for ttl.
type StatsCache struct {
	mu      sync.RWMutex
	counts  []PageCount
	fetched time.Time
	ttl     time.Duration
	src     Counter
}

func NewStatsCache(src Counter, ttl time.Duration) *StatsCache {
	return &StatsCache{src: src, ttl: ttl}
}

func (c *StatsCache) valid() bool {
	return c.counts != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read reloads.
func (c *StatsCache) Invalidate() {
	c.mu.Lock()
	c.counts = nil
	c.mu.Unlock()
}

// Counts returns cached counts, reloading when stale. It tries a read lock
// first and only takes the write lock when a reload is needed.
func (c *StatsCache) Counts(ctx context.Context) ([]PageCount, error) {
	c.mu.RLock()
	if c.valid() {
		counts := c.counts
		c.mu.RUnlock()
		return counts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.counts, nil
	}
	counts, err := c.src.CountByPage(ctx)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []PageCount{}
	}
	c.counts = counts
	c.fetched = time.Now()
	return counts, nil
}
