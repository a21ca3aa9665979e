package external

import (
	"context"
	"sync"
	"time"

	"agromonitor.app/internal/ports"
	"agromonitor.app/pkg/errors"
)

// MemoryCacheProvider is a process-local CacheProvider with per-key expiry
type MemoryCacheProvider struct {
	data    map[string]memoryCacheItem
	mutex   sync.RWMutex
	counter hitCounter
	now     func() time.Time
}

type memoryCacheItem struct {
	data      []byte
	expiresAt time.Time
}

func NewMemoryCacheProvider() *MemoryCacheProvider {
	return &MemoryCacheProvider{
		data: make(map[string]memoryCacheItem),
		now:  time.Now,
	}
}

func (c *MemoryCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.RLock()
	item, exists := c.data[key]
	c.mutex.RUnlock()

	if !exists || c.now().After(item.expiresAt) {
		c.counter.recordMiss()
		return nil, errors.NewNotFoundError("cache miss")
	}

	c.counter.recordHit()
	return item.data, nil
}

func (c *MemoryCacheProvider) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := validateEntry(key, value, ttl); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.evictExpired()
	c.data[key] = memoryCacheItem{
		data:      value,
		expiresAt: c.now().Add(ttl),
	}

	return nil
}

func (c *MemoryCacheProvider) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// GetStats returns hit/miss counters for the cache
func (c *MemoryCacheProvider) GetStats() ports.CacheStats {
	return c.counter.stats()
}

// evictExpired drops stale entries; caller holds the write lock
func (c *MemoryCacheProvider) evictExpired() {
	now := c.now()
	for key, item := range c.data {
		if now.After(item.expiresAt) {
			delete(c.data, key)
		}
	}
}

func validateEntry(key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl <= 0 {
		return errors.NewValidationError("cache TTL must be positive")
	}
	return nil
}
