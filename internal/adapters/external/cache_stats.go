package external

import (
	"sync"
	"time"

	"agromonitor.app/internal/ports"
)

// hitCounter tracks cache hits and misses for the CacheMetrics port
type hitCounter struct {
	mutex  sync.RWMutex
	hits   int64
	misses int64
}

func (c *hitCounter) recordHit() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.hits++
}

func (c *hitCounter) recordMiss() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.misses++
}

func (c *hitCounter) stats() ports.CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	total := c.hits + c.misses
	hitRatio := float64(0)
	if total > 0 {
		hitRatio = float64(c.hits) / float64(total)
	}

	return ports.CacheStats{
		Hits:        c.hits,
		Misses:      c.misses,
		TotalOps:    total,
		HitRatio:    hitRatio,
		LastUpdated: time.Now(),
	}
}
