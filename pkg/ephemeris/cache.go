package ephemeris

import (
	"sync"
	"time"
)

// sampleCache memoizes illumination by instant (Unix nanoseconds).
type sampleCache struct {
	mu      sync.RWMutex
	samples map[int64]float64
}

func newSampleCache() *sampleCache {
	return &sampleCache{samples: make(map[int64]float64)}
}

func (c *sampleCache) get(t time.Time) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	f, ok := c.samples[t.UnixNano()]
	return f, ok
}

func (c *sampleCache) put(t time.Time, f float64) {
	c.mu.Lock()
	c.samples[t.UnixNano()] = f
	c.mu.Unlock()
}

// Len returns the number of memoized instants.
func (c *sampleCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.samples)
}
