package cache

import (
	"sync"
	"time"

	"github.com/epeers/marketpulse/internal/models"
)

// MemoryCache provides an in-memory L1 cache for raw price frames and fundamentals
type MemoryCache struct {
	frames          map[string]frameEntry
	fundamentals    map[string]fundamentalsEntry
	frameMu         sync.RWMutex
	fundamentalsMu  sync.RWMutex
	ttl             time.Duration
	fundamentalsTTL time.Duration
	now             func() time.Time
}

type frameEntry struct {
	frame     models.RawFrame
	fetchedAt time.Time
}

type fundamentalsEntry struct {
	fundamentals *models.Fundamentals
	fetchedAt    time.Time
}

// NewMemoryCache creates a new in-memory cache. A ttl of zero disables it.
// Fundamentals move slowly and are kept ten times longer than frames.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		frames:          make(map[string]frameEntry),
		fundamentals:    make(map[string]fundamentalsEntry),
		ttl:             ttl,
		fundamentalsTTL: 10 * ttl,
		now:             time.Now,
	}
}

// frameCacheKey generates a cache key for a price frame
func frameCacheKey(provider, symbol string, startDate, endDate time.Time) string {
	return provider + "|" + symbol + "|" + startDate.Format("2006-01-02") + "|" + endDate.Format("2006-01-02")
}

// GetFrame retrieves a cached frame if fresh
func (c *MemoryCache) GetFrame(provider, symbol string, startDate, endDate time.Time) (models.RawFrame, bool) {
	if c.ttl <= 0 {
		return models.RawFrame{}, false
	}
	c.frameMu.RLock()
	defer c.frameMu.RUnlock()

	entry, exists := c.frames[frameCacheKey(provider, symbol, startDate, endDate)]
	if !exists || c.now().Sub(entry.fetchedAt) > c.ttl {
		return models.RawFrame{}, false
	}
	return entry.frame, true
}

// SetFrame caches a price frame
func (c *MemoryCache) SetFrame(provider, symbol string, startDate, endDate time.Time, frame models.RawFrame) {
	if c.ttl <= 0 {
		return
	}
	c.frameMu.Lock()
	defer c.frameMu.Unlock()

	c.frames[frameCacheKey(provider, symbol, startDate, endDate)] = frameEntry{
		frame:     frame,
		fetchedAt: c.now(),
	}
}

// GetFundamentals retrieves cached fundamentals if fresh
func (c *MemoryCache) GetFundamentals(symbol string) (*models.Fundamentals, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.fundamentalsMu.RLock()
	defer c.fundamentalsMu.RUnlock()

	entry, exists := c.fundamentals[symbol]
	if !exists || c.now().Sub(entry.fetchedAt) > c.fundamentalsTTL {
		return nil, false
	}
	return entry.fundamentals, true
}

// SetFundamentals caches fundamentals for a symbol
func (c *MemoryCache) SetFundamentals(symbol string, f *models.Fundamentals) {
	if c.ttl <= 0 {
		return
	}
	c.fundamentalsMu.Lock()
	defer c.fundamentalsMu.Unlock()

	c.fundamentals[symbol] = fundamentalsEntry{
		fundamentals: f,
		fetchedAt:    c.now(),
	}
}

// Prune drops expired entries and returns how many were removed
func (c *MemoryCache) Prune() int {
	now := c.now()
	removed := 0

	c.frameMu.Lock()
	for k, e := range c.frames {
		if now.Sub(e.fetchedAt) > c.ttl {
			delete(c.frames, k)
			removed++
		}
	}
	c.frameMu.Unlock()

	c.fundamentalsMu.Lock()
	for k, e := range c.fundamentals {
		if now.Sub(e.fetchedAt) > c.fundamentalsTTL {
			delete(c.fundamentals, k)
			removed++
		}
	}
	c.fundamentalsMu.Unlock()

	return removed
}

// Clear removes all cached data
func (c *MemoryCache) Clear() {
	c.frameMu.Lock()
	c.frames = make(map[string]frameEntry)
	c.frameMu.Unlock()

	c.fundamentalsMu.Lock()
	c.fundamentals = make(map[string]fundamentalsEntry)
	c.fundamentalsMu.Unlock()
}
