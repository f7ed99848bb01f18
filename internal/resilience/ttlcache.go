// Package resilience provides TTL memoization.
package resilience

import (
	"sync"
	"time"
)

type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// TTLCache is an expiring key-value store for read-path memoization.
// An entry is logically absent once expired even while still stored;
// PurgeExpired removes such entries eagerly. Safe for concurrent use.
type TTLCache struct {
	mu         sync.Mutex
	entries    map[string]cacheEntry
	order      *orderedKeys
	maxEntries int
	now        func() time.Time
}

// NewTTLCache constructs a cache. maxEntries <= 0 means unbounded.
func NewTTLCache(maxEntries int) *TTLCache {
	return &TTLCache{
		entries:    make(map[string]cacheEntry),
		order:      newOrderedKeys(),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the value for key, treating expired entries as absent.
func (c *TTLCache) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, key)
		c.order.remove(key)
		return nil, false
	}
	return entry.value, true
}

// Set stores or overwrites key with a fresh expiry, evicting the
// oldest-inserted entries when the bound is exceeded.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expiresAt: c.now().Add(ttl)}
	c.order.add(key)
	if c.maxEntries > 0 {
		for _, evicted := range c.order.evictOver(c.maxEntries) {
			delete(c.entries, evicted)
		}
	}
}

// PurgeExpired removes all expired entries.
func (c *TTLCache) PurgeExpired() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	purged := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, key)
			c.order.remove(key)
			purged++
		}
	}
	return purged
}

// Len reports the number of physically stored entries.
func (c *TTLCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
