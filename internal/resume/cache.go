package resume

import (
	"context"
	"sync"
	"time"
)

// ProfileCache stores extracted profiles keyed by resume content hash.
type ProfileCache interface {
	Get(ctx context.Context, key string) (*Profile, bool)
	Set(ctx context.Context, key string, profile *Profile)
}

const defaultCacheTTL = 24 * time.Hour

type memoryEntry struct {
	profile *Profile
	expires time.Time
}

// MemoryCache is a process-local TTL cache. There is normally exactly one
// active resume, so it stays tiny; the TTL is the eviction policy, not a
// freshness guarantee.
type MemoryCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Profile, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().After(entry.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.profile, true
}

func (c *MemoryCache) Set(_ context.Context, key string, profile *Profile) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.entries {
		if now.After(entry.expires) {
			delete(c.entries, k)
		}
	}

	c.entries[key] = memoryEntry{profile: profile, expires: now.Add(c.ttl)}
}
