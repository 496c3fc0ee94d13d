package api

import (
	"sync"
	"time"
)

// lookupCache keeps recent reference-data answers for a fixed TTL. Values
// are copied on the way in and out so callers cannot mutate cached slices.
type lookupCache[T any] struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]lookupCacheEntry[T]
}

type lookupCacheEntry[T any] struct {
	values    []T
	expiresAt time.Time
}

func newLookupCache[T any](ttl time.Duration, maxEntries int, now func() time.Time) *lookupCache[T] {
	if ttl <= 0 {
		return nil
	}
	if maxEntries <= 0 {
		maxEntries = 64
	}
	if now == nil {
		now = time.Now
	}
	return &lookupCache[T]{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]lookupCacheEntry[T]),
	}
}

func (c *lookupCache[T]) Get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneValues(entry.values), true
}

func (c *lookupCache[T]) Store(key string, values []T) {
	if c == nil {
		return
	}
	cloned := cloneValues(values)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = lookupCacheEntry[T]{values: cloned, expiresAt: expiry}
}

func (c *lookupCache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]lookupCacheEntry[T])
	c.mu.Unlock()
}

func (c *lookupCache[T]) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *lookupCache[T]) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneValues[T any](values []T) []T {
	if len(values) == 0 {
		return nil
	}
	out := make([]T, len(values))
	copy(out, values)
	return out
}
