// Package cache is the TTL store behind the console server. Entries expire
// after a period without access and are swept in the background by
// patrickmn/go-cache.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache maps string keys to values of type V.
type Cache[V any] struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New creates a cache whose entries live for ttl after their last Touch or
// Set. Expired entries are removed every cleanupInterval.
func New[V any](ttl, cleanupInterval time.Duration) *Cache[V] {
	return &Cache[V]{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// Get returns the value stored under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	v, ok := c.store.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(V)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Touch returns the value under key and restarts its expiry.
func (c *Cache[V]) Touch(key string) (V, bool) {
	v, ok := c.Get(key)
	if ok {
		c.store.Set(key, v, gocache.DefaultExpiration)
	}
	return v, ok
}

// GetOrSet touches and returns the value under key, storing create() first
// when the key is absent. Concurrent callers for one key get the same value.
func (c *Cache[V]) GetOrSet(key string, create func() V) V {
	if v, ok := c.Touch(key); ok {
		return v
	}
	v := create()
	if err := c.store.Add(key, v, gocache.DefaultExpiration); err != nil {
		if existing, ok := c.Get(key); ok {
			return existing
		}
		c.Set(key, v)
	}
	return v
}

// Set stores value under key with the default TTL.
func (c *Cache[V]) Set(key string, value V) {
	c.store.Set(key, value, gocache.DefaultExpiration)
}

// SetWithTTL stores value under key with a custom TTL.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes key.
func (c *Cache[V]) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of entries, including expired ones not yet
// swept.
func (c *Cache[V]) ItemCount() int {
	return c.store.ItemCount()
}

// OnEvicted registers fn to run when an entry expires or is deleted.
func (c *Cache[V]) OnEvicted(fn func(key string, value V)) {
	c.store.OnEvicted(func(key string, v any) {
		if typed, ok := v.(V); ok {
			fn(key, typed)
		}
	})
}

// Stats describes the cache.
type Stats struct {
	ItemCount int           `json:"item_count"`
	TTL       time.Duration `json:"ttl"`
}

// GetStats returns current cache statistics.
func (c *Cache[V]) GetStats() Stats {
	return Stats{ItemCount: c.store.ItemCount(), TTL: c.ttl}
}
