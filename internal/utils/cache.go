package utils

import (
	"sync"
	"sync/atomic"
)

// Cache is a write-once, read-many map. A key, once stored, keeps its
// value for the lifetime of the cache.
type Cache[K comparable, V any] struct {
	items map[K]V
	mutex sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a new generic cache
func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

// NewCacheFrom creates a cache pre-populated with the given items.
// The map is owned by the cache afterwards.
func NewCacheFrom[K comparable, V any](items map[K]V) *Cache[K, V] {
	if items == nil {
		items = make(map[K]V)
	}
	return &Cache[K, V]{items: items}
}

// Get retrieves an item from the cache
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	value, exists := c.items[key]
	return value, exists
}

// GetOrCompute returns the cached value for key, or computes, stores and
// returns it. compute runs under the write lock, so concurrent first-time
// misses for the same key run it exactly once. The boolean reports whether
// the value was served from the cache.
func (c *Cache[K, V]) GetOrCompute(key K, compute func(K) V) (V, bool) {
	c.mutex.RLock()
	value, exists := c.items[key]
	c.mutex.RUnlock()
	if exists {
		c.hits.Add(1)
		return value, true
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Another goroutine may have filled the slot while we waited for the lock
	if value, exists = c.items[key]; exists {
		c.hits.Add(1)
		return value, true
	}

	c.misses.Add(1)
	value = compute(key)
	c.items[key] = value
	return value, false
}

// Set stores an item in the cache unless the key is already present.
// It reports whether the value was stored.
func (c *Cache[K, V]) Set(key K, value V) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.items[key]; exists {
		return false
	}
	c.items[key] = value
	return true
}

// Size returns the number of items in the cache
func (c *Cache[K, V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.items)
}

// GetStats returns cache statistics
func (c *Cache[K, V]) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return CacheStats{
		Size:   len(c.items),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
}

// CacheStats provides cache statistics
type CacheStats struct {
	Size   int
	Hits   int64
	Misses int64
}
