// Package cache provides thread-safe caching utilities with time-based expiration.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a thread-safe, size-bounded cache with per-entry expiration.
// Each entry expires ttl after it was last Set. When the cache is full the
// entry inserted longest ago is evicted.
type Cache[K comparable, V any] struct {
	mu       sync.RWMutex
	entries  map[K]*list.Element
	order    *list.List // front is the oldest insert
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// New creates an empty Cache. A ttl of zero or less disables expiration, and a
// capacity of zero or less leaves the cache unbounded.
func New[K comparable, V any](ttl time.Duration, capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*list.Element),
		order:    list.New(),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Get retrieves a value from the cache.
// Returns the value and ok=true if the key exists and has not expired.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	el, ok := c.entries[key]
	if !ok || c.expiredLocked(el.Value.(*entry[K, V])) {
		var zero V
		return zero, false
	}
	return el.Value.(*entry[K, V]).value, true
}

// Set stores a value, resetting its expiry. Setting an existing key counts as
// a fresh insert for eviction order.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.order.Remove(el)
		delete(c.entries, key)
	}

	e := &entry[K, V]{key: key, value: value}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[key] = c.order.PushBack(e)

	c.sweepLocked()
	for c.capacity > 0 && c.order.Len() > c.capacity {
		c.removeLocked(c.order.Front())
	}
}

// Delete removes key from the cache.
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.removeLocked(el)
	}
}

// Len returns the number of entries held, including any that have expired but
// not yet been swept.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Purge removes every entry.
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*list.Element)
	c.order.Init()
}

// expiredLocked reports whether e has expired. MUST be called with at least a read lock held.
func (c *Cache[K, V]) expiredLocked(e *entry[K, V]) bool {
	return !e.expires.IsZero() && !c.now().Before(e.expires)
}

// sweepLocked drops expired entries from the front. All entries share one
// ttl, so insertion order is also expiry order.
func (c *Cache[K, V]) sweepLocked() {
	for el := c.order.Front(); el != nil; el = c.order.Front() {
		if !c.expiredLocked(el.Value.(*entry[K, V])) {
			return
		}
		c.removeLocked(el)
	}
}

func (c *Cache[K, V]) removeLocked(el *list.Element) {
	e := c.order.Remove(el).(*entry[K, V])
	delete(c.entries, e.key)
}
