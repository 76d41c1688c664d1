package cache

import (
	"sync"
	"time"
)

// entry stores a cached value and its absolute expiration timestamp.
type entry[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiration
}

// SimpleCache is a lightweight map-backed cache with per-item TTL. It is safe
// for concurrent use. There is no background janitor; cleanup is lazy or via
// PurgeExpired.
type SimpleCache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]entry[V]
}

// NewSimpleCache constructs an empty SimpleCache.
func NewSimpleCache[K comparable, V any]() *SimpleCache[K, V] {
	return &SimpleCache[K, V]{
		items: make(map[K]entry[V]),
	}
}

// now is a small indirection to allow test stubbing if needed.
var now = time.Now

// Get implements Cache.Get.
func (c *SimpleCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero V
	e, ok := c.items[key]
	if !ok {
		return zero, false
	}
	if !e.expiresAt.IsZero() && now().After(e.expiresAt) {
		// expired; treat as miss (lazy cleanup deferred to PurgeExpired)
		return zero, false
	}
	return e.value, true
}

// Set implements Cache.Set.
func (c *SimpleCache[K, V]) Set(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var exp time.Time
	if ttl > 0 {
		exp = now().Add(ttl)
	}
	c.items[key] = entry[V]{
		value:     value,
		expiresAt: exp,
	}
}

// Delete implements Cache.Delete.
func (c *SimpleCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// Len implements Cache.Len. It counts only non-expired entries.
func (c *SimpleCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, e := range c.items {
		if e.expiresAt.IsZero() || now().Before(e.expiresAt) {
			count++
		}
	}
	return count
}

// Clear implements Cache.Clear.
func (c *SimpleCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]entry[V])
}

// PurgeExpired implements Cache.PurgeExpired.
func (c *SimpleCache[K, V]) PurgeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) == 0 {
		return
	}
	nowTs := now()
	for k, e := range c.items {
		if !e.expiresAt.IsZero() && nowTs.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
}

// Ensure SimpleCache implements Cache at compile time.
var _ Cache[any, any] = (*SimpleCache[any, any])(nil)
