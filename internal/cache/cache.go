package cache

import "sync"

// Cache is a mutex-guarded LRU map. The limit is strict: inserting past it
// evicts the least recently used entries immediately. A limit of 0 or less
// disables eviction.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	limit   int
	entries map[K]*entry[K, V]
	order   *ring[K]
}

// entry embeds its ring node so recency updates allocate nothing.
type entry[K comparable, V any] struct {
	value V
	node  ringNode[K]
}

// New creates a cache holding at most limit entries.
func New[K comparable, V any](limit int) *Cache[K, V] {
	return &Cache[K, V]{
		limit:   limit,
		entries: make(map[K]*entry[K, V]),
		order:   newRing[K](),
	}
}

// Get returns the value cached under key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.touch(&e.node)
	return e.value, true
}

// Set stores value under key. Storing an existing key replaces its value
// and refreshes its recency; storing a new key past the limit evicts the
// oldest entries first.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.touch(&e.node)
		return
	}

	e := &entry[K, V]{value: value}
	e.node.key = key
	c.entries[key] = e
	c.order.touch(&e.node)

	for c.limit > 0 && c.order.len() > c.limit {
		old := c.order.oldest()
		c.order.drop(old)
		delete(c.entries, old.key)
	}
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
