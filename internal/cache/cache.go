// Package cache provides a small bounded cache keyed by content
// strings.
//
// Entries are evicted in insertion order once the capacity is reached.
// Insertion order is good enough here: cached values are derived
// resources (rendered pattern tiles, resolved gradients) that are cheap
// to rebuild, and render passes touch defs in a stable order anyway.
package cache

// Cache is a bounded map with FIFO eviction. The zero value is not
// usable; call New. Cache is not safe for concurrent use.
type Cache[V any] struct {
	capacity int
	entries  map[string]V
	order    []string
}

// New creates a cache holding at most capacity entries. A capacity
// below 1 is treated as 1.
func New[V any](capacity int) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity: capacity,
		entries:  make(map[string]V, capacity),
	}
}

// Get returns the cached value for key, if present.
func (c *Cache[V]) Get(key string) (V, bool) {
	v, ok := c.entries[key]
	return v, ok
}

// Put stores a value under key, evicting the oldest entry if the cache
// is full. Storing under an existing key replaces the value without
// changing its eviction position.
func (c *Cache[V]) Put(key string, value V) {
	if _, ok := c.entries[key]; ok {
		c.entries[key] = value
		return
	}
	if len(c.entries) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = value
	c.order = append(c.order, key)
}

// GetOrCreate returns the cached value for key, building and storing it
// with build on a miss. A build error is returned without caching.
func (c *Cache[V]) GetOrCreate(key string, build func() (V, error)) (V, error) {
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	v, err := build()
	if err != nil {
		var zero V
		return zero, err
	}
	c.Put(key, v)
	return v, nil
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	return len(c.entries)
}

// Clear removes all entries.
func (c *Cache[V]) Clear() {
	c.entries = make(map[string]V, c.capacity)
	c.order = c.order[:0]
}
