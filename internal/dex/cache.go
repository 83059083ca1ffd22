package dex

import "sync"

// cache holds derived entries keyed by id. Builders run outside the lock so
// a derivation may look up other entries; the first stored value wins.
type cache[T any] struct {
	mu sync.RWMutex
	m  map[string]*T
}

func (c *cache[T]) get(id string, build func() *T) *T {
	c.mu.RLock()
	v, ok := c.m[id]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = build()

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.m[id]; ok {
		return existing
	}
	if c.m == nil {
		c.m = make(map[string]*T)
	}
	c.m[id] = v
	return v
}

func (c *cache[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *cache[T]) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = nil
}
