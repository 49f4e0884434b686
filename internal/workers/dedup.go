package workers

import "sync"

// dedupCache is a concurrency-safe keyed cache used by each worker to
// remember which notifications were already sent. Every worker owns its own
// instance; nothing is shared across workers. Entries are process-local and
// lost on restart, which can produce one duplicate notification after a
// restart. Accepted for at-most-daily reminders.
type dedupCache[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

func newDedupCache[K comparable, V any]() *dedupCache[K, V] {
	return &dedupCache[K, V]{entries: make(map[K]V)}
}

func (c *dedupCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *dedupCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *dedupCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Prune removes every entry for which keep returns false.
func (c *dedupCache[K, V]) Prune(keep func(key K, value V) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range c.entries {
		if !keep(k, v) {
			delete(c.entries, k)
		}
	}
}

func (c *dedupCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
