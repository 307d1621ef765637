package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// LRUCache implements an in-memory LRU cache.
type LRUCache[V any] struct {
	maxEntries int
	ttl        time.Duration

	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type lruEntry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// NewLRUCache creates a new LRU cache. A ttl of zero never expires entries.
func NewLRUCache[V any](maxEntries int, ttl time.Duration) *LRUCache[V] {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	return &LRUCache[V]{
		maxEntries: maxEntries,
		ttl:        ttl,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
	}
}

func (c *LRUCache[V]) Get(key string) (V, bool, error) {
	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.entries[key]
	if !exists {
		c.misses.Add(1)
		return zero, false, nil
	}

	entry := elem.Value.(*lruEntry[V])

	if c.expired(entry) {
		c.order.Remove(elem)
		delete(c.entries, key)
		c.misses.Add(1)
		return zero, false, nil
	}

	c.order.MoveToFront(elem)
	c.hits.Add(1)
	return entry.value, true, nil
}

func (c *LRUCache[V]) Set(key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		entry := elem.Value.(*lruEntry[V])
		entry.value = value
		entry.expiresAt = c.expiry()
		c.order.MoveToFront(elem)
		return nil
	}

	if c.order.Len() >= c.maxEntries {
		c.evictOldest()
	}

	elem := c.order.PushFront(&lruEntry[V]{
		key:       key,
		value:     value,
		expiresAt: c.expiry(),
	})
	c.entries[key] = elem

	return nil
}

func (c *LRUCache[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.entries[key]; exists {
		c.order.Remove(elem)
		delete(c.entries, key)
	}
	return nil
}

func (c *LRUCache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

func (c *LRUCache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.order.Len(),
	}
}

func (c *LRUCache[V]) expiry() time.Time {
	if c.ttl <= 0 {
		return time.Time{}
	}
	return time.Now().Add(c.ttl)
}

func (c *LRUCache[V]) expired(e *lruEntry[V]) bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

func (c *LRUCache[V]) evictOldest() {
	elem := c.order.Back()
	if elem != nil {
		entry := elem.Value.(*lruEntry[V])
		delete(c.entries, entry.key)
		c.order.Remove(elem)
	}
}
