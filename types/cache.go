package types

import (
	"sync"
	"sync/atomic"

	"github.com/markkovari/rmf-codegen/model"
)

// Cache memoizes descriptors for one generation run, keyed by node
// identity. It is safe for concurrent use; concurrent first lookups of the
// same node share a single computation.
type Cache struct {
	mu      sync.Mutex
	entries map[model.Node]*cacheEntry

	computed atomic.Int64
	hits     atomic.Int64
}

type cacheEntry struct {
	once sync.Once
	d    Descriptor
}

// CacheStats reports cache activity.
type CacheStats struct {
	Entries  int
	Computed int64
	Hits     int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[model.Node]*cacheEntry)}
}

func (c *Cache) getOrCompute(n model.Node, compute func() Descriptor) Descriptor {
	c.mu.Lock()
	e, ok := c.entries[n]
	if !ok {
		e = &cacheEntry{}
		c.entries[n] = e
	}
	c.mu.Unlock()

	computedHere := false
	e.once.Do(func() {
		e.d = compute()
		computedHere = true
		c.computed.Add(1)
	})
	if !computedHere {
		c.hits.Add(1)
	}
	return e.d
}

// Stats returns a snapshot of cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return CacheStats{Entries: n, Computed: c.computed.Load(), Hits: c.hits.Load()}
}
