// Package cache holds the per-client Domain Cache: the last fetched record
// for each domain name.
//
// Entries never expire. Callers that need fresh data bypass the cache at the
// call site; a later successful lookup replaces the whole record. The cache
// is memory-only and not safe for concurrent use.
package cache

import (
	"strings"

	"nathanbeddoewebdev/hureg/internal/registry/domain"

	lru "github.com/hashicorp/golang-lru"
)

// Cache maps normalised domain names to records.
type Cache struct {
	entries map[string]domain.DomainRecord
	bounded *lru.Cache
}

// New returns an unbounded cache.
func New() *Cache {
	return &Cache{entries: make(map[string]domain.DomainRecord)}
}

// NewBounded returns a cache holding at most capacity records, evicting the
// least recently used. A capacity of zero or less yields an unbounded cache.
func NewBounded(capacity int) (*Cache, error) {
	if capacity <= 0 {
		return New(), nil
	}
	l, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{bounded: l}, nil
}

// Get returns a copy of the cached record for name.
func (c *Cache) Get(name string) (domain.DomainRecord, bool) {
	if c == nil {
		return nil, false
	}
	key := Key(name)

	if c.bounded != nil {
		v, ok := c.bounded.Get(key)
		if !ok {
			return nil, false
		}
		return v.(domain.DomainRecord).Clone(), true
	}

	rec, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Put inserts or fully replaces the record for name.
func (c *Cache) Put(name string, rec domain.DomainRecord) {
	if c == nil || rec == nil {
		return
	}
	key := Key(name)
	if key == "" {
		return
	}

	if c.bounded != nil {
		c.bounded.Add(key, rec.Clone())
		return
	}
	c.entries[key] = rec.Clone()
}

// Invalidate removes a single entry.
func (c *Cache) Invalidate(name string) {
	if c == nil {
		return
	}
	key := Key(name)
	if c.bounded != nil {
		c.bounded.Remove(key)
		return
	}
	delete(c.entries, key)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	if c.bounded != nil {
		c.bounded.Purge()
		return
	}
	clear(c.entries)
}

// Len reports the number of cached records.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.entries)
}

// Key normalises a domain name into a cache key.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
