package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultMaxEntries bounds a MemoryCache created without an explicit size
const DefaultMaxEntries = 50000

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryCache is a bounded, thread-safe in-memory cache with TTL support.
// When full, the least recently used entry is evicted. Per-key TTLs are capped
// by the cache-wide maxTTL, after which the LRU sweeps entries on its own.
type MemoryCache struct {
	lru *expirable.LRU[string, entry]
}

// NewMemoryCache creates a cache holding at most maxEntries values for at most maxTTL.
// A maxTTL of zero or less keeps entries until their per-key TTL or eviction.
func NewMemoryCache(maxEntries int, maxTTL time.Duration) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{lru: expirable.NewLRU[string, entry](maxEntries, nil, maxTTL)}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) (interface{}, error) {
	e, ok := c.lru.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	if time.Now().After(e.expiresAt) {
		c.lru.Remove(key)
		return nil, domain.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value with TTL. Values go through a JSON round trip so callers
// see the same shapes the Redis cache returns.
func (c *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var stored interface{}
	if err := json.Unmarshal(jsonData, &stored); err != nil {
		return err
	}

	c.lru.Add(key, entry{value: stored, expiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	e, ok := c.lru.Peek(key)
	if !ok {
		return false, nil
	}
	return !time.Now().After(e.expiresAt), nil
}

// Size returns the current number of items in the cache
func (c *MemoryCache) Size() int {
	return c.lru.Len()
}

// Close drops every entry
func (c *MemoryCache) Close() error {
	c.lru.Purge()
	return nil
}
