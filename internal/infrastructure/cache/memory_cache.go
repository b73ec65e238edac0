// Package cache keeps completion responses in memory for the lifetime of the
// session. Nothing is written to disk.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/doeshing/shellm/internal/domain"
	"github.com/doeshing/shellm/internal/ports"
)

// MemoryCache stores provider responses addressed by hash key.
type MemoryCache struct {
	cache *ttlcache.Cache[string, string]
}

// NewMemoryCache returns a bounded cache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration, maxEntries int) *MemoryCache {
	if ttl <= 0 {
		ttl = domain.DefaultCacheTTL
	}
	if maxEntries <= 0 {
		maxEntries = domain.DefaultMaxCacheEntries
	}
	c := ttlcache.New[string, string](
		ttlcache.WithTTL[string, string](ttl),
		ttlcache.WithCapacity[string, string](uint64(maxEntries)),
		ttlcache.WithDisableTouchOnHit[string, string](),
	)
	go c.Start()
	return &MemoryCache{cache: c}
}

// Get retrieves a cache entry.
func (c *MemoryCache) Get(key string) (string, bool) {
	if key == "" {
		return "", false
	}
	item := c.cache.Get(key)
	if item == nil {
		return "", false
	}
	return item.Value(), true
}

// Set stores a cache entry.
func (c *MemoryCache) Set(key, value string) {
	if key == "" {
		return
	}
	c.cache.Set(key, value, ttlcache.DefaultTTL)
}

// Len returns the number of live entries.
func (c *MemoryCache) Len() int {
	return c.cache.Len()
}

// Close stops the expiration loop.
func (c *MemoryCache) Close() {
	c.cache.Stop()
}

// Key fingerprints a request. Parts are JSON encoded so that field
// boundaries cannot collide.
func Key(parts ...interface{}) string {
	raw, err := json.Marshal(parts)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

var _ ports.CompletionCache = (*MemoryCache)(nil)
