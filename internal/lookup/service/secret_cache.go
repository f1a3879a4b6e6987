// Package service provides the in-process secret cache that fronts the lookup store.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	lookupDomain "github.com/allisson/cryptfields/internal/lookup/domain"
)

// DefaultCacheSize bounds the cache when no size is configured.
const DefaultCacheSize = 10000

// SecretCache maps lookup keys to secrets. It is an accelerator only; the store stays authoritative.
type SecretCache interface {
	// Get returns the cached secret for key.
	Get(key lookupDomain.Key) (string, bool)

	// Add caches secret under key, replacing any previous value.
	Add(key lookupDomain.Key, secret string)

	// Contains reports whether key is cached without touching recency.
	Contains(key lookupDomain.Key) bool

	// Invalidate drops every entry.
	Invalidate()

	// Len returns the number of cached entries.
	Len() int
}

// LRUSecretCache is a bounded, optionally expiring, SecretCache.
type LRUSecretCache struct {
	lru *expirable.LRU[lookupDomain.Key, string]
}

// NewLRUSecretCache creates a cache holding at most size entries for at most ttl each.
//
// A non-positive size falls back to DefaultCacheSize. A non-positive ttl disables expiry;
// a positive ttl starts a background janitor goroutine that lives as long as the process.
func NewLRUSecretCache(size int, ttl time.Duration) *LRUSecretCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl < 0 {
		ttl = 0
	}
	return &LRUSecretCache{lru: expirable.NewLRU[lookupDomain.Key, string](size, nil, ttl)}
}

func (c *LRUSecretCache) Get(key lookupDomain.Key) (string, bool) {
	return c.lru.Get(key)
}

func (c *LRUSecretCache) Add(key lookupDomain.Key, secret string) {
	c.lru.Add(key, secret)
}

func (c *LRUSecretCache) Contains(key lookupDomain.Key) bool {
	return c.lru.Contains(key)
}

func (c *LRUSecretCache) Invalidate() {
	c.lru.Purge()
}

func (c *LRUSecretCache) Len() int {
	return c.lru.Len()
}
