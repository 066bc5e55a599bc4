// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package cache

import (
	"time"
)

const (
	// DefaultPriceCacheCapacity is the number of product/variant prices kept per process.
	DefaultPriceCacheCapacity = 100

	// DefaultPriceTTL is how long a cached price is considered fresh.
	DefaultPriceTTL = 30 * time.Second
)

// PriceEntry is the value stored in the underlying LRU.
type PriceEntry struct {
	Price     float64
	Timestamp time.Time
}

// PriceCache layers a lazy TTL over an LRU of prices.
//
// Staleness is only checked on read. A stale entry is reported as absent but
// is NOT removed: it keeps its capacity slot, and reading it still refreshes
// its recency. Eviction is governed purely by the LRU policy.
type PriceCache struct {
	lru *LRU[string, PriceEntry]
	ttl time.Duration
	now func() time.Time
}

// PriceCacheOption configures a PriceCache.
type PriceCacheOption func(*PriceCache)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) PriceCacheOption {
	return func(c *PriceCache) {
		c.now = now
	}
}

// WithEvictionHook is called for every LRU capacity eviction.
func WithEvictionHook(fn func(key string)) PriceCacheOption {
	return func(c *PriceCache) {
		c.lru.OnEvict(func(key string, _ PriceEntry) {
			fn(key)
		})
	}
}

// NewPriceCache creates a price cache. Non-positive capacity or ttl fall back
// to the defaults (100 entries, 30s).
func NewPriceCache(capacity int, ttl time.Duration, opts ...PriceCacheOption) *PriceCache {
	if capacity <= 0 {
		capacity = DefaultPriceCacheCapacity
	}
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}

	c := &PriceCache{
		lru: NewLRU[string, PriceEntry](capacity),
		ttl: ttl,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PriceKey builds the cache key for a product and optional variant.
func PriceKey(productID, variantID string) string {
	if variantID == "" {
		return "price:" + productID
	}
	return "price:" + productID + ":" + variantID
}

// GetCachedPrice returns the cached price if it is younger than the TTL.
func (c *PriceCache) GetCachedPrice(key string) (float64, bool) {
	entry, ok := c.lru.Get(key)
	if !ok {
		return 0, false
	}
	if c.now().Sub(entry.Timestamp) >= c.ttl {
		return 0, false
	}
	return entry.Price, true
}

// SetCachedPrice stores price under key stamped with the current time.
func (c *PriceCache) SetCachedPrice(key string, price float64) {
	c.lru.Set(key, PriceEntry{Price: price, Timestamp: c.now()})
}

// Has reports physical presence, fresh or stale, without touching recency.
func (c *PriceCache) Has(key string) bool {
	return c.lru.Has(key)
}

// Len returns the number of physically present entries.
func (c *PriceCache) Len() int {
	return c.lru.Len()
}

// Capacity returns the maximum number of entries.
func (c *PriceCache) Capacity() int {
	return c.lru.Capacity()
}

// TTL returns the freshness window.
func (c *PriceCache) TTL() time.Duration {
	return c.ttl
}

// Clear drops every entry.
func (c *PriceCache) Clear() {
	c.lru.Clear()
}

// Stats returns the underlying LRU counters.
func (c *PriceCache) Stats() LRUStats {
	return c.lru.Stats()
}
