// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package cache provides the bounded in-memory caches used by Budtender.

# Overview

The package has two layers:
  - LRU: a generic, fixed-capacity least-recently-used map (O(1) Get/Set/evict)
  - PriceCache: a lazy time-to-live wrapper storing {price, timestamp} in an LRU

# Eviction vs. Staleness

The two concerns are independent. Capacity pressure evicts the
least recently used entry (both Get and Set count as a use). Staleness is
only checked when a price is read: an entry older than the TTL reads as
absent but keeps occupying its slot until LRU pressure removes it or it is
overwritten. There is no background sweep.

# Usage Example

	prices := cache.NewPriceCache(100, 30*time.Second)

	key := cache.PriceKey(productID, variantID)
	if price, ok := prices.GetCachedPrice(key); ok {
	    return price, nil
	}

	price, err := source.FindPrice(ctx, productID, variantID)
	if err != nil {
	    return 0, err
	}
	prices.SetCachedPrice(key, price)

# Lifecycle

A single PriceCache is constructed in cmd/server at startup and injected into
the pricing service. There is no package-level instance.

# Thread Safety

LRU guards all state with a sync.Mutex. Get mutates recency order, so reads
take the exclusive lock as well.
*/
package cache
