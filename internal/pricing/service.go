// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

// Package pricing serves product prices through the bounded price cache.
//
// A lookup reads the cache first. On a miss (absent or stale) concurrent
// lookups for the same key collapse into one call to the authoritative
// PriceSource, which is guarded by a circuit breaker. The result is written
// back to the cache.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/budtender/internal/cache"
	"github.com/tomtom215/budtender/internal/metrics"
)

var (
	// ErrPriceNotFound is returned when the source has no price for the product/variant.
	ErrPriceNotFound = errors.New("price not found")

	// ErrSourceUnavailable is returned while the circuit breaker rejects calls.
	ErrSourceUnavailable = errors.New("price source unavailable")
)

// PriceSource is the authoritative price store.
type PriceSource interface {
	// FindPrice returns found=false when no price exists.
	FindPrice(ctx context.Context, productID, variantID string) (price float64, found bool, err error)
}

// Service resolves prices for the API.
type Service struct {
	source PriceSource
	prices *cache.PriceCache
	cb     *gobreaker.CircuitBreaker[float64]
	name   string
	group  singleflight.Group
	logger zerolog.Logger

	fetchTimeout time.Duration
}

// NewService wires a price source to a shared price cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewService(source PriceSource, prices *cache.PriceCache, cfg BreakerConfig, logger zerolog.Logger) (*Service, error) {
	if source == nil {
		return nil, errors.New("price source is required")
	}
	if prices == nil {
		return nil, errors.New("price cache is required")
	}
	if cfg.Name == "" {
		cfg.Name = DefaultBreakerConfig().Name
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = DefaultBreakerConfig().ConsecutiveFailures
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultBreakerConfig().FetchTimeout
	}

	logger = logger.With().Str("component", "pricing").Logger()
	return &Service{
		source: source,
		prices: prices,
		cb:     newBreaker(cfg, logger),
		name:   cfg.Name,
		logger: logger,

		fetchTimeout: cfg.FetchTimeout,
	}, nil
}

// Lookup returns the price of a product, optionally for one variant.
func (s *Service) Lookup(ctx context.Context, productID, variantID string) (float64, error) {
	if productID == "" {
		return 0, errors.New("product id is required")
	}

	key := cache.PriceKey(productID, variantID)
	if price, ok := s.prices.GetCachedPrice(key); ok {
		metrics.RecordPriceCacheHit()
		return price, nil
	}
	metrics.RecordPriceCacheMiss("absent_or_stale")

	return s.load(ctx, key, productID, variantID)
}

// Refresh bypasses the cached value and reloads the price from the source.
func (s *Service) Refresh(ctx context.Context, productID, variantID string) (float64, error) {
	if productID == "" {
		return 0, errors.New("product id is required")
	}
	metrics.RecordPriceCacheMiss("refresh")
	return s.load(ctx, cache.PriceKey(productID, variantID), productID, variantID)
}

// load fetches through singleflight and the breaker, then caches the result.
//
// The shared call runs on a context detached from the caller that started it,
// bounded by fetchTimeout, so one caller going away never fails the others.
// Each caller still stops waiting when its own ctx is done.
func (s *Service) load(ctx context.Context, key, productID, variantID string) (float64, error) {
	ch := s.group.DoChan(key, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()

		price, err := s.fetch(fetchCtx, productID, variantID)
		if err != nil {
			return 0.0, err
		}
		s.prices.SetCachedPrice(key, price)
		metrics.UpdatePriceCacheSize(s.prices.Len())
		return price, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("price lookup: %w", ctx.Err())
	case res = <-ch:
	}
	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		return 0, err
	}

	price, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("price lookup: unexpected result type %T", v)
	}

	s.logger.Debug().
		Str("product_id", productID).
		Str("variant_id", variantID).
		Bool("shared", shared).
		Msg("loaded price from source")

	return price, nil
}

// fetch calls the source through the circuit breaker.
func (s *Service) fetch(ctx context.Context, productID, variantID string) (float64, error) {
	start := time.Now()
	price, err := s.cb.Execute(func() (float64, error) {
		p, found, err := s.source.FindPrice(ctx, productID, variantID)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, ErrPriceNotFound
		}
		return p, nil
	})

	switch {
	case err == nil:
		metrics.RecordCircuitBreakerRequest(s.name, "success")
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(0)
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordCircuitBreakerRequest(s.name, "rejected")
		s.logger.Warn().Err(err).Msg("price source call rejected")
		return 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	case errors.Is(err, ErrPriceNotFound):
		metrics.RecordCircuitBreakerRequest(s.name, "success")
	case errors.Is(err, context.Canceled):
		metrics.RecordCircuitBreakerRequest(s.name, "canceled")
	default:
		metrics.RecordCircuitBreakerRequest(s.name, "failure")
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.name).Set(float64(s.cb.Counts().ConsecutiveFailures))
	}
	metrics.RecordPriceSource(time.Since(start), err, ErrPriceNotFound)

	if err != nil {
		if errors.Is(err, ErrPriceNotFound) {
			return 0, fmt.Errorf("%w: product %s variant %q", ErrPriceNotFound, productID, variantID)
		}
		return 0, fmt.Errorf("find price: %w", err)
	}
	return price, nil
}

// BreakerState returns the circuit breaker state name.
func (s *Service) BreakerState() string {
	return stateToString(s.cb.State())
}

// CacheStats returns the shared price cache counters.
func (s *Service) CacheStats() cache.LRUStats {
	return s.prices.Stats()
}
