// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/budtender/internal/cache"
	"github.com/tomtom215/budtender/internal/middleware"
	"github.com/tomtom215/budtender/internal/recommend"
)

// Recommender ranks products. Implemented by *recommend.Engine.
type Recommender interface {
	ForYou(ctx context.Context, req recommend.ForYouRequest) ([]recommend.Product, error)
	RelatedTo(ctx context.Context, req recommend.RelatedRequest) ([]recommend.Product, error)
}

// PriceService resolves prices. Implemented by *pricing.Service.
type PriceService interface {
	Lookup(ctx context.Context, productID, variantID string) (float64, error)
	Refresh(ctx context.Context, productID, variantID string) (float64, error)
	BreakerState() string
	CacheStats() cache.LRUStats
}

// EventRecorder appends user events. Implemented by *eventlog.Log.
type EventRecorder interface {
	Append(ctx context.Context, ev recommend.UserEvent) (recommend.UserEvent, error)
	Appends() int64
}

// ReadinessCheck is a named dependency checked by /health/ready.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Dependencies are the services the handlers call.
type Dependencies struct {
	Recommender Recommender
	Prices      PriceService
	Events      EventRecorder

	// Catalog resolves product attributes for events that only name a product.
	Catalog recommend.CatalogStore

	// Checks run in order by the readiness handler.
	Checks []ReadinessCheck

	// Performance backs /api/v1/stats. Optional.
	Performance *middleware.PerformanceMonitor
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers_recommend.go: for-you and related rankings
//   - handlers_prices.go: price lookups
//   - handlers_events.go: event ingestion
//   - handlers_health.go: liveness, readiness and stats
type Handler struct {
	recommender Recommender
	prices      PriceService
	events      EventRecorder
	catalog     recommend.CatalogStore
	checks      []ReadinessCheck
	perfMon     *middleware.PerformanceMonitor
	startTime   time.Time
}

// NewHandler validates deps and creates the API handler.
func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Recommender == nil {
		return nil, errors.New("recommender is required")
	}
	if deps.Prices == nil {
		return nil, errors.New("price service is required")
	}
	if deps.Events == nil {
		return nil, errors.New("event recorder is required")
	}
	if deps.Catalog == nil {
		return nil, errors.New("catalog is required")
	}

	return &Handler{
		recommender: deps.Recommender,
		prices:      deps.Prices,
		events:      deps.Events,
		catalog:     deps.Catalog,
		checks:      deps.Checks,
		perfMon:     deps.Performance,
		startTime:   time.Now(),
	}, nil
}
