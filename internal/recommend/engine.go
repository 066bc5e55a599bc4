// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Note: This package has no dependencies on other internal packages. The
// DataStore interface lets the database layer plug in without import cycles.

// ErrInvalidRequest is returned for malformed ranking requests.
var ErrInvalidRequest = errors.New("invalid recommendation request")

// Ranking kinds reported to the Observer.
const (
	KindForYou    = "for_you"
	KindRelatedTo = "related_to"
)

// Engine ranks store products for a user or around a base product.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	config   *Config
	logger   zerolog.Logger
	store    DataStore
	observer Observer
}

// NewEngine creates a new recommendation engine backed by store.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(store DataStore, cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if store == nil {
		return nil, errors.New("data store is required")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
		store:  store,
	}, nil
}

// SetObserver installs a hook called after every ForYou and RelatedTo call.
func (e *Engine) SetObserver(o Observer) {
	e.observer = o
}

// Config returns a copy of the active configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// ForYou returns products in req.StoreID ranked for req.UserID.
//
// Without a user it returns the store's most purchased products. With a user
// it scores the popular candidate pool against the user's recent activity.
// A store failure on either fetch aborts the call.
func (e *Engine) ForYou(ctx context.Context, req ForYouRequest) (products []Product, err error) {
	start := time.Now()
	defer func() { e.observe(KindForYou, len(products), start, err) }()

	limit, err := e.resolveLimit(req.Limit, e.config.Limits.DefaultForYouLimit)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().
		Str("store_id", req.StoreID).
		Str("user_id", req.UserID).
		Int("limit", limit).
		Logger()

	if req.UserID == "" {
		products, err = e.store.FindProductsByStore(ctx, req.StoreID, limit)
		if err != nil {
			return nil, fmt.Errorf("find popular products: %w", err)
		}
		if products == nil {
			products = []Product{}
		}
		if len(products) > limit {
			products = products[:limit]
		}
		logger.Debug().Int("returned", len(products)).Msg("served popularity baseline")
		return products, nil
	}

	events, candidates, err := e.fetchForYouInputs(ctx, req)
	if err != nil {
		return nil, err
	}

	profile := buildProfile(events)
	scored := make([]ScoredProduct, len(candidates))
	for i := range candidates {
		scored[i] = ScoredProduct{
			Product: candidates[i],
			Score:   scoreForYou(&e.config.Weights, &profile, candidates[i]),
		}
	}
	products = rankAndProject(scored, limit)

	logger.Debug().
		Int("events", len(events)).
		Int("candidates", len(candidates)).
		Bool("cold_profile", profile.empty()).
		Int("returned", len(products)).
		Msg("ranked for-you products")

	return products, nil
}

// fetchForYouInputs loads the user's events and the candidate pool concurrently.
func (e *Engine) fetchForYouInputs(ctx context.Context, req ForYouRequest) ([]UserEvent, []Product, error) {
	var (
		events     []UserEvent
		candidates []Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = e.store.FindRecentUserEvents(gctx, req.UserID, e.config.Limits.EventWindow)
		if err != nil {
			return fmt.Errorf("find recent user events: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		candidates, err = e.store.FindProductsByStore(gctx, req.StoreID, e.config.Limits.ForYouCandidatePool)
		if err != nil {
			return fmt.Errorf("find candidate products: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return events, candidates, nil
}

// RelatedTo returns products in req.StoreID similar to req.ProductID.
//
// An unknown product yields an empty result and no error.
func (e *Engine) RelatedTo(ctx context.Context, req RelatedRequest) (products []Product, err error) {
	start := time.Now()
	defer func() { e.observe(KindRelatedTo, len(products), start, err) }()

	limit, err := e.resolveLimit(req.Limit, e.config.Limits.DefaultRelatedLimit)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With().
		Str("store_id", req.StoreID).
		Str("product_id", req.ProductID).
		Int("limit", limit).
		Logger()

	base, err := e.store.FindProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("find base product: %w", err)
	}
	if base == nil {
		logger.Debug().Msg("base product not found")
		return []Product{}, nil
	}

	match := SiblingMatch{
		Brand:      base.Brand,
		StrainType: base.StrainType,
		Terpenes:   base.Terpenes,
	}
	siblings, err := e.store.FindSiblingProducts(ctx, req.StoreID, base.ID, match, e.config.Limits.RelatedCandidatePool)
	if err != nil {
		return nil, fmt.Errorf("find sibling products: %w", err)
	}

	scored := make([]ScoredProduct, 0, len(siblings))
	for i := range siblings {
		if siblings[i].ID == base.ID {
			continue
		}
		scored = append(scored, ScoredProduct{
			Product: siblings[i],
			Score:   scoreRelated(&e.config.Weights, *base, siblings[i]),
		})
	}
	products = rankAndProject(scored, limit)

	logger.Debug().
		Int("siblings", len(siblings)).
		Int("returned", len(products)).
		Msg("ranked related products")

	return products, nil
}

// resolveLimit applies the default for 0 and clamps to MaxLimit.
func (e *Engine) resolveLimit(limit, def int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: limit must be non-negative, got %d", ErrInvalidRequest, limit)
	case limit == 0:
		return def, nil
	case limit > e.config.Limits.MaxLimit:
		return e.config.Limits.MaxLimit, nil
	default:
		return limit, nil
	}
}

func (e *Engine) observe(kind string, returned int, start time.Time, err error) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveRecommendation(kind, returned, time.Since(start), err)
}
