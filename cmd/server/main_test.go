// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package main

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/budtender/internal/config"
	"github.com/tomtom215/budtender/internal/database"
	"github.com/tomtom215/budtender/internal/pricing"
	"github.com/tomtom215/budtender/internal/recommend"
)

func TestRecommendConfig_MatchesDefaults(t *testing.T) {
	t.Parallel()

	def := recommend.DefaultConfig()
	in := &config.RecommendConfig{
		EventWindow:          def.Limits.EventWindow,
		ForYouCandidatePool:  def.Limits.ForYouCandidatePool,
		RelatedCandidatePool: def.Limits.RelatedCandidatePool,
		DefaultForYouLimit:   def.Limits.DefaultForYouLimit,
		DefaultRelatedLimit:  def.Limits.DefaultRelatedLimit,
		MaxLimit:             def.Limits.MaxLimit,
		BrandWeight:          def.Weights.Brand,
		StrainWeight:         def.Weights.Strain,
		TerpeneWeight:        def.Weights.Terpene,
		PopularityWeight:     def.Weights.Popularity,
		RelatedBrandWeight:   def.Weights.RelatedBrand,
		RelatedStrainWeight:  def.Weights.RelatedStrain,
	}

	got := recommendConfig(in)
	if *got != *def {
		t.Errorf("recommendConfig() = %+v, want %+v", *got, *def)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestBreakerConfig(t *testing.T) {
	t.Parallel()

	def := pricing.DefaultBreakerConfig()

	got := breakerConfig(&config.PricingConfig{})
	if got != def {
		t.Errorf("breakerConfig(zero) = %+v, want defaults %+v", got, def)
	}

	got = breakerConfig(&config.PricingConfig{
		BreakerMaxRequests:         3,
		BreakerInterval:            time.Minute,
		BreakerTimeout:             5 * time.Second,
		BreakerConsecutiveFailures: 7,
		FetchTimeout:               2 * time.Second,
	})
	if got.MaxRequests != 3 || got.Interval != time.Minute || got.Timeout != 5*time.Second ||
		got.ConsecutiveFailures != 7 || got.FetchTimeout != 2*time.Second {
		t.Errorf("breakerConfig(custom) = %+v", got)
	}
	if got.Name != def.Name {
		t.Errorf("Name = %q, want %q", got.Name, def.Name)
	}
}

func TestEventLogConfig(t *testing.T) {
	t.Parallel()

	in := &config.EventLogConfig{
		Path:       "/tmp/events",
		SyncWrites: true,
		Retention:  time.Hour,
		GCInterval: time.Minute,
		GCRatio:    0.5,
	}
	got := eventLogConfig(in)
	if got.Path != in.Path || !got.SyncWrites || got.Retention != time.Hour ||
		got.GCInterval != time.Minute || got.GCRatio != 0.5 || got.InMemory {
		t.Errorf("eventLogConfig() = %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestOpenCatalog_Memory(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Database: config.DatabaseConfig{Driver: "memory", SeedDemoData: true}}
	catalog, checks, closeFn, err := openCatalog(cfg)
	if err != nil {
		t.Fatalf("openCatalog() error = %v", err)
	}
	defer closeFn()

	if len(checks) != 0 {
		t.Errorf("memory catalog checks = %d, want 0", len(checks))
	}
	products, err := catalog.FindProductsByStore(context.Background(), database.DemoStoreID, 3)
	if err != nil || len(products) != 3 {
		t.Errorf("FindProductsByStore() = %d products, %v", len(products), err)
	}
}
