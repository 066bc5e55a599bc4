// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/budtender/internal/api"
	"github.com/tomtom215/budtender/internal/cache"
	"github.com/tomtom215/budtender/internal/config"
	"github.com/tomtom215/budtender/internal/database"
	"github.com/tomtom215/budtender/internal/eventlog"
	"github.com/tomtom215/budtender/internal/logging"
	"github.com/tomtom215/budtender/internal/metrics"
	"github.com/tomtom215/budtender/internal/middleware"
	"github.com/tomtom215/budtender/internal/pricing"
	"github.com/tomtom215/budtender/internal/recommend"
	"github.com/tomtom215/budtender/internal/supervisor"
	"github.com/tomtom215/budtender/internal/supervisor/services"
)

const (
	perfWindow        = 1000
	slowRequestCutoff = 500 * time.Millisecond
)

// catalogBackend is what the rest of the process needs from a catalog.
type catalogBackend interface {
	recommend.CatalogStore
	pricing.PriceSource
}

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("catalog_driver", cfg.Database.Driver).
		Str("environment", cfg.Server.Environment).
		Bool("eventlog_in_memory", cfg.EventLog.InMemory).
		Msg("Starting Budtender with supervisor tree")

	catalog, checks, closeCatalog, err := openCatalog(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize catalog")
	}
	defer closeCatalog()

	events, err := eventlog.Open(eventLogConfig(&cfg.EventLog), logging.WithComponent("eventlog"))
	if err != nil {
		closeCatalog()
		logging.Fatal().Err(err).Msg("Failed to open event log")
	}
	defer func() {
		if err := events.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event log")
		}
	}()
	checks = append(checks, api.ReadinessCheck{Name: "eventlog", Ping: events.Ping})

	store, err := recommend.NewCompositeStore(catalog, events)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build recommendation store")
	}
	engine, err := recommend.NewEngine(store, recommendConfig(&cfg.Recommend), logging.WithComponent("recommend"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}
	engine.SetObserver(recommend.ObserverFunc(metrics.RecordRecommendation))

	prices := cache.NewPriceCache(cfg.PriceCache.Capacity, cfg.PriceCache.TTL,
		cache.WithEvictionHook(func(string) { metrics.RecordPriceCacheEviction() }))
	priceService, err := pricing.NewService(catalog, prices, breakerConfig(&cfg.Pricing), logging.WithComponent("pricing"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create pricing service")
	}
	logging.Info().
		Int("capacity", prices.Capacity()).
		Dur("ttl", prices.TTL()).
		Msg("Price cache initialized")

	perf := middleware.NewPerformanceMonitor(perfWindow, slowRequestCutoff, logging.WithComponent("performance"))

	handler, err := api.NewHandler(api.Dependencies{
		Recommender: engine,
		Prices:      priceService,
		Events:      events,
		Catalog:     catalog,
		Checks:      checks,
		Performance: perf,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}

	router := api.NewRouter(handler, api.ChiMiddlewareConfigFrom(cfg))
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// sutureslog needs a *slog.Logger; the adapter routes it through zerolog.
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.WithComponent("supervisor")), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDataService(services.NewEventLogGCService(events, logging.WithComponent("supervisor")))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("supervisor")))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// openCatalog returns the configured catalog backend, its readiness checks and
// a close function that is safe to call more than once.
func openCatalog(cfg *config.Config) (catalogBackend, []api.ReadinessCheck, func(), error) {
	if cfg.Database.Driver == "memory" {
		mem := recommend.NewMemoryStore()
		if cfg.Database.SeedDemoData {
			n := database.SeedMemoryStore(mem)
			logging.Info().Int("products", n).Str("store_id", database.DemoStoreID).Msg("Seeded in-memory demo catalog")
		} else {
			logging.Warn().Msg("In-memory catalog is empty; enable SEED_DEMO_DATA to load the demo store")
		}
		return mem, nil, func() {}, nil
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	closed := false
	closeDB := func() {
		if closed {
			return
		}
		closed = true
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}
	logging.Info().Str("path", cfg.Database.Path).Msg("Database initialized successfully")

	if cfg.Database.SeedDemoData {
		if _, err := db.SeedDemoCatalog(context.Background()); err != nil {
			closeDB()
			return nil, nil, nil, fmt.Errorf("seed demo catalog: %w", err)
		}
	}

	return db, []api.ReadinessCheck{{Name: "catalog", Ping: db.Ping}}, closeDB, nil
}

func eventLogConfig(c *config.EventLogConfig) eventlog.Config {
	return eventlog.Config{
		Path:       c.Path,
		InMemory:   c.InMemory,
		SyncWrites: c.SyncWrites,
		Retention:  c.Retention,
		GCInterval: c.GCInterval,
		GCRatio:    c.GCRatio,
	}
}

func recommendConfig(c *config.RecommendConfig) *recommend.Config {
	return &recommend.Config{
		Weights: recommend.WeightsConfig{
			Brand:         c.BrandWeight,
			Strain:        c.StrainWeight,
			Terpene:       c.TerpeneWeight,
			Popularity:    c.PopularityWeight,
			RelatedBrand:  c.RelatedBrandWeight,
			RelatedStrain: c.RelatedStrainWeight,
		},
		Limits: recommend.LimitsConfig{
			EventWindow:          c.EventWindow,
			ForYouCandidatePool:  c.ForYouCandidatePool,
			RelatedCandidatePool: c.RelatedCandidatePool,
			DefaultForYouLimit:   c.DefaultForYouLimit,
			DefaultRelatedLimit:  c.DefaultRelatedLimit,
			MaxLimit:             c.MaxLimit,
		},
	}
}

func breakerConfig(c *config.PricingConfig) pricing.BreakerConfig {
	bc := pricing.DefaultBreakerConfig()
	if c.BreakerMaxRequests > 0 {
		bc.MaxRequests = c.BreakerMaxRequests
	}
	if c.BreakerInterval > 0 {
		bc.Interval = c.BreakerInterval
	}
	if c.BreakerTimeout > 0 {
		bc.Timeout = c.BreakerTimeout
	}
	if c.BreakerConsecutiveFailures > 0 {
		bc.ConsecutiveFailures = c.BreakerConsecutiveFailures
	}
	if c.FetchTimeout > 0 {
		bc.FetchTimeout = c.FetchTimeout
	}
	return bc
}
