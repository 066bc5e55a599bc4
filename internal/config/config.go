// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration is loaded with LoadWithKoanf from three layers: built-in
// defaults, an optional YAML file, then environment variables.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	EventLog   EventLogConfig   `koanf:"eventlog"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	PriceCache PriceCacheConfig `koanf:"price_cache"`
	Pricing    PricingConfig    `koanf:"pricing"`
	Security   SecurityConfig   `koanf:"security"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`

	// Timeout bounds each API request, including store calls.
	Timeout time.Duration `koanf:"timeout"`

	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	Environment string `koanf:"environment"` // "development", "staging", "production"
}

// DatabaseConfig holds catalog store settings.
type DatabaseConfig struct {
	// Driver selects the catalog backend: "duckdb" or "memory".
	Driver string `koanf:"driver"`

	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)

	// SeedDemoData loads a small demo catalog on startup when the store is empty.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// EventLogConfig holds BadgerDB user event log settings.
type EventLogConfig struct {
	Path       string        `koanf:"path"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	Retention  time.Duration `koanf:"retention"` // 0 = keep forever
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// RecommendConfig holds ranking windows, limits and weights.
type RecommendConfig struct {
	EventWindow          int `koanf:"event_window"`
	ForYouCandidatePool  int `koanf:"for_you_candidate_pool"`
	RelatedCandidatePool int `koanf:"related_candidate_pool"`
	DefaultForYouLimit   int `koanf:"default_for_you_limit"`
	DefaultRelatedLimit  int `koanf:"default_related_limit"`
	MaxLimit             int `koanf:"max_limit"`

	BrandWeight         float64 `koanf:"brand_weight"`
	StrainWeight        float64 `koanf:"strain_weight"`
	TerpeneWeight       float64 `koanf:"terpene_weight"`
	PopularityWeight    float64 `koanf:"popularity_weight"`
	RelatedBrandWeight  float64 `koanf:"related_brand_weight"`
	RelatedStrainWeight float64 `koanf:"related_strain_weight"`
}

// PriceCacheConfig holds the bounded price cache settings.
type PriceCacheConfig struct {
	// Capacity is the maximum number of cached prices.
	// Default: 100
	Capacity int `koanf:"capacity"`

	// TTL is how long a cached price is fresh. Stale entries read as absent.
	// Default: 30s
	TTL time.Duration `koanf:"ttl"`
}

// PricingConfig holds the circuit breaker settings for the price source.
type PricingConfig struct {
	BreakerMaxRequests         uint32        `koanf:"breaker_max_requests"`
	BreakerInterval            time.Duration `koanf:"breaker_interval"`
	BreakerTimeout             time.Duration `koanf:"breaker_timeout"`
	BreakerConsecutiveFailures uint32        `koanf:"breaker_consecutive_failures"`
	FetchTimeout               time.Duration `koanf:"fetch_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
