// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/budtender/config.yaml",
	"/etc/budtender/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8420,
			Host:            "0.0.0.0",
			Timeout:         10 * time.Second,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Driver:       "duckdb",
			Path:         "/data/budtender.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			SeedDemoData: false,
		},
		EventLog: EventLogConfig{
			Path:       "/data/eventlog",
			InMemory:   false,
			SyncWrites: true,
			Retention:  90 * 24 * time.Hour,
			GCInterval: 10 * time.Minute,
			GCRatio:    0.5,
		},
		Recommend: RecommendConfig{
			EventWindow:          500,
			ForYouCandidatePool:  500,
			RelatedCandidatePool: 200,
			DefaultForYouLimit:   12,
			DefaultRelatedLimit:  8,
			MaxLimit:             100,
			BrandWeight:          0.6,
			StrainWeight:         0.6,
			TerpeneWeight:        0.3,
			PopularityWeight:     0.02,
			RelatedBrandWeight:   0.3,
			RelatedStrainWeight:  0.3,
		},
		PriceCache: PriceCacheConfig{
			Capacity: 100,
			TTL:      30 * time.Second,
		},
		Pricing: PricingConfig{
			BreakerMaxRequests:         3,
			BreakerInterval:            time.Minute,
			BreakerTimeout:             30 * time.Second,
			BreakerConsecutiveFailures: 5,
			FetchTimeout:               5 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML file or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Database mappings
	"catalog_driver":    "database.driver",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"duckdb_threads":    "database.threads",
	"seed_demo_data":    "database.seed_demo_data",

	// Event log mappings
	"eventlog_path":        "eventlog.path",
	"eventlog_in_memory":   "eventlog.in_memory",
	"eventlog_sync_writes": "eventlog.sync_writes",
	"eventlog_retention":   "eventlog.retention",
	"eventlog_gc_interval": "eventlog.gc_interval",
	"eventlog_gc_ratio":    "eventlog.gc_ratio",

	// Recommendation mappings
	"recommend_event_window":          "recommend.event_window",
	"recommend_for_you_pool":          "recommend.for_you_candidate_pool",
	"recommend_related_pool":          "recommend.related_candidate_pool",
	"recommend_default_for_you_limit": "recommend.default_for_you_limit",
	"recommend_default_related_limit": "recommend.default_related_limit",
	"recommend_max_limit":             "recommend.max_limit",
	"recommend_brand_weight":          "recommend.brand_weight",
	"recommend_strain_weight":         "recommend.strain_weight",
	"recommend_terpene_weight":        "recommend.terpene_weight",
	"recommend_popularity_weight":     "recommend.popularity_weight",
	"recommend_related_brand_weight":  "recommend.related_brand_weight",
	"recommend_related_strain_weight": "recommend.related_strain_weight",

	// Price cache mappings
	"price_cache_capacity": "price_cache.capacity",
	"price_cache_ttl":      "price_cache.ttl",

	// Pricing circuit breaker mappings
	"pricing_breaker_max_requests": "pricing.breaker_max_requests",
	"pricing_breaker_interval":     "pricing.breaker_interval",
	"pricing_breaker_timeout":      "pricing.breaker_timeout",
	"pricing_breaker_failures":     "pricing.breaker_consecutive_failures",
	"pricing_fetch_timeout":        "pricing.fetch_timeout",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - PRICE_CACHE_TTL -> price_cache.ttl
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// cannot pollute the config.
	return ""
}
