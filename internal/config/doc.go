// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

/*
Package config provides centralized configuration management for Budtender.

Configuration is layered with Koanf v2. Built-in defaults are loaded first,
then an optional YAML file, then environment variables, each layer
overriding the previous one. The merged result is validated before use.

# Configuration Sources

  - Defaults: defaultConfig()
  - Config file: $CONFIG_PATH, or the first of DefaultConfigPaths that exists
  - Environment variables: only the names listed in envMappings

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8420)
  - HTTP_TIMEOUT: per-request deadline (default: 10s)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - ENVIRONMENT: development, staging or production

Catalog:
  - CATALOG_DRIVER: duckdb or memory (default: duckdb)
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - SEED_DEMO_DATA: load the demo catalog when empty

Event Log:
  - EVENTLOG_PATH, EVENTLOG_IN_MEMORY, EVENTLOG_SYNC_WRITES
  - EVENTLOG_RETENTION (default: 2160h), EVENTLOG_GC_INTERVAL, EVENTLOG_GC_RATIO

Recommendations:
  - RECOMMEND_EVENT_WINDOW, RECOMMEND_FOR_YOU_POOL, RECOMMEND_RELATED_POOL
  - RECOMMEND_DEFAULT_FOR_YOU_LIMIT (12), RECOMMEND_DEFAULT_RELATED_LIMIT (8), RECOMMEND_MAX_LIMIT (100)
  - RECOMMEND_*_WEIGHT: scoring weights

Prices:
  - PRICE_CACHE_CAPACITY (100), PRICE_CACHE_TTL (30s)
  - PRICING_BREAKER_MAX_REQUESTS, PRICING_BREAKER_INTERVAL, PRICING_BREAKER_TIMEOUT, PRICING_BREAKER_FAILURES

Security:
  - CORS_ORIGINS: comma-separated list (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT (json or console), LOG_CALLER

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
*/
package config
