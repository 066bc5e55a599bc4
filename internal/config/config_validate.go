// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateDatabase(); err != nil {
		return err
	}

	if err := c.validateEventLog(); err != nil {
		return err
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	if err := c.validatePriceCache(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates the catalog store selection
func (c *Config) validateDatabase() error {
	switch c.Database.Driver {
	case "memory":
		return nil
	case "duckdb":
		if c.Database.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when CATALOG_DRIVER=duckdb")
		}
		if c.Database.Threads < 0 {
			return fmt.Errorf("DUCKDB_THREADS must be non-negative")
		}
		return nil
	default:
		return fmt.Errorf("CATALOG_DRIVER must be one of: duckdb, memory")
	}
}

// validateEventLog validates event log configuration
func (c *Config) validateEventLog() error {
	if !c.EventLog.InMemory && c.EventLog.Path == "" {
		return fmt.Errorf("EVENTLOG_PATH is required unless EVENTLOG_IN_MEMORY=true")
	}
	if c.EventLog.Retention < 0 {
		return fmt.Errorf("EVENTLOG_RETENTION must be non-negative")
	}
	if c.EventLog.GCInterval <= 0 {
		return fmt.Errorf("EVENTLOG_GC_INTERVAL must be positive")
	}
	if c.EventLog.GCRatio <= 0 || c.EventLog.GCRatio >= 1 {
		return fmt.Errorf("EVENTLOG_GC_RATIO must be between 0 and 1 (exclusive)")
	}
	return nil
}

// validateRecommend validates recommendation limits and weights
func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.EventWindow < 1 || r.ForYouCandidatePool < 1 || r.RelatedCandidatePool < 1 {
		return fmt.Errorf("recommendation windows and candidate pools must be at least 1")
	}
	if r.DefaultForYouLimit < 1 || r.DefaultRelatedLimit < 1 {
		return fmt.Errorf("default recommendation limits must be at least 1")
	}
	if r.MaxLimit < r.DefaultForYouLimit || r.MaxLimit < r.DefaultRelatedLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be at least the default limits")
	}

	weights := map[string]float64{
		"RECOMMEND_BRAND_WEIGHT":          r.BrandWeight,
		"RECOMMEND_STRAIN_WEIGHT":         r.StrainWeight,
		"RECOMMEND_TERPENE_WEIGHT":        r.TerpeneWeight,
		"RECOMMEND_POPULARITY_WEIGHT":     r.PopularityWeight,
		"RECOMMEND_RELATED_BRAND_WEIGHT":  r.RelatedBrandWeight,
		"RECOMMEND_RELATED_STRAIN_WEIGHT": r.RelatedStrainWeight,
	}
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s must be non-negative", name)
		}
	}
	return nil
}

// validatePriceCache validates the price cache bounds
func (c *Config) validatePriceCache() error {
	if c.PriceCache.Capacity < 1 {
		return fmt.Errorf("PRICE_CACHE_CAPACITY must be at least 1")
	}
	if c.PriceCache.TTL <= 0 {
		return fmt.Errorf("PRICE_CACHE_TTL must be positive")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS rejects an empty origin list; a wildcard is only warned about.
func (c *Config) validateCORS() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS returns true if CORS configuration has security concerns
// that should be logged at startup
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if err := c.validateRateLimitRequests(); err != nil {
		return err
	}
	return c.validateRateLimitWindow()
}

// validateRateLimitRequests validates the rate limit requests value
func (c *Config) validateRateLimitRequests() error {
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	return nil
}

// validateRateLimitWindow validates the rate limit window value
func (c *Config) validateRateLimitWindow() error {
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
