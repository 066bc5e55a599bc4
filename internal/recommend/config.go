// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package recommend

import (
	"fmt"
)

// Config holds recommendation engine configuration.
type Config struct {
	// Weights controls the linear scoring formulas.
	Weights WeightsConfig `json:"weights"`

	// Limits controls fetch windows and result sizes.
	Limits LimitsConfig `json:"limits"`
}

// WeightsConfig holds the coefficients of the ranking formulas.
type WeightsConfig struct {
	// Brand multiplies how often the user favorited the candidate's brand.
	// Default: 0.6
	Brand float64 `json:"brand"`

	// Strain multiplies how often the user viewed or purchased the strain type.
	// Default: 0.6
	Strain float64 `json:"strain"`

	// Terpene multiplies the summed terpene affinity of the candidate.
	// Default: 0.3
	Terpene float64 `json:"terpene"`

	// Popularity multiplies PurchasesLast30d.
	// Default: 0.02
	Popularity float64 `json:"popularity"`

	// RelatedBrand is the bonus for sharing the base product's brand.
	// Default: 0.3
	RelatedBrand float64 `json:"related_brand"`

	// RelatedStrain is the bonus for sharing the base product's strain type.
	// Default: 0.3
	RelatedStrain float64 `json:"related_strain"`
}

// LimitsConfig holds fetch windows and result size bounds.
type LimitsConfig struct {
	// EventWindow is how many recent user events build the preference profile.
	// Default: 500
	EventWindow int `json:"event_window"`

	// ForYouCandidatePool is how many popular store products are scored.
	// Default: 500
	ForYouCandidatePool int `json:"for_you_candidate_pool"`

	// RelatedCandidatePool is how many siblings are scored.
	// Default: 200
	RelatedCandidatePool int `json:"related_candidate_pool"`

	// DefaultForYouLimit applies when a ForYou request has Limit 0.
	// Default: 12
	DefaultForYouLimit int `json:"default_for_you_limit"`

	// DefaultRelatedLimit applies when a RelatedTo request has Limit 0.
	// Default: 8
	DefaultRelatedLimit int `json:"default_related_limit"`

	// MaxLimit caps any requested limit.
	// Default: 100
	MaxLimit int `json:"max_limit"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			Brand:         0.6,
			Strain:        0.6,
			Terpene:       0.3,
			Popularity:    0.02,
			RelatedBrand:  0.3,
			RelatedStrain: 0.3,
		},
		Limits: LimitsConfig{
			EventWindow:          500,
			ForYouCandidatePool:  500,
			RelatedCandidatePool: 200,
			DefaultForYouLimit:   12,
			DefaultRelatedLimit:  8,
			MaxLimit:             100,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	weights := []struct {
		name  string
		value float64
	}{
		{"weights.brand", c.Weights.Brand},
		{"weights.strain", c.Weights.Strain},
		{"weights.terpene", c.Weights.Terpene},
		{"weights.popularity", c.Weights.Popularity},
		{"weights.related_brand", c.Weights.RelatedBrand},
		{"weights.related_strain", c.Weights.RelatedStrain},
	}
	for _, w := range weights {
		if w.value < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", w.name, w.value)
		}
	}

	if c.Limits.EventWindow < 1 {
		return fmt.Errorf("limits.event_window must be positive, got %d", c.Limits.EventWindow)
	}
	if c.Limits.ForYouCandidatePool < 1 {
		return fmt.Errorf("limits.for_you_candidate_pool must be positive, got %d", c.Limits.ForYouCandidatePool)
	}
	if c.Limits.RelatedCandidatePool < 1 {
		return fmt.Errorf("limits.related_candidate_pool must be positive, got %d", c.Limits.RelatedCandidatePool)
	}
	if c.Limits.DefaultForYouLimit < 1 {
		return fmt.Errorf("limits.default_for_you_limit must be positive, got %d", c.Limits.DefaultForYouLimit)
	}
	if c.Limits.DefaultRelatedLimit < 1 {
		return fmt.Errorf("limits.default_related_limit must be positive, got %d", c.Limits.DefaultRelatedLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultForYouLimit || c.Limits.MaxLimit < c.Limits.DefaultRelatedLimit {
		return fmt.Errorf("limits.max_limit must be >= both default limits, got %d", c.Limits.MaxLimit)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// all nested structs are value types
	return &Config{
		Weights: c.Weights,
		Limits:  c.Limits,
	}
}
