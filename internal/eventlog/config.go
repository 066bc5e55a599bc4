// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package eventlog

import (
	"errors"
	"time"
)

// Config holds event log configuration.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the log in memory only. Used by tests and the demo mode.
	InMemory bool

	// SyncWrites fsyncs every append.
	SyncWrites bool

	// Retention expires events after this long via BadgerDB TTL. 0 keeps events forever.
	Retention time.Duration

	// GCInterval is how often the value log GC runs.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Path:       "/data/eventlog",
		SyncWrites: true,
		Retention:  90 * 24 * time.Hour,
		GCInterval: 10 * time.Minute,
		GCRatio:    0.5,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("eventlog path is required unless in-memory")
	}
	if c.Retention < 0 {
		return errors.New("eventlog retention must be non-negative")
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return errors.New("eventlog gc ratio must be in (0, 1)")
	}
	if c.GCInterval <= 0 {
		return errors.New("eventlog gc interval must be positive")
	}
	return nil
}
