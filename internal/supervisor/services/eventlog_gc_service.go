// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/budtender/internal/eventlog"
)

// GarbageCollector is the maintenance surface of *eventlog.Log.
type GarbageCollector interface {
	RunGC() (int, error)
	GCInterval() time.Duration
}

// EventLogGCService periodically reclaims space in the event log's value log.
type EventLogGCService struct {
	log      GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
	name     string
}

// NewEventLogGCService creates the GC loop. The interval comes from the log;
// a non-positive value becomes 10 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventLogGCService(log GarbageCollector, logger zerolog.Logger) *EventLogGCService {
	interval := log.GCInterval()
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &EventLogGCService{
		log:      log,
		interval: interval,
		logger:   logger.With().Str("service", "eventlog-gc").Logger(),
		name:     "eventlog-gc",
	}
}

// Serve implements suture.Service. A closed log stops the service for good.
func (s *EventLogGCService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Event log GC service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Event log GC service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if err := s.collect(); err != nil {
				if errors.Is(err, eventlog.ErrClosed) {
					s.logger.Warn().Msg("Event log closed, stopping GC")
					return suture.ErrDoNotRestart
				}
				s.logger.Warn().Err(err).Msg("Event log GC failed")
			}
		}
	}
}

func (s *EventLogGCService) collect() error {
	start := time.Now()
	rewritten, err := s.log.RunGC()
	if err != nil {
		return err
	}
	s.logger.Debug().
		Int("rewritten", rewritten).
		Dur("duration", time.Since(start)).
		Msg("Event log GC pass complete")
	return nil
}

// String identifies the service in supervisor logs.
func (s *EventLogGCService) String() string {
	return s.name
}
