// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/budtender/internal/eventlog"
)

type fakeGC struct {
	interval time.Duration
	err      error
	runs     atomic.Int32
}

func (f *fakeGC) RunGC() (int, error) {
	f.runs.Add(1)
	return 1, f.err
}

func (f *fakeGC) GCInterval() time.Duration { return f.interval }

func waitForRuns(t *testing.T, gc *fakeGC, n int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for gc.runs.Load() < n && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
	}
	if got := gc.runs.Load(); got < n {
		t.Fatalf("RunGC called %d times, want at least %d", got, n)
	}
}

func TestEventLogGCService_RunsOnInterval(t *testing.T) {
	t.Parallel()

	gc := &fakeGC{interval: 5 * time.Millisecond}
	svc := NewEventLogGCService(gc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitForRuns(t, gc, 3)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestEventLogGCService_KeepsRunningAfterError(t *testing.T) {
	t.Parallel()

	gc := &fakeGC{interval: 5 * time.Millisecond, err: errors.New("disk hiccup")}
	svc := NewEventLogGCService(gc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	waitForRuns(t, gc, 2)
	cancel()
	<-done
}

func TestEventLogGCService_StopsWhenLogClosed(t *testing.T) {
	t.Parallel()

	gc := &fakeGC{interval: 5 * time.Millisecond, err: fmt.Errorf("run: %w", eventlog.ErrClosed)}
	svc := NewEventLogGCService(gc, zerolog.Nop())

	select {
	case err := <-serveAsync(svc):
		if !errors.Is(err, suture.ErrDoNotRestart) {
			t.Errorf("Serve() error = %v, want suture.ErrDoNotRestart", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not stop on a closed log")
	}
}

func TestEventLogGCService_RealLog(t *testing.T) {
	t.Parallel()

	cfg := eventlog.DefaultConfig()
	cfg.InMemory = true
	log, err := eventlog.Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	svc := NewEventLogGCService(log, zerolog.Nop())
	if svc.interval != cfg.GCInterval {
		t.Errorf("interval = %v, want %v", svc.interval, cfg.GCInterval)
	}

	// In-memory logs have nothing to rewrite.
	if err := svc.collect(); err != nil {
		t.Errorf("collect() error = %v", err)
	}

	if err := log.Close(); err != nil {
		t.Fatal(err)
	}
	if err := svc.collect(); !errors.Is(err, eventlog.ErrClosed) {
		t.Errorf("collect() after close error = %v, want ErrClosed", err)
	}
}

func TestEventLogGCService_DefaultInterval(t *testing.T) {
	t.Parallel()

	svc := NewEventLogGCService(&fakeGC{}, zerolog.Nop())
	if svc.interval != 10*time.Minute {
		t.Errorf("interval = %v, want 10m", svc.interval)
	}
	if svc.String() != "eventlog-gc" {
		t.Errorf("String() = %q", svc.String())
	}
}

func serveAsync(svc *EventLogGCService) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- svc.Serve(context.Background()) }()
	return ch
}
