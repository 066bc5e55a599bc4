// Budtender - Cannabis Retail Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/budtender

package eventlog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/budtender/internal/metrics"
	"github.com/tomtom215/budtender/internal/recommend"
)

var (
	// ErrClosed is returned by operations on a closed log.
	ErrClosed = errors.New("event log is closed")

	// ErrInvalidEvent is returned when an event lacks a user or type.
	ErrInvalidEvent = errors.New("invalid user event")
)

const keyPrefix = "evt/"

// Log is an append-only store of user events backed by BadgerDB.
//
// Keys are evt/<user>/<inverted unix nanos>/<id>, so a forward prefix
// scan over one user yields that user's events newest first.
type Log struct {
	db     *badger.DB
	config Config
	logger zerolog.Logger
	now    func() time.Time

	mu     sync.RWMutex
	closed bool

	appends atomic.Int64
}

// Open opens (or creates) the event log.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(cfg Config, logger zerolog.Logger) (*Log, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid eventlog config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	l := &Log{
		db:     db,
		config: cfg,
		logger: logger.With().Str("component", "eventlog").Logger(),
		now:    time.Now,
	}

	l.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Dur("retention", cfg.Retention).
		Msg("event log opened")
	return l, nil
}

// Append stores ev. Empty ID and CreatedAt are filled in.
// The stored event is returned.
//
//nolint:gocritic // hugeParam: ev passed by value, copy is returned
func (l *Log) Append(ctx context.Context, ev recommend.UserEvent) (recommend.UserEvent, error) {
	if err := l.checkOpen(); err != nil {
		return recommend.UserEvent{}, err
	}
	if err := ctx.Err(); err != nil {
		return recommend.UserEvent{}, err
	}
	if ev.UserID == "" {
		return recommend.UserEvent{}, fmt.Errorf("%w: user id is required", ErrInvalidEvent)
	}
	eventType, err := recommend.ParseEventType(string(ev.Type))
	if err != nil {
		return recommend.UserEvent{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	ev.Type = eventType

	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = l.now().UTC()
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return recommend.UserEvent{}, fmt.Errorf("marshal event: %w", err)
	}

	key := eventKey(ev.UserID, ev.CreatedAt, ev.ID)
	err = l.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(key, data)
		if l.config.Retention > 0 {
			e = e.WithTTL(l.config.Retention)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		return recommend.UserEvent{}, fmt.Errorf("write to BadgerDB: %w", err)
	}

	l.appends.Add(1)
	metrics.RecordEventAppend(string(ev.Type))
	return ev, nil
}

// Recent returns up to limit events for userID, newest first.
func (l *Log) Recent(ctx context.Context, userID string, limit int) ([]recommend.UserEvent, error) {
	if err := l.checkOpen(); err != nil {
		return nil, err
	}
	events := make([]recommend.UserEvent, 0)
	if limit <= 0 || userID == "" {
		return events, nil
	}

	prefix := userPrefix(userID)
	err := l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchSize = min(limit, 100)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix) && len(events) < limit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var ev recommend.UserEvent
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			}); err != nil {
				return fmt.Errorf("decode event %s: %w", it.Item().Key(), err)
			}
			events = append(events, ev)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan events: %w", err)
	}
	return events, nil
}

// FindRecentUserEvents lets the log serve as the engine's event source.
func (l *Log) FindRecentUserEvents(ctx context.Context, userID string, limit int) ([]recommend.UserEvent, error) {
	return l.Recent(ctx, userID, limit)
}

// RunGC runs value log GC until there is nothing left to rewrite.
// It returns the number of rewritten value log files.
func (l *Log) RunGC() (int, error) {
	if err := l.checkOpen(); err != nil {
		return 0, err
	}

	rewritten := 0
	for {
		err := l.db.RunValueLogGC(l.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			break
		}
		if err != nil {
			metrics.RecordEventLogGC("error")
			return rewritten, fmt.Errorf("run GC: %w", err)
		}
		rewritten++
	}

	if rewritten > 0 {
		metrics.RecordEventLogGC("rewritten")
	} else {
		metrics.RecordEventLogGC("nothing")
	}
	return rewritten, nil
}

// GCInterval returns the configured GC period.
func (l *Log) GCInterval() time.Duration {
	return l.config.GCInterval
}

// Ping reports whether the log is open.
func (l *Log) Ping(_ context.Context) error {
	return l.checkOpen()
}

// Appends returns the number of events appended since Open.
func (l *Log) Appends() int64 {
	return l.appends.Load()
}

// Close closes the underlying database. Further calls return ErrClosed.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.closed = true

	if err := l.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	l.logger.Info().Int64("appends", l.appends.Load()).Msg("event log closed")
	return nil
}

func (l *Log) checkOpen() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return ErrClosed
	}
	return nil
}

// userPrefix escapes userID so that one user's prefix never matches another's keys.
func userPrefix(userID string) []byte {
	return []byte(keyPrefix + url.PathEscape(userID) + "/")
}

func eventKey(userID string, createdAt time.Time, id string) []byte {
	inverted := uint64(math.MaxInt64 - createdAt.UnixNano())
	return []byte(fmt.Sprintf("%s%016x/%s", userPrefix(userID), inverted, id))
}
