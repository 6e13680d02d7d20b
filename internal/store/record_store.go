// SPDX-License-Identifier: Apache-2.0

// Package store implements the offline capture store: a durable, transactional
// persistence layer over a local SQLite database holding four collections —
// captured images, field notes, analysis results and the cached
// reference-symbol list. Records are immutable once written except for the
// sync flag, which only the sync sweep may flip, and are removed only by
// whole-collection clears; no per-record delete exists.
package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reefscan/fieldvault/internal/config"
	"github.com/reefscan/fieldvault/internal/logger"
)

// timeLayout is a fixed-width UTC timestamp format. Unlike RFC3339Nano it
// never trims trailing zeros, so lexicographic order of stored strings equals
// chronological order and the created_at indexes sort correctly.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// RecordStore is the single process-wide handle to the local capture
// database. Construct it with [New], open it once with [RecordStore.Open],
// and share the handle; all methods are safe for concurrent use.
type RecordStore struct {
	cfg config.Storage
	log *logger.Logger

	mu    sync.Mutex // guards open/close
	db    *DB
	ready atomic.Bool

	obsMu     sync.RWMutex
	observers []func()
}

// New constructs an unopened RecordStore. No I/O happens until Open.
func New(cfg config.Storage, log *logger.Logger) *RecordStore {
	return &RecordStore{
		cfg: cfg,
		log: log,
	}
}

// Open connects to the capture database, creating it if absent, and applies
// schema migrations. Open is idempotent: once the store is ready, further
// calls return immediately without re-running setup.
//
// A schema version newer than what exists on disk rebuilds the capture tables
// destructively; see the migrations package.
//
// Failures wrap [ErrInitialization]; the store stays unready and the caller
// may retry.
func (s *RecordStore) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready.Load() {
		return nil
	}

	db, err := NewConnectSQLite(ctx, s.cfg.DB, s.log)
	if err != nil {
		return fmt.Errorf("open capture database: %w: %w", ErrInitialization, err)
	}

	if err = db.Migrate(); err != nil {
		db.Close()
		return fmt.Errorf("migrate capture database: %w: %w", ErrInitialization, err)
	}

	s.db = db
	s.ready.Store(true)
	s.log.Info().Str("dsn", s.cfg.DB.DSN).Msg("capture store opened")

	return nil
}

// Ready reports whether Open has completed successfully and the handle is
// still valid. Every other operation checks this and fails fast with
// [ErrNotReady] instead of attempting the operation.
func (s *RecordStore) Ready() bool {
	return s.ready.Load()
}

// Close releases the database handle. The store can be reopened afterwards.
func (s *RecordStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready.Load() {
		return nil
	}

	s.ready.Store(false)
	err := s.db.Close()
	s.db = nil
	return err
}

// OnChange registers fn to run after every successful mutating operation
// (stores, sweeps, cache replacement, clears). The offline context uses this
// to recompute the pending-upload count reactively instead of relying on
// every write path to remember a manual refresh. Callbacks run synchronously
// on the mutating goroutine and may call back into the store.
func (s *RecordStore) OnChange(fn func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *RecordStore) notifyChange() {
	s.obsMu.RLock()
	observers := s.observers
	s.obsMu.RUnlock()

	for _, fn := range observers {
		fn()
	}
}

// handle returns the live DB or fails fast when the store is not ready.
func (s *RecordStore) handle() (*DB, error) {
	if !s.ready.Load() {
		return nil, ErrNotReady
	}

	s.mu.Lock()
	db := s.db
	s.mu.Unlock()

	if db == nil {
		return nil, ErrNotReady
	}
	return db, nil
}

// ClearAll empties all four collections. Each collection's clear is atomic on
// its own, but the four clears are independent: a failure part-way leaves the
// already-cleared collections empty and reports the failing collection.
func (s *RecordStore) ClearAll(ctx context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	cleared := false
	for _, table := range []string{"images", "field_notes", "analyses", "symbol_cache"} {
		query, args, err := qb.Delete(table).ToSql()
		if err != nil {
			return fmt.Errorf("clear %s: %w: %w", table, ErrBuildingSQLQuery, err)
		}
		if _, err = db.ExecContext(ctx, query, args...); err != nil {
			if cleared {
				s.notifyChange()
			}
			s.log.Err(err).Str("collection", table).Msg("failed to clear collection")
			return fmt.Errorf("clear %s: %w: %w", table, ErrWriteRejected, err)
		}
		cleared = true
	}

	s.log.Info().Msg("cleared all offline data")
	s.notifyChange()
	return nil
}
