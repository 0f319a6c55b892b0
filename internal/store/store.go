// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store owns the embedded relational database and its
// persistence. The database lives entirely in memory; durability is a
// full binary image of the engine, re-serialized into local storage
// after every successful mutating operation and restored on boot.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"

	"github.com/cloudhost/hostcms/internal/localstore"
)

//go:embed migrations/*.sql
var migrations embed.FS

// timeLayout is the canonical text encoding for timestamp columns.
const timeLayout = time.RFC3339Nano

// Store wraps a single in-memory SQLite database together with the
// local storage its image is persisted into. Construct exactly one per
// process with Open and pass the handle to consumers; initialization
// runs asynchronously and every operation waits on it through one
// shared ready signal.
type Store struct {
	db      *sql.DB
	storage localstore.Storage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	ready   chan struct{}
	initErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for lifecycle and maintenance events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides row ID generation. Intended for tests.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// Open constructs the store and starts initialization in the
// background: restore the last persisted image if one exists, otherwise
// create a fresh schema, seed defaults and persist immediately.
// Operations issued before initialization completes suspend until it
// resolves; a failed initialization leaves the instance permanently
// degraded and every operation fails with ErrUninitialized.
func Open(storage localstore.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
		ready:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.initialize()
	return s
}

// errCorruptImage marks a stored image that could not be decoded. It is
// internal to initialization: a corrupt snapshot is discarded and the
// store falls back to fresh schema creation.
var errCorruptImage = errors.New("corrupt database image")

func (s *Store) initialize() {
	defer close(s.ready)

	ctx := context.Background()

	db, err := openEngine()
	if err != nil {
		s.initErr = fmt.Errorf("opening engine: %w", err)
		return
	}
	s.db = db

	restored, err := s.restoreImage(ctx)
	if err != nil {
		if !errors.Is(err, errCorruptImage) {
			s.initErr = fmt.Errorf("loading image: %w", err)
			return
		}
		// A snapshot that cannot be decoded is data already lost;
		// discard it and start over rather than failing every boot.
		s.logger.Warn("discarding corrupt database image", "error", err)
		if rmErr := s.storage.RemoveItem(localstore.KeyDatabaseImage); rmErr != nil {
			s.initErr = fmt.Errorf("removing corrupt image: %w", rmErr)
			return
		}
		// Deserialize may leave the schema half-replaced; reopen.
		_ = db.Close()
		db, err = openEngine()
		if err != nil {
			s.initErr = fmt.Errorf("reopening engine: %w", err)
			return
		}
		s.db = db
		restored = false
	}

	if restored {
		s.logger.Info("database image restored from local storage")
		return
	}

	if err := s.migrate(); err != nil {
		s.initErr = fmt.Errorf("migrating: %w", err)
		return
	}
	if err := s.seed(ctx); err != nil {
		s.initErr = fmt.Errorf("seeding: %w", err)
		return
	}
	if err := s.persistImage(ctx); err != nil {
		s.initErr = fmt.Errorf("persisting initial image: %w", err)
		return
	}
	s.logger.Info("fresh database created, seeded and persisted")
}

// openEngine opens the in-memory SQLite database. The whole database
// lives inside one connection's memory: a second connection would see
// an independent empty database, so the pool is pinned to a single
// connection that is never retired.
func openEngine() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", pragma, err)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return db, nil
}

// migrate runs all pending schema migrations.
func (s *Store) migrate() error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}
	if err := goose.Up(s.db, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// ensureReady blocks until initialization resolves and returns its
// outcome. All early callers share the same signal: there is exactly
// one schema creation and one seeding run regardless of how many
// operations race the boot.
func (s *Store) ensureReady(ctx context.Context) error {
	select {
	case <-s.ready:
		if s.initErr != nil {
			return fmt.Errorf("%w: %v", ErrUninitialized, s.initErr)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitReady blocks until initialization has resolved, returning the
// initialization error if it failed.
func (s *Store) WaitReady(ctx context.Context) error {
	return s.ensureReady(ctx)
}

// Ready reports, without blocking, whether the store initialized
// successfully.
func (s *Store) Ready() bool {
	select {
	case <-s.ready:
		return s.initErr == nil
	default:
		return false
	}
}

// Close releases the underlying engine. It waits for any in-flight
// initialization first so the database is not torn down mid-boot.
func (s *Store) Close() error {
	<-s.ready
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compact runs VACUUM on the live database and rewrites the persisted
// image. Invoked periodically by the maintenance scheduler.
func (s *Store) Compact(ctx context.Context) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return classify("compacting database", err)
	}
	return s.persistImage(ctx)
}

// fmtTime encodes a timestamp for storage.
func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime decodes a stored timestamp. Unparseable values surface as
// the zero time rather than failing the read.
func parseTime(v string) time.Time {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseNullTime decodes an optional stored timestamp.
func parseNullTime(v sql.NullString) sql.NullTime {
	if !v.Valid || v.String == "" {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: parseTime(v.String), Valid: true}
}

// boolToInt translates a logical boolean to its 0/1 column encoding.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// intToBool translates a 0/1 column value back to a logical boolean.
func intToBool(v int) bool {
	return v != 0
}
