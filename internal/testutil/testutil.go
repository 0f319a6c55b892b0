// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for the hostcms project.
package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/store"
)

// TestLogger creates a silent test logger that only outputs warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestLoggerSilent creates a completely silent test logger (error level only).
func TestLoggerSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestStorage creates an in-memory key-value storage for testing.
func TestStorage(t *testing.T) localstore.Storage {
	t.Helper()
	st := localstore.NewMemory()
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// TestStore opens a store over in-memory storage, waits for it to
// initialize and registers cleanup. Fails the test if initialization
// does not complete within ten seconds.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	return TestStoreWith(t, localstore.NewMemory())
}

// TestStoreWith opens a store over the given storage and waits for it
// to initialize. The storage is not closed on cleanup so tests can
// reopen a store over the same backend.
func TestStoreWith(t *testing.T, storage localstore.Storage) *store.Store {
	t.Helper()

	s := store.Open(storage, store.WithLogger(TestLoggerSilent()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.WaitReady(ctx); err != nil {
		t.Fatalf("store init: %v", err)
	}

	t.Cleanup(func() { _ = s.Close() })
	return s
}
