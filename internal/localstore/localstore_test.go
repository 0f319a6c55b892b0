// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package localstore

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
)

// backendTest exercises the Storage contract shared by all backends.
func backendTest(t *testing.T, st Storage) {
	t.Helper()

	_, err := st.GetItem("missing")
	if !errors.Is(err, ErrNoItem) {
		t.Fatalf("GetItem(missing) = %v, want ErrNoItem", err)
	}

	if err := st.SetItem("key1", "value1"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	v, err := st.GetItem("key1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if v != "value1" {
		t.Errorf("GetItem = %q, want value1", v)
	}

	// Overwrite replaces the prior value.
	if err := st.SetItem("key1", "value2"); err != nil {
		t.Fatalf("SetItem overwrite: %v", err)
	}
	v, _ = st.GetItem("key1")
	if v != "value2" {
		t.Errorf("after overwrite = %q, want value2", v)
	}

	if err := st.RemoveItem("key1"); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, err := st.GetItem("key1"); !errors.Is(err, ErrNoItem) {
		t.Errorf("after remove = %v, want ErrNoItem", err)
	}

	// Removing an absent key is not an error.
	if err := st.RemoveItem("key1"); err != nil {
		t.Errorf("RemoveItem(absent) = %v, want nil", err)
	}
}

func TestMemoryStorage(t *testing.T) {
	m := NewMemory()
	backendTest(t, m)

	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := m.SetItem("k", "v"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetItem after close = %v, want ErrClosed", err)
	}
	if _, err := m.GetItem("k"); !errors.Is(err, ErrClosed) {
		t.Errorf("GetItem after close = %v, want ErrClosed", err)
	}
}

func TestMemoryStorageConcurrent(t *testing.T) {
	m := NewMemory()
	defer func() { _ = m.Close() }()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.SetItem("shared", strings.Repeat("x", 64))
			_, _ = m.GetItem("shared")
		}()
	}
	wg.Wait()

	v, err := m.GetItem("shared")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(v) != 64 {
		t.Errorf("value length = %d, want 64 (no torn write)", len(v))
	}
}

func TestFileStorage(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	defer func() { _ = f.Close() }()
	backendTest(t, f)
}

func TestFileStoragePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	f1, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := f1.SetItem(KeyDatabaseImage, "image-bytes"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	_ = f1.Close()

	f2, err := NewFile(dir)
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	v, err := f2.GetItem(KeyDatabaseImage)
	if err != nil {
		t.Fatalf("GetItem after reopen: %v", err)
	}
	if v != "image-bytes" {
		t.Errorf("GetItem = %q, want image-bytes", v)
	}
}

func TestFileStorageUnsafeKeys(t *testing.T) {
	f, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	// Keys with path characters must not escape the storage directory.
	key := "../outside/:key"
	if err := f.SetItem(key, "v"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	v, err := f.GetItem(key)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if v != "v" {
		t.Errorf("GetItem = %q, want v", v)
	}
	if _, err := os.Stat(f.path(key)); err != nil {
		t.Errorf("backing file missing: %v", err)
	}
	if !strings.HasPrefix(f.path(key), f.dir) {
		t.Errorf("path %q escapes storage dir %q", f.path(key), f.dir)
	}
}

func TestFactory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := New(Options{Backend: BackendMemory}, logger)
	if err != nil {
		t.Fatalf("New(memory): %v", err)
	}
	if _, ok := st.(*Memory); !ok {
		t.Errorf("backend = %T, want *Memory", st)
	}

	st, err = New(Options{Backend: BackendFile, Dir: t.TempDir()}, logger)
	if err != nil {
		t.Fatalf("New(file): %v", err)
	}
	if _, ok := st.(*File); !ok {
		t.Errorf("backend = %T, want *File", st)
	}

	if _, err := New(Options{Backend: "etcd"}, logger); err == nil {
		t.Error("unknown backend accepted")
	}
}
