// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package localstore

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// safeKey matches keys that can be used directly as file names.
var safeKey = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// File is a Storage backed by a directory with one file per key. Writes
// go through a temporary file and rename so a crash mid-write never
// leaves a truncated value behind.
type File struct {
	dir string
	mu  sync.RWMutex
}

// NewFile creates a file-backed storage rooted at dir, creating the
// directory if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &File{dir: dir}, nil
}

// path maps a key to its backing file. Keys outside the safe character
// set are hex-encoded to keep the mapping collision-free.
func (f *File) path(key string) string {
	name := key
	if !safeKey.MatchString(key) {
		name = "x" + hex.EncodeToString([]byte(key))
	}
	return filepath.Join(f.dir, name+".item")
}

// GetItem retrieves the value stored under key.
func (f *File) GetItem(key string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	b, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return "", ErrNoItem
	}
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", key, err)
	}
	return string(b), nil
}

// SetItem stores value under key atomically.
func (f *File) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	target := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("renaming %q into place: %w", key, err)
	}
	return nil
}

// RemoveItem deletes key.
func (f *File) RemoveItem(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

// Close is a no-op for file storage.
func (f *File) Close() error {
	return nil
}
