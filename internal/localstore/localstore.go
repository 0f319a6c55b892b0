// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package localstore provides the local key-value storage layer that
// durable state is written into: the full database image, the builder
// drafts, the signed-in user and the legacy page list all live under
// well-known keys here. Implementations must be safe for concurrent use.
package localstore

// Well-known storage keys.
const (
	KeyDatabaseImage = "cloudhost_db"
	KeySession       = "cloudhost_session"
	KeyBuilderPages  = "cloudhost_builder_pages"
	KeyPages         = "cloudhost_pages"
)

// Storage is a minimal string key-value store. Writes must be atomic per
// key: a reader never observes a partially written value.
type Storage interface {
	// GetItem retrieves the value stored under key.
	// Returns ErrNoItem if the key is absent.
	GetItem(key string) (string, error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(key, value string) error

	// RemoveItem deletes key. Removing an absent key is not an error.
	RemoveItem(key string) error

	// Close releases any resources held by the storage.
	Close() error
}

// Error represents an error type for storage operations.
type Error string

func (e Error) Error() string {
	return string(e)
}

const (
	// ErrNoItem indicates the key was not found in storage.
	ErrNoItem Error = "no item"

	// ErrClosed indicates the storage has been closed.
	ErrClosed Error = "storage closed"
)
