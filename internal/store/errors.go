// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Store error taxonomy. Every public operation returns one of these
// sentinels (wrapped with context) rather than raising lower-level
// failures past the store boundary.
var (
	// ErrNotFound indicates a lookup miss.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredential indicates an authentication mismatch.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrUninitialized indicates an operation against a store whose
	// initialization did not complete successfully. Initialization
	// failure is sticky: the instance stays degraded until restart.
	ErrUninitialized = errors.New("store not initialized")

	// ErrConstraint indicates a unique-key violation such as a
	// duplicate email or slug.
	ErrConstraint = errors.New("constraint violation")

	// ErrSerialization indicates a database image encode or decode
	// failure.
	ErrSerialization = errors.New("image serialization failure")

	// ErrStore is the catch-all for lower-level engine failures.
	ErrStore = errors.New("store error")
)

// classify maps an engine error onto the store taxonomy.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%s: %w: %v", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStore, err)
}
