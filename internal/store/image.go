// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/cloudhost/hostcms/internal/localstore"
)

// persistImage serializes the entire database and writes it, base64
// encoded, under the image key. This is the durability contract: there
// is no row-level persistence, so a crash between an in-memory commit
// and the completion of this write loses that mutation. Every mutating
// operation calls this before returning.
func (s *Store) persistImage(ctx context.Context) error {
	image, err := s.exportImage(ctx)
	if err != nil {
		return fmt.Errorf("%w: exporting: %v", ErrSerialization, err)
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	if err := s.storage.SetItem(localstore.KeyDatabaseImage, encoded); err != nil {
		return fmt.Errorf("%w: writing to local storage: %v", ErrSerialization, err)
	}
	return nil
}

// exportImage returns the full binary snapshot of the live database.
func (s *Store) exportImage(ctx context.Context) ([]byte, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	var image []byte
	err = conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		b, serr := sc.Serialize("")
		if serr != nil {
			return serr
		}
		// Serialize returns memory owned by SQLite; copy before the
		// connection goes back to the pool.
		image = append([]byte(nil), b...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return image, nil
}

// restoreImage loads the last persisted image, if any, and makes it the
// live database. Returns false with a nil error when storage holds no
// image; errors wrapping errCorruptImage when a stored image cannot be
// decoded or deserialized.
func (s *Store) restoreImage(ctx context.Context) (bool, error) {
	encoded, err := s.storage.GetItem(localstore.KeyDatabaseImage)
	if errors.Is(err, localstore.ErrNoItem) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading from local storage: %w", err)
	}

	image, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: decoding base64: %v", errCorruptImage, err)
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = conn.Close() }()

	err = conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*sqlite3.SQLiteConn)
		if !ok {
			return fmt.Errorf("unexpected driver connection %T", driverConn)
		}
		return sc.Deserialize(image, "")
	})
	if err != nil {
		return false, fmt.Errorf("%w: deserializing: %v", errCorruptImage, err)
	}

	// Sanity-check that the restored image carries the expected schema.
	var n int
	if err := conn.QueryRowContext(ctx, "SELECT count(*) FROM users").Scan(&n); err != nil {
		return false, fmt.Errorf("%w: verifying schema: %v", errCorruptImage, err)
	}
	return true, nil
}
