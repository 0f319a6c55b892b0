// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"sort"
)

// GetSettings returns all settings as a key/value map.
func (s *Store) GetSettings(ctx context.Context) (map[string]string, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, classify("listing settings", err)
	}
	defer func() { _ = rows.Close() }()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, classify("scanning setting", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing settings", err)
	}
	return settings, nil
}

// UpdateSettings upserts every given key/value atomically: either all
// keys are applied and the image persisted, or a statement failure
// rolls the whole batch back and nothing changes. The image write
// happens only after a successful commit.
func (s *Store) UpdateSettings(ctx context.Context, settings map[string]string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if len(settings) == 0 {
		return nil
	}

	// Deterministic statement order regardless of map iteration.
	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("updating settings", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := fmtTime(s.now())
	for _, key := range keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			key, settings[key], now,
		); err != nil {
			return classify("upserting setting", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("committing settings", err)
	}
	return s.persistImage(ctx)
}
