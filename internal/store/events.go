// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"github.com/cloudhost/hostcms/internal/model"
)

// RecordEvent appends an audit log entry. Events deliberately skip the
// per-mutation image write: they ride along with the next one, so audit
// logging cannot amplify every log line into a full-image serialize.
func (s *Store) RecordEvent(ctx context.Context, severity, source, message string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO events (severity, source, message, created_at) VALUES (?, ?, ?, ?)`,
		severity, source, message, fmtTime(s.now()),
	); err != nil {
		return classify("recording event", err)
	}
	return nil
}

// RecentEvents returns up to limit newest events.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]model.Event, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, severity, source, message, created_at
		 FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, classify("listing events", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Severity, &e.Source, &e.Message, &createdAt); err != nil {
			return nil, classify("scanning event", err)
		}
		e.CreatedAt = parseTime(createdAt)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing events", err)
	}
	return events, nil
}

// PruneEvents deletes events older than the retention window and, when
// anything was removed, persists the image. Called from the maintenance
// scheduler.
func (s *Store) PruneEvents(ctx context.Context, retention time.Duration) (int64, error) {
	if err := s.ensureReady(ctx); err != nil {
		return 0, err
	}

	cutoff := fmtTime(s.now().Add(-retention))
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, classify("pruning events", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return 0, nil
	}
	if err := s.persistImage(ctx); err != nil {
		return n, err
	}
	return n, nil
}
