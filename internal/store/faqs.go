// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/cloudhost/hostcms/internal/model"
)

// GetFAQs returns all FAQs in display order.
func (s *Store) GetFAQs(ctx context.Context) ([]model.FAQ, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, answer FROM faqs ORDER BY faq_order`)
	if err != nil {
		return nil, classify("listing faqs", err)
	}
	defer func() { _ = rows.Close() }()

	var faqs []model.FAQ
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer); err != nil {
			return nil, classify("scanning faq", err)
		}
		faqs = append(faqs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing faqs", err)
	}
	return faqs, nil
}

// SaveFAQs replaces the full FAQ list atomically, keeping the given
// order as display order, then persists the image.
func (s *Store) SaveFAQs(ctx context.Context, faqs []model.FAQ) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("saving faqs", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM faqs`); err != nil {
		return classify("clearing faqs", err)
	}
	for i, f := range faqs {
		id := f.ID
		if id == "" {
			id = s.newID()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO faqs (id, question, answer, faq_order) VALUES (?, ?, ?, ?)`,
			id, f.Question, f.Answer, i+1,
		); err != nil {
			return classify("inserting faq", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("committing faqs", err)
	}
	return s.persistImage(ctx)
}
