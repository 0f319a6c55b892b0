// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudhost/hostcms/internal/model"
)

// GetPricingPlans returns all pricing plans in display order.
func (s *Store) GetPricingPlans(ctx context.Context) ([]model.PricingPlan, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, monthly_price, yearly_price, features, popular, cta
		FROM pricing_plans ORDER BY plan_order`)
	if err != nil {
		return nil, classify("listing pricing plans", err)
	}
	defer func() { _ = rows.Close() }()

	var plans []model.PricingPlan
	for rows.Next() {
		var p model.PricingPlan
		var features string
		var popular int
		if err := rows.Scan(&p.ID, &p.Name, &p.MonthlyPrice, &p.YearlyPrice,
			&features, &popular, &p.CTA); err != nil {
			return nil, classify("scanning pricing plan", err)
		}
		if err := json.Unmarshal([]byte(features), &p.Features); err != nil {
			return nil, fmt.Errorf("decoding features for %q: %w: %v", p.Name, ErrStore, err)
		}
		p.Popular = intToBool(popular)
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing pricing plans", err)
	}
	return plans, nil
}

// SavePricingPlans replaces the full plan list atomically, keeping the
// given order as display order, then persists the image. Plans without
// an ID are assigned one.
func (s *Store) SavePricingPlans(ctx context.Context, plans []model.PricingPlan) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("saving pricing plans", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM pricing_plans`); err != nil {
		return classify("clearing pricing plans", err)
	}
	for i, p := range plans {
		id := p.ID
		if id == "" {
			id = s.newID()
		}
		features, err := json.Marshal(p.Features)
		if err != nil {
			return fmt.Errorf("encoding features for %q: %w: %v", p.Name, ErrStore, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO pricing_plans (id, name, monthly_price, yearly_price, features, popular, cta, plan_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, p.Name, p.MonthlyPrice, p.YearlyPrice, string(features),
			boolToInt(p.Popular), p.CTA, i+1,
		); err != nil {
			return classify("inserting pricing plan", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return classify("committing pricing plans", err)
	}
	return s.persistImage(ctx)
}
