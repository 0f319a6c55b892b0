// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// PricingPlan is a hosting plan shown on the marketing site and edited
// through the admin console.
type PricingPlan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice float64  `json:"monthlyPrice"`
	YearlyPrice  float64  `json:"yearlyPrice"`
	Features     []string `json:"features"`
	Popular      bool     `json:"popular"`
	CTA          string   `json:"cta"`
}
