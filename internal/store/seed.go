// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudhost/hostcms/internal/auth"
	"github.com/cloudhost/hostcms/internal/model"
)

// Default admin credentials
const (
	DefaultAdminEmail    = "admin@cloudhost.com"
	DefaultAdminPassword = "changeme"
	DefaultAdminName     = "Admin User"
)

// defaultSettings are seeded on first boot.
var defaultSettings = map[string]string{
	model.SettingKeySiteName:     "CloudHost",
	model.SettingKeySiteURL:      "https://cloudhost.com",
	model.SettingKeyContactEmail: "info@cloudhost.com",
}

// defaultPermissions is the static permission set with its role grants.
var defaultPermissions = []model.Permission{
	{Name: "Manage Users", Description: "Create, edit, and delete users", GrantedRoles: []string{model.RoleAdmin}},
	{Name: "Edit Content", Description: "Edit website content, pricing, and FAQs", GrantedRoles: []string{model.RoleAdmin, model.RoleEditor}},
	{Name: "View Dashboard", Description: "View dashboard statistics", GrantedRoles: []string{model.RoleAdmin, model.RoleEditor, model.RoleViewer}},
	{Name: "Change Settings", Description: "Modify website settings", GrantedRoles: []string{model.RoleAdmin}},
}

// defaultPricingPlans mirror the plans shown on the marketing site.
var defaultPricingPlans = []model.PricingPlan{
	{
		Name:         "Starter",
		MonthlyPrice: 5.99,
		YearlyPrice:  4.99,
		Features: []string{
			"1 Website", "10GB SSD Storage", "Unmetered Bandwidth",
			"Free SSL Certificate", "1 Email Account", "24/7 Support",
		},
		Popular: false,
		CTA:     "Get Started",
	},
	{
		Name:         "Professional",
		MonthlyPrice: 12.99,
		YearlyPrice:  9.99,
		Features: []string{
			"10 Websites", "50GB SSD Storage", "Unmetered Bandwidth",
			"Free SSL Certificates", "20 Email Accounts", "24/7 Priority Support",
		},
		Popular: true,
		CTA:     "Get Started",
	},
	{
		Name:         "Business",
		MonthlyPrice: 24.99,
		YearlyPrice:  19.99,
		Features: []string{
			"Unlimited Websites", "100GB SSD Storage", "Unmetered Bandwidth",
			"Free SSL Certificates", "Unlimited Email Accounts", "24/7 Priority Support",
		},
		Popular: false,
		CTA:     "Get Started",
	},
}

// defaultFAQs are seeded for the marketing site FAQ section.
var defaultFAQs = []model.FAQ{
	{
		Question: "How reliable is your hosting?",
		Answer: "We offer **99.9% uptime** guarantee on all our hosting plans. " +
			"Our infrastructure is built on enterprise-grade hardware with redundant systems to ensure your website stays online.",
	},
	{
		Question: "Do you offer refunds?",
		Answer: "Yes, we offer a **30-day money-back guarantee** on all our hosting plans. " +
			"If you're not satisfied with our service, you can request a full refund within the first 30 days.",
	},
	{
		Question: "Can I upgrade my plan later?",
		Answer: "Absolutely! You can upgrade your hosting plan at any time. " +
			"The price difference will be prorated for the remainder of your billing cycle.",
	},
	{
		Question: "Do you offer WordPress hosting?",
		Answer: "Yes, all our hosting plans are optimized for WordPress. " +
			"We also offer one-click WordPress installation to help you get started quickly.",
	},
}

// seed creates the initial data for a freshly migrated database:
// default settings, the permission set, marketing content and an admin
// user when the users table is empty. Runs inside initialization, so it
// writes through the raw engine rather than the public operations.
func (s *Store) seed(ctx context.Context) error {
	now := fmtTime(s.now())

	for key, value := range defaultSettings {
		if _, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			key, value, now,
		); err != nil {
			return fmt.Errorf("seeding setting %q: %w", key, err)
		}
	}

	for _, p := range defaultPermissions {
		id := s.newID()
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO permissions (id, name, description) VALUES (?, ?, ?)`,
			id, p.Name, p.Description,
		); err != nil {
			return fmt.Errorf("seeding permission %q: %w", p.Name, err)
		}
		for _, role := range p.GrantedRoles {
			if _, err := s.db.ExecContext(ctx,
				`INSERT INTO roles_permissions (role_name, permission_id) VALUES (?, ?)`,
				role, id,
			); err != nil {
				return fmt.Errorf("granting %q to %q: %w", p.Name, role, err)
			}
		}
	}

	for i, plan := range defaultPricingPlans {
		features, err := json.Marshal(plan.Features)
		if err != nil {
			return fmt.Errorf("encoding features for %q: %w", plan.Name, err)
		}
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO pricing_plans (id, name, monthly_price, yearly_price, features, popular, cta, plan_order)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			s.newID(), plan.Name, plan.MonthlyPrice, plan.YearlyPrice,
			string(features), boolToInt(plan.Popular), plan.CTA, i+1,
		); err != nil {
			return fmt.Errorf("seeding plan %q: %w", plan.Name, err)
		}
	}

	for i, faq := range defaultFAQs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO faqs (id, question, answer, faq_order) VALUES (?, ?, ?, ?)`,
			s.newID(), faq.Question, faq.Answer, i+1,
		); err != nil {
			return fmt.Errorf("seeding faq %q: %w", faq.Question, err)
		}
	}

	var userCount int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&userCount); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	hash, err := auth.HashPassword(DefaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hashing default password: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.newID(), DefaultAdminName, DefaultAdminEmail, hash,
		model.RoleAdmin, model.UserStatusActive, now,
	); err != nil {
		return fmt.Errorf("seeding admin user: %w", err)
	}

	s.logger.Info("created default admin user", "email", DefaultAdminEmail)
	return nil
}
