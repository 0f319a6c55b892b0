// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Setting keys seeded on first boot
const (
	SettingKeySiteName     = "site_name"
	SettingKeySiteURL      = "site_url"
	SettingKeyContactEmail = "contact_email"
)

// Setting is a site configuration entry. Settings are upsert-only and
// never deleted.
type Setting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
