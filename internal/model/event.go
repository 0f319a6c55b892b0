// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event severities
const (
	EventSeverityInfo    = "info"
	EventSeverityWarning = "warning"
	EventSeverityError   = "error"
)

// Event is an audit log entry recorded by the store and by the logging
// handler for WARN and above records.
type Event struct {
	ID        int64     `json:"id"`
	Severity  string    `json:"severity"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
