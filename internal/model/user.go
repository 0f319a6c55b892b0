// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the
// application including User, Page, Element and Setting structures.
package model

import (
	"database/sql"
	"time"
)

// User roles
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User statuses
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User represents an admin console user.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	Status       string       `json:"status"`
	LastActiveAt sql.NullTime `json:"last_active_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActive returns true if the user account is active.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// ValidRole reports whether role is one of the defined user roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor || role == RoleViewer
}
