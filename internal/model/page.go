// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Page represents a published registry page. Registry rows are complete
// pages keyed by a unique slug; the builder's draft representation
// (BuilderPage) is a separate entity joined to the registry only at
// publish time.
type Page struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Content     string    `json:"content"`
	IsPublished bool      `json:"isPublished"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Order       int       `json:"order"`
	ShowInMenu  bool      `json:"showInMenu"`
}

// BuilderPage is an authoring-time draft: an ordered sequence of typed
// content elements plus page metadata. Element order is array position,
// not a stored field.
type BuilderPage struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Elements    []Element `json:"elements"`
	IsPublished bool      `json:"isPublished"`
	ShowInMenu  bool      `json:"showInMenu"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Order       int       `json:"order"`
}
