// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides read-side projections over the store for
// frontend rendering.
package service

import (
	"context"
	"sort"

	"github.com/cloudhost/hostcms/internal/model"
	"github.com/cloudhost/hostcms/internal/store"
)

// ProjectMenu derives the navigation menu from registry pages: only
// published pages marked for the menu, sorted by their explicit order.
// The sort is stable, so pages sharing an order keep their original
// relative sequence. The projection is recomputed from the rows on
// every call and never cached.
func ProjectMenu(pages []model.Page) []model.Page {
	menu := make([]model.Page, 0, len(pages))
	for _, p := range pages {
		if p.IsPublished && p.ShowInMenu {
			menu = append(menu, p)
		}
	}
	sort.SliceStable(menu, func(i, j int) bool {
		return menu[i].Order < menu[j].Order
	})
	return menu
}

// MenuService serves the navigation menu from the store.
type MenuService struct {
	store *store.Store
}

// NewMenuService creates a MenuService.
func NewMenuService(st *store.Store) *MenuService {
	return &MenuService{store: st}
}

// GetMenu returns the menu-visible pages in display order.
func (s *MenuService) GetMenu(ctx context.Context) ([]model.Page, error) {
	pages, err := s.store.GetPages(ctx)
	if err != nil {
		return nil, err
	}
	return ProjectMenu(pages), nil
}
