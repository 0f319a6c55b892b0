// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"

	"github.com/cloudhost/hostcms/internal/model"
	"github.com/cloudhost/hostcms/internal/store"
	"github.com/cloudhost/hostcms/internal/testutil"
)

func TestProjectMenu(t *testing.T) {
	pages := []model.Page{
		{Slug: "hidden", IsPublished: true, ShowInMenu: false, Order: 1},
		{Slug: "draft", IsPublished: false, ShowInMenu: true, Order: 2},
		{Slug: "pricing", IsPublished: true, ShowInMenu: true, Order: 3},
		{Slug: "home", IsPublished: true, ShowInMenu: true, Order: 1},
	}

	menu := ProjectMenu(pages)
	if len(menu) != 2 {
		t.Fatalf("menu size = %d, want 2", len(menu))
	}
	if menu[0].Slug != "home" || menu[1].Slug != "pricing" {
		t.Errorf("menu order = %s, %s; want home, pricing", menu[0].Slug, menu[1].Slug)
	}
}

func TestProjectMenuStableOnEqualOrder(t *testing.T) {
	pages := []model.Page{
		{Slug: "first", IsPublished: true, ShowInMenu: true, Order: 1},
		{Slug: "second", IsPublished: true, ShowInMenu: true, Order: 1},
	}
	menu := ProjectMenu(pages)
	if menu[0].Slug != "first" || menu[1].Slug != "second" {
		t.Errorf("equal orders reordered: %s, %s", menu[0].Slug, menu[1].Slug)
	}

	if got := ProjectMenu(nil); len(got) != 0 {
		t.Errorf("ProjectMenu(nil) = %v, want empty", got)
	}
}

func TestMenuServiceReflectsRegistry(t *testing.T) {
	st := testutil.TestStore(t)
	ctx := context.Background()
	svc := NewMenuService(st)

	menu, err := svc.GetMenu(ctx)
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if len(menu) != 0 {
		t.Fatalf("fresh menu size = %d, want 0", len(menu))
	}

	p, err := st.CreatePage(ctx, store.CreatePageParams{
		Title: "Home", Slug: "home", IsPublished: true, ShowInMenu: true,
	})
	if err != nil {
		t.Fatalf("CreatePage: %v", err)
	}

	menu, err = svc.GetMenu(ctx)
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if len(menu) != 1 || menu[0].Slug != "home" {
		t.Errorf("menu = %+v, want one entry home", menu)
	}

	// Unpublishing removes the entry on the next read; no cache.
	if _, err := st.UpdatePage(ctx, store.UpdatePageParams{
		ID: p.ID, Title: p.Title, Content: p.Content, IsPublished: false, ShowInMenu: true,
	}); err != nil {
		t.Fatalf("UpdatePage: %v", err)
	}
	menu, err = svc.GetMenu(ctx)
	if err != nil {
		t.Fatalf("GetMenu: %v", err)
	}
	if len(menu) != 0 {
		t.Errorf("menu after unpublish = %+v, want empty", menu)
	}
}
