// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/model"
	"github.com/cloudhost/hostcms/internal/render"
)

const pageColumns = `id, title, slug, content, is_published, created_at, updated_at, page_order, show_in_menu`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	var isPublished, inMenu int
	var createdAt, updatedAt string
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &isPublished,
		&createdAt, &updatedAt, &p.Order, &inMenu)
	if err != nil {
		return model.Page{}, err
	}
	p.IsPublished = intToBool(isPublished)
	p.ShowInMenu = intToBool(inMenu)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// GetPages returns all registry pages ordered by their menu order.
func (s *Store) GetPages(ctx context.Context) ([]model.Page, error) {
	if err := s.ensureReady(ctx); err != nil {
		return nil, err
	}
	return s.listPages(ctx)
}

func (s *Store) listPages(ctx context.Context) ([]model.Page, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY page_order, created_at`)
	if err != nil {
		return nil, classify("listing pages", err)
	}
	defer func() { _ = rows.Close() }()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, classify("scanning page", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listing pages", err)
	}
	return pages, nil
}

// GetPageBySlug returns the registry page with the given slug, or
// ErrNotFound.
func (s *Store) GetPageBySlug(ctx context.Context, slug string) (model.Page, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.Page{}, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE slug = ?`, slug)
	p, err := scanPage(row)
	if err != nil {
		return model.Page{}, classify("looking up page", err)
	}
	return p, nil
}

// CreatePageParams are the inputs for CreatePage.
type CreatePageParams struct {
	Title       string
	Slug        string
	Content     string
	IsPublished bool
	ShowInMenu  bool
	// Order of 0 means append after the current last page.
	Order int
	// CompiledContent marks Content as block-compiler output, built
	// entirely from escaped element data, to be stored verbatim.
	// Hand-authored content leaves this false and is sanitized.
	CompiledContent bool
}

// CreatePage inserts a registry page and persists the image.
// Hand-authored content is sanitized on the way in; a duplicate slug
// fails with ErrConstraint.
func (s *Store) CreatePage(ctx context.Context, params CreatePageParams) (model.Page, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.Page{}, err
	}

	order := params.Order
	if order == 0 {
		var count int
		if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM pages`).Scan(&count); err != nil {
			return model.Page{}, classify("counting pages", err)
		}
		order = count + 1
	}

	content := params.Content
	if !params.CompiledContent {
		content = render.SanitizeHTML(content)
	}

	now := s.now()
	p := model.Page{
		ID:          s.newID(),
		Title:       params.Title,
		Slug:        params.Slug,
		Content:     content,
		IsPublished: params.IsPublished,
		ShowInMenu:  params.ShowInMenu,
		CreatedAt:   now,
		UpdatedAt:   now,
		Order:       order,
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (id, title, slug, content, is_published, created_at, updated_at, page_order, show_in_menu)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Slug, p.Content, boolToInt(p.IsPublished),
		fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt), p.Order, boolToInt(p.ShowInMenu),
	); err != nil {
		return model.Page{}, classify("creating page", err)
	}

	if err := s.persistImage(ctx); err != nil {
		return model.Page{}, err
	}
	s.syncPagesMirror(ctx)
	return p, nil
}

// UpdatePageParams are the inputs for UpdatePage.
type UpdatePageParams struct {
	ID          string
	Title       string
	Content     string
	IsPublished bool
	ShowInMenu  bool
	// CompiledContent has the same meaning as in CreatePageParams.
	CompiledContent bool
}

// UpdatePage rewrites a registry page in place (title, content, flags,
// updated-at) and persists the image.
func (s *Store) UpdatePage(ctx context.Context, params UpdatePageParams) (model.Page, error) {
	if err := s.ensureReady(ctx); err != nil {
		return model.Page{}, err
	}

	content := params.Content
	if !params.CompiledContent {
		content = render.SanitizeHTML(content)
	}
	now := s.now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE pages SET title = ?, content = ?, is_published = ?, show_in_menu = ?, updated_at = ?
		 WHERE id = ?`,
		params.Title, content, boolToInt(params.IsPublished),
		boolToInt(params.ShowInMenu), fmtTime(now), params.ID,
	)
	if err != nil {
		return model.Page{}, classify("updating page", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Page{}, fmt.Errorf("updating page: %w", ErrNotFound)
	}

	if err := s.persistImage(ctx); err != nil {
		return model.Page{}, err
	}
	s.syncPagesMirror(ctx)

	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, params.ID)
	p, err := scanPage(row)
	if err != nil {
		return model.Page{}, classify("reloading page", err)
	}
	return p, nil
}

// DeletePage removes a registry page durably.
func (s *Store) DeletePage(ctx context.Context, id string) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return classify("deleting page", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("deleting page: %w", ErrNotFound)
	}

	if err := s.persistImage(ctx); err != nil {
		return err
	}
	s.syncPagesMirror(ctx)
	return nil
}

// MovePage swaps a page's menu order with its neighbor: delta -1 moves
// it up, +1 moves it down. Moving past either end is a no-op.
func (s *Store) MovePage(ctx context.Context, id string, delta int) error {
	if err := s.ensureReady(ctx); err != nil {
		return err
	}
	if delta != -1 && delta != 1 {
		return fmt.Errorf("moving page: %w: delta must be -1 or 1", ErrStore)
	}

	pages, err := s.listPages(ctx)
	if err != nil {
		return err
	}
	idx := -1
	for i := range pages {
		if pages[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("moving page: %w", ErrNotFound)
	}
	other := idx + delta
	if other < 0 || other >= len(pages) {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("moving page", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, upd := range []struct {
		id    string
		order int
	}{
		{pages[idx].ID, pages[other].Order},
		{pages[other].ID, pages[idx].Order},
	} {
		if _, err := tx.ExecContext(ctx,
			`UPDATE pages SET page_order = ? WHERE id = ?`, upd.order, upd.id); err != nil {
			return classify("moving page", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return classify("moving page", err)
	}

	if err := s.persistImage(ctx); err != nil {
		return err
	}
	s.syncPagesMirror(ctx)
	return nil
}

// syncPagesMirror rewrites the legacy JSON page list that simple,
// non-store read paths consume. Best effort: the registry rows inside
// the image stay authoritative, so a mirror write failure is only
// logged.
func (s *Store) syncPagesMirror(ctx context.Context) {
	pages, err := s.listPages(ctx)
	if err != nil {
		s.logger.Warn("refreshing page mirror: listing", "error", err)
		return
	}
	if pages == nil {
		pages = []model.Page{}
	}
	data, err := json.Marshal(pages)
	if err != nil {
		s.logger.Warn("refreshing page mirror: encoding", "error", err)
		return
	}
	if err := s.storage.SetItem(localstore.KeyPages, string(data)); err != nil {
		s.logger.Warn("refreshing page mirror: writing", "error", err)
	}
}
