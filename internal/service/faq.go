// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/cloudhost/hostcms/internal/store"
)

// FAQView is a FAQ ready for template rendering: the markdown answer is
// converted to HTML at read time.
type FAQView struct {
	ID       string
	Question string
	Answer   template.HTML
}

// FAQService serves rendered FAQs from the store.
type FAQService struct {
	store    *store.Store
	markdown goldmark.Markdown
}

// NewFAQService creates a FAQService.
func NewFAQService(st *store.Store) *FAQService {
	return &FAQService{
		store:    st,
		markdown: goldmark.New(),
	}
}

// GetFAQs returns all FAQs in display order with answers rendered from
// markdown to HTML.
func (s *FAQService) GetFAQs(ctx context.Context) ([]FAQView, error) {
	faqs, err := s.store.GetFAQs(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]FAQView, 0, len(faqs))
	for _, f := range faqs {
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(f.Answer), &buf); err != nil {
			return nil, fmt.Errorf("rendering answer for %q: %w", f.Question, err)
		}
		views = append(views, FAQView{
			ID:       f.ID,
			Question: f.Question,
			Answer:   template.HTML(buf.String()), // #nosec G203 -- rendered from trusted store content
		})
	}
	return views, nil
}
