// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package builder implements the page authoring engine: an ordered
// draft of typed content blocks with insertion, editing, deletion and
// drag-reorder, compiled to static markup and upserted into the page
// registry on publish. Drafts live in their own local storage key,
// separate from the registry.
package builder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/model"
	"github.com/cloudhost/hostcms/internal/store"
	"github.com/cloudhost/hostcms/internal/util"
)

// Builder errors.
var (
	// ErrNoPageSelected indicates a structural operation without a
	// page being edited.
	ErrNoPageSelected = errors.New("no page selected")

	// ErrPageNotFound indicates an unknown draft page id.
	ErrPageNotFound = errors.New("page not found")

	// ErrTitleRequired indicates a page creation without a title.
	ErrTitleRequired = errors.New("title required")

	// ErrInvalidElementType indicates an unknown block type.
	ErrInvalidElementType = errors.New("invalid element type")

	// ErrPropsMismatch indicates properties of the wrong variant for
	// the element's type.
	ErrPropsMismatch = errors.New("props do not match element type")
)

// Builder owns the draft pages and the one page currently being
// edited. Structural operations replace the current page's element
// sequence with a new sequence, keeping each change a single atomic
// list transformation. A Builder models one editing session and is not
// safe for concurrent use.
type Builder struct {
	store   *store.Store
	storage localstore.Storage
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string

	pages   []model.BuilderPage
	current *model.BuilderPage // working copy; nil when no page selected
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides ID generation. Intended for tests.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) { b.newID = newID }
}

// New creates a Builder bound to the given registry store and draft
// storage, restoring any previously saved drafts. A draft payload that
// cannot be decoded is logged and skipped; authoring starts empty.
func New(st *store.Store, storage localstore.Storage, opts ...Option) *Builder {
	b := &Builder{
		store:   st,
		storage: storage,
		logger:  slog.Default(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.loadDrafts()
	return b
}

func (b *Builder) loadDrafts() {
	raw, err := b.storage.GetItem(localstore.KeyBuilderPages)
	if errors.Is(err, localstore.ErrNoItem) {
		return
	}
	if err != nil {
		b.logger.Warn("loading builder drafts", "error", err)
		return
	}
	var pages []model.BuilderPage
	if err := json.Unmarshal([]byte(raw), &pages); err != nil {
		b.logger.Warn("decoding builder drafts", "error", err)
		return
	}
	b.pages = pages
}

func (b *Builder) saveDrafts() error {
	data, err := json.Marshal(b.pages)
	if err != nil {
		return fmt.Errorf("encoding builder drafts: %w", err)
	}
	if err := b.storage.SetItem(localstore.KeyBuilderPages, string(data)); err != nil {
		return fmt.Errorf("writing builder drafts: %w", err)
	}
	return nil
}

// Pages returns a copy of all draft pages.
func (b *Builder) Pages() []model.BuilderPage {
	out := make([]model.BuilderPage, len(b.pages))
	copy(out, b.pages)
	return out
}

// Current returns a copy of the page being edited, if any.
func (b *Builder) Current() (model.BuilderPage, bool) {
	if b.current == nil {
		return model.BuilderPage{}, false
	}
	return *b.current, true
}

// CreatePage starts a new draft and selects it for editing. The slug is
// derived from the title when empty. The draft list is persisted
// immediately.
func (b *Builder) CreatePage(title, slug string) (model.BuilderPage, error) {
	if title == "" {
		return model.BuilderPage{}, ErrTitleRequired
	}
	if slug == "" {
		slug = title
	}
	slug = util.Slugify(slug)
	if !util.IsValidSlug(slug) {
		return model.BuilderPage{}, fmt.Errorf("deriving slug from %q: %w", title, ErrTitleRequired)
	}

	now := b.now()
	page := model.BuilderPage{
		ID:        b.newID(),
		Title:     title,
		Slug:      slug,
		Elements:  []model.Element{},
		CreatedAt: now,
		UpdatedAt: now,
		Order:     len(b.pages) + 1,
	}
	b.pages = append(b.pages, page)
	b.current = &page
	if err := b.saveDrafts(); err != nil {
		return model.BuilderPage{}, err
	}
	return page, nil
}

// SelectPage opens an existing draft for editing; any unsaved edits on
// the previously selected page are discarded.
func (b *Builder) SelectPage(id string) error {
	for i := range b.pages {
		if b.pages[i].ID == id {
			page := b.pages[i]
			b.current = &page
			return nil
		}
	}
	return fmt.Errorf("selecting page %q: %w", id, ErrPageNotFound)
}

// ClosePage returns the builder to its unselected state, discarding
// unsaved edits.
func (b *Builder) ClosePage() {
	b.current = nil
}

// AddElement appends a new block of the given type with its fixed
// default content and properties, returning the created element.
func (b *Builder) AddElement(t model.ElementType) (model.Element, error) {
	if b.current == nil {
		return model.Element{}, ErrNoPageSelected
	}
	if !model.ValidElementType(t) {
		return model.Element{}, fmt.Errorf("adding %q: %w", t, ErrInvalidElementType)
	}

	el := model.Element{
		ID:      b.newID(),
		Type:    t,
		Content: defaultContent(t),
		Props:   defaultProps(t),
	}
	b.current.Elements = append(append([]model.Element{}, b.current.Elements...), el)
	return el, nil
}

// UpdateElementContent replaces the content of the identified element.
// An unknown id leaves the sequence unchanged.
func (b *Builder) UpdateElementContent(id, content string) error {
	if b.current == nil {
		return ErrNoPageSelected
	}

	next := make([]model.Element, len(b.current.Elements))
	for i, el := range b.current.Elements {
		if el.ID == id {
			el.Content = content
		}
		next[i] = el
	}
	b.current.Elements = next
	return nil
}

// UpdateElementProps replaces the properties of the identified element.
// The variant must match the element's type. An unknown id leaves the
// sequence unchanged.
func (b *Builder) UpdateElementProps(id string, props model.ElementProps) error {
	if b.current == nil {
		return ErrNoPageSelected
	}

	next := make([]model.Element, len(b.current.Elements))
	for i, el := range b.current.Elements {
		if el.ID == id {
			if !model.PropsMatch(el.Type, props) {
				return fmt.Errorf("updating %s element %q: %w", el.Type, id, ErrPropsMismatch)
			}
			el.Props = props
		}
		next[i] = el
	}
	b.current.Elements = next
	return nil
}

// DeleteElement removes the identified element. An unknown id leaves
// the sequence unchanged.
func (b *Builder) DeleteElement(id string) error {
	if b.current == nil {
		return ErrNoPageSelected
	}

	next := make([]model.Element, 0, len(b.current.Elements))
	for _, el := range b.current.Elements {
		if el.ID != id {
			next = append(next, el)
		}
	}
	b.current.Elements = next
	return nil
}

// Reorder moves the element identified by sourceID to the position of
// the element identified by targetID; everything between them shifts by
// one. The whole move is one list transformation with no observable
// partial state. When the two ids are equal, or either cannot be
// resolved (a drag that ended outside the list), the sequence is left
// untouched.
func (b *Builder) Reorder(sourceID, targetID string) error {
	if b.current == nil {
		return ErrNoPageSelected
	}
	if sourceID == targetID {
		return nil
	}

	from, to := -1, -1
	for i, el := range b.current.Elements {
		switch el.ID {
		case sourceID:
			from = i
		case targetID:
			to = i
		}
	}
	if from == -1 || to == -1 {
		return nil
	}

	b.current.Elements = arrayMove(b.current.Elements, from, to)
	return nil
}

// arrayMove returns a new slice with the element at from removed and
// reinserted at to, preserving the relative order of everything else.
func arrayMove(elements []model.Element, from, to int) []model.Element {
	next := make([]model.Element, 0, len(elements))
	next = append(next, elements[:from]...)
	next = append(next, elements[from+1:]...)

	moved := elements[from]
	next = append(next[:to], append([]model.Element{moved}, next[to:]...)...)
	return next
}

// Save persists the current draft, including unpublished state, into
// the draft storage. It overwrites the prior draft for the page id and
// never publishes.
func (b *Builder) Save() error {
	if b.current == nil {
		return ErrNoPageSelected
	}

	b.current.UpdatedAt = b.now()
	for i := range b.pages {
		if b.pages[i].ID == b.current.ID {
			b.pages[i] = *b.current
			break
		}
	}
	return b.saveDrafts()
}

// Publish compiles the current draft's elements and upserts the result
// into the page registry keyed by slug: an existing row gets its title,
// content and published flag rewritten in place, an absent slug gets a
// fresh row appended after the last page. Compiled markup is built
// entirely from escaped element data and is stored verbatim, so
// republishing an unchanged draft leaves identical registry content
// (timestamps aside). The draft's own saved state is not touched.
func (b *Builder) Publish(ctx context.Context) error {
	if b.current == nil {
		return ErrNoPageSelected
	}

	markup := Compile(b.current.Elements)

	existing, err := b.store.GetPageBySlug(ctx, b.current.Slug)
	switch {
	case err == nil:
		_, err = b.store.UpdatePage(ctx, store.UpdatePageParams{
			ID:              existing.ID,
			Title:           b.current.Title,
			Content:         markup,
			IsPublished:     true,
			ShowInMenu:      existing.ShowInMenu,
			CompiledContent: true,
		})
	case errors.Is(err, store.ErrNotFound):
		_, err = b.store.CreatePage(ctx, store.CreatePageParams{
			Title:           b.current.Title,
			Slug:            b.current.Slug,
			Content:         markup,
			IsPublished:     true,
			ShowInMenu:      b.current.ShowInMenu,
			CompiledContent: true,
		})
	}
	if err != nil {
		return fmt.Errorf("publishing %q: %w", b.current.Slug, err)
	}

	b.current.IsPublished = true
	for i := range b.pages {
		if b.pages[i].ID == b.current.ID {
			b.pages[i].IsPublished = true
			break
		}
	}
	return nil
}
