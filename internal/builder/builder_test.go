// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package builder

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudhost/hostcms/internal/localstore"
	"github.com/cloudhost/hostcms/internal/model"
	"github.com/cloudhost/hostcms/internal/store"
	"github.com/cloudhost/hostcms/internal/testutil"
)

// newTestBuilder returns a builder over a ready store and a fresh draft
// storage.
func newTestBuilder(t *testing.T) (*Builder, localstore.Storage) {
	t.Helper()
	drafts := localstore.NewMemory()
	t.Cleanup(func() { _ = drafts.Close() })
	b := New(testutil.TestStore(t), drafts, WithLogger(testutil.TestLoggerSilent()))
	return b, drafts
}

func TestCreatePage(t *testing.T) {
	b, drafts := newTestBuilder(t)

	_, err := b.CreatePage("", "")
	assert.ErrorIs(t, err, ErrTitleRequired)

	page, err := b.CreatePage("About Us", "")
	require.NoError(t, err)
	assert.Equal(t, "about-us", page.Slug, "slug derived from title")
	assert.Empty(t, page.Elements)
	assert.False(t, page.IsPublished)

	current, ok := b.Current()
	require.True(t, ok, "new page selected for editing")
	assert.Equal(t, page.ID, current.ID)

	// Draft list is persisted immediately.
	_, err = drafts.GetItem(localstore.KeyBuilderPages)
	assert.NoError(t, err)
}

func TestSelectAndClosePage(t *testing.T) {
	b, _ := newTestBuilder(t)

	page, err := b.CreatePage("Pricing", "pricing")
	require.NoError(t, err)

	b.ClosePage()
	_, ok := b.Current()
	assert.False(t, ok)

	_, err = b.AddElement(model.ElementHeading)
	assert.ErrorIs(t, err, ErrNoPageSelected)

	require.NoError(t, b.SelectPage(page.ID))
	_, ok = b.Current()
	assert.True(t, ok)

	assert.ErrorIs(t, b.SelectPage("missing"), ErrPageNotFound)
}

func TestAddElementDefaults(t *testing.T) {
	b, _ := newTestBuilder(t)
	_, err := b.CreatePage("Home", "home")
	require.NoError(t, err)

	heading, err := b.AddElement(model.ElementHeading)
	require.NoError(t, err)
	assert.Equal(t, "New Heading", heading.Content)
	assert.Equal(t, model.HeadingProps{Size: "h2"}, heading.Props)

	button, err := b.AddElement(model.ElementButton)
	require.NoError(t, err)
	assert.Equal(t, "Click Me", button.Content)
	assert.Equal(t, model.ButtonProps{URL: "#", Variant: "default"}, button.Props)

	divider, err := b.AddElement(model.ElementDivider)
	require.NoError(t, err)
	assert.Empty(t, divider.Content)
	assert.Nil(t, divider.Props)

	_, err = b.AddElement("carousel")
	assert.ErrorIs(t, err, ErrInvalidElementType)

	current, _ := b.Current()
	assert.Len(t, current.Elements, 3)
}

func TestUpdateElement(t *testing.T) {
	b, _ := newTestBuilder(t)
	_, err := b.CreatePage("Home", "home")
	require.NoError(t, err)

	heading, err := b.AddElement(model.ElementHeading)
	require.NoError(t, err)

	require.NoError(t, b.UpdateElementContent(heading.ID, "Welcome to CloudHost"))
	current, _ := b.Current()
	assert.Equal(t, "Welcome to CloudHost", current.Elements[0].Content)

	// Unknown ids leave the sequence untouched.
	require.NoError(t, b.UpdateElementContent("missing", "x"))
	current, _ = b.Current()
	assert.Equal(t, "Welcome to CloudHost", current.Elements[0].Content)

	require.NoError(t, b.UpdateElementProps(heading.ID, model.HeadingProps{Size: "h1"}))
	current, _ = b.Current()
	assert.Equal(t, model.HeadingProps{Size: "h1"}, current.Elements[0].Props)

	// Properties of the wrong variant are rejected.
	err = b.UpdateElementProps(heading.ID, model.ButtonProps{URL: "/x"})
	assert.ErrorIs(t, err, ErrPropsMismatch)
}

func TestDeleteElement(t *testing.T) {
	b, _ := newTestBuilder(t)
	_, err := b.CreatePage("Home", "home")
	require.NoError(t, err)

	first, _ := b.AddElement(model.ElementParagraph)
	second, _ := b.AddElement(model.ElementDivider)

	require.NoError(t, b.DeleteElement(first.ID))
	current, _ := b.Current()
	require.Len(t, current.Elements, 1)
	assert.Equal(t, second.ID, current.Elements[0].ID)

	require.NoError(t, b.DeleteElement("missing"))
	current, _ = b.Current()
	assert.Len(t, current.Elements, 1)
}

func TestReorder(t *testing.T) {
	b, _ := newTestBuilder(t)
	_, err := b.CreatePage("Home", "home")
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 4; i++ {
		el, err := b.AddElement(model.ElementParagraph)
		require.NoError(t, err)
		ids = append(ids, el.ID)
	}

	order := func() []string {
		current, _ := b.Current()
		out := make([]string, len(current.Elements))
		for i, el := range current.Elements {
			out[i] = el.ID
		}
		return out
	}

	// Drag the first element onto the third.
	require.NoError(t, b.Reorder(ids[0], ids[2]))
	assert.Equal(t, []string{ids[1], ids[2], ids[0], ids[3]}, order())

	// Drag the last element onto the first.
	require.NoError(t, b.Reorder(ids[3], ids[1]))
	assert.Equal(t, []string{ids[3], ids[1], ids[2], ids[0]}, order())

	// Dropping on itself or outside the list is a no-op.
	before := order()
	require.NoError(t, b.Reorder(ids[1], ids[1]))
	assert.Equal(t, before, order())
	require.NoError(t, b.Reorder("missing", ids[1]))
	assert.Equal(t, before, order())
	require.NoError(t, b.Reorder(ids[1], "missing"))
	assert.Equal(t, before, order())
}

func TestSavePersistsUnpublishedDrafts(t *testing.T) {
	drafts := localstore.NewMemory()
	t.Cleanup(func() { _ = drafts.Close() })
	st := testutil.TestStore(t)

	b := New(st, drafts, WithLogger(testutil.TestLoggerSilent()))
	_, err := b.CreatePage("Features", "features")
	require.NoError(t, err)
	heading, err := b.AddElement(model.ElementHeading)
	require.NoError(t, err)
	require.NoError(t, b.UpdateElementContent(heading.ID, "Feature Tour"))
	require.NoError(t, b.Save())

	// A second session over the same storage sees the draft, with
	// typed props intact.
	b2 := New(st, drafts, WithLogger(testutil.TestLoggerSilent()))
	pages := b2.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, "Feature Tour", pages[0].Elements[0].Content)
	assert.Equal(t, model.HeadingProps{Size: "h2"}, pages[0].Elements[0].Props)
	assert.False(t, pages[0].IsPublished)

	// Saving never touches the page registry.
	regPages, err := st.GetPages(context.Background())
	require.NoError(t, err)
	assert.Empty(t, regPages)
}

func TestPublishUpsertsBySlug(t *testing.T) {
	drafts := localstore.NewMemory()
	t.Cleanup(func() { _ = drafts.Close() })
	st := testutil.TestStore(t)
	ctx := context.Background()

	b := New(st, drafts, WithLogger(testutil.TestLoggerSilent()))
	_, err := b.CreatePage("About", "about")
	require.NoError(t, err)
	heading, err := b.AddElement(model.ElementHeading)
	require.NoError(t, err)
	require.NoError(t, b.UpdateElementContent(heading.ID, "About Us"))

	require.NoError(t, b.Publish(ctx))

	pages, err := st.GetPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.True(t, pages[0].IsPublished)
	assert.Contains(t, pages[0].Content, `<h2 class="text-3xl font-bold mb-4">About Us</h2>`)

	current, _ := b.Current()
	assert.True(t, current.IsPublished)

	// Republishing the unchanged draft rewrites the same row with
	// identical content: no second page appears.
	firstContent := pages[0].Content
	require.NoError(t, b.Publish(ctx))
	pages, err = st.GetPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, firstContent, pages[0].Content)

	// An edit flows into the same registry row on the next publish.
	require.NoError(t, b.UpdateElementContent(heading.ID, "Our Story"))
	require.NoError(t, b.Publish(ctx))
	got, err := st.GetPageBySlug(ctx, "about")
	require.NoError(t, err)
	assert.Contains(t, got.Content, "Our Story")
	assert.NotContains(t, got.Content, "About Us")
}

func TestPublishStoresCompiledMarkupVerbatim(t *testing.T) {
	drafts := localstore.NewMemory()
	t.Cleanup(func() { _ = drafts.Close() })
	st := testutil.TestStore(t)
	ctx := context.Background()

	b := New(st, drafts, WithLogger(testutil.TestLoggerSilent()))
	_, err := b.CreatePage("Landing", "landing")
	require.NoError(t, err)
	for _, et := range []model.ElementType{
		model.ElementHeading,
		model.ElementImage,
		model.ElementButton,
		model.ElementSpacer,
		model.ElementDivider,
	} {
		_, err := b.AddElement(et)
		require.NoError(t, err)
	}

	require.NoError(t, b.Publish(ctx))

	current, _ := b.Current()
	want := Compile(current.Elements)
	got, err := st.GetPageBySlug(ctx, "landing")
	require.NoError(t, err)
	assert.Equal(t, want, got.Content, "registry holds the compiler output byte for byte")
	assert.Contains(t, got.Content, `href="#"`, "default button target survives publish")
	assert.Contains(t, got.Content, `style="height: 30px"`)
	assert.Contains(t, got.Content, ` />`)
}

func TestPublishKeepsRegistryMenuFlag(t *testing.T) {
	drafts := localstore.NewMemory()
	t.Cleanup(func() { _ = drafts.Close() })
	st := testutil.TestStore(t)
	ctx := context.Background()

	_, err := st.CreatePage(ctx, store.CreatePageParams{
		Title: "Support", Slug: "support", Content: "<p>old</p>", ShowInMenu: true,
	})
	require.NoError(t, err)

	b := New(st, drafts, WithLogger(testutil.TestLoggerSilent()))
	_, err = b.CreatePage("Support", "support")
	require.NoError(t, err)
	_, err = b.AddElement(model.ElementParagraph)
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx))

	got, err := st.GetPageBySlug(ctx, "support")
	require.NoError(t, err)
	assert.True(t, got.ShowInMenu, "menu flag survives publish")
	assert.False(t, strings.Contains(got.Content, "old"))
}

func TestPublishWithoutSelection(t *testing.T) {
	b, _ := newTestBuilder(t)
	assert.ErrorIs(t, b.Publish(context.Background()), ErrNoPageSelected)
	assert.ErrorIs(t, b.Save(), ErrNoPageSelected)
}
