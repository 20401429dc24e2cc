// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/alumni-cms/internal/model"
)

func TestPageCreate_Timestamps(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	svcs, _ := newTestServices(t, WithClock(func() time.Time { return now }))

	p, err := svcs.Pages.Create(model.Page{Title: "Join Us", Content: "<p>Welcome</p>"})
	require.NoError(t, err)

	assert.Equal(t, "join-us", p.Slug, "slug derived from title")
	assert.Equal(t, now, p.CreatedAt)
	assert.Equal(t, now, p.UpdatedAt)

	got, ok := svcs.Pages.GetBySlug("join-us")
	require.True(t, ok)
	assert.Equal(t, p.ID, got.ID)
}

func TestPageUpdate_RefreshesUpdatedAt(t *testing.T) {
	clock := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	svcs, _ := newTestServices(t, WithClock(func() time.Time { return clock }))

	p, err := svcs.Pages.Create(model.Page{Title: "Events", Slug: "events-info"})
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	updated, found, err := svcs.Pages.Update(p.ID, model.PagePatch{Title: ptr("Event Info")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, clock, updated.UpdatedAt)

	// A clock running backwards never moves UpdatedAt before CreatedAt.
	clock = p.CreatedAt.Add(-24 * time.Hour)
	updated, _, err = svcs.Pages.Update(p.ID, model.PagePatch{Title: ptr("Again")})
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))
}

func TestPageCreate_DuplicateSlug(t *testing.T) {
	svcs, _ := newTestServices(t)
	before := svcs.Pages.List()

	_, err := svcs.Pages.Create(model.Page{Title: "Another FAQ", Slug: "faq"})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "slug", verr.Field)
	assert.True(t, errors.Is(err, ErrSlugTaken))
	if diff := cmp.Diff(before, svcs.Pages.List()); diff != "" {
		t.Errorf("failed create mutated pages (-want +got):\n%s", diff)
	}
}

func TestPageUpdate_DuplicateSlug(t *testing.T) {
	svcs, _ := newTestServices(t)
	before := svcs.Pages.List()

	_, found, err := svcs.Pages.Update("1", model.PagePatch{Slug: ptr("faq"), Title: ptr("Changed")})

	assert.True(t, found)
	assert.ErrorIs(t, err, ErrSlugTaken)
	if diff := cmp.Diff(before, svcs.Pages.List()); diff != "" {
		t.Errorf("failed update mutated pages (-want +got):\n%s", diff)
	}
}

func TestPageUpdate_KeepOwnSlug(t *testing.T) {
	svcs, _ := newTestServices(t)

	updated, found, err := svcs.Pages.Update("5", model.PagePatch{Slug: ptr("faq"), IsPublished: ptr(false)})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "faq", updated.Slug)
	assert.False(t, updated.IsPublished)
}

func TestPageUpdate_BlankSlugDerivedFromTitle(t *testing.T) {
	svcs, _ := newTestServices(t)

	updated, found, err := svcs.Pages.Update("5", model.PagePatch{Title: ptr("Member FAQ"), Slug: ptr("  ")})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "member-faq", updated.Slug)

	// Without a new title the current one is used.
	updated, _, err = svcs.Pages.Update("5", model.PagePatch{Slug: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "member-faq", updated.Slug)
}

func TestPageUpdate_BlankSlugCollides(t *testing.T) {
	svcs, _ := newTestServices(t)
	before := svcs.Pages.List()

	_, found, err := svcs.Pages.Update("5", model.PagePatch{Title: ptr("About Us"), Slug: ptr("")})

	assert.True(t, found)
	assert.ErrorIs(t, err, ErrSlugTaken)
	if diff := cmp.Diff(before, svcs.Pages.List()); diff != "" {
		t.Errorf("failed update mutated pages (-want +got):\n%s", diff)
	}
}

func TestPageSlugValidation(t *testing.T) {
	tests := []struct {
		name string
		page model.Page
		want error
	}{
		{"no title or slug", model.Page{}, ErrSlugRequired},
		{"uppercase", model.Page{Slug: "About"}, ErrSlugInvalid},
		{"spaces", model.Page{Slug: "about us"}, ErrSlugInvalid},
		{"taken", model.Page{Slug: "about-us"}, ErrSlugTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcs, _ := newTestServices(t)
			_, err := svcs.Pages.Create(tt.page)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSlugExists(t *testing.T) {
	svcs, _ := newTestServices(t)

	assert.True(t, svcs.Pages.SlugExists("faq", ""))
	assert.False(t, svcs.Pages.SlugExists("faq", "5"), "own page excluded")
	assert.False(t, svcs.Pages.SlugExists("missing", ""))
}

func TestListPublished(t *testing.T) {
	svcs, _ := newTestServices(t)
	_, found, err := svcs.Pages.Update("2", model.PagePatch{IsPublished: ptr(false)})
	require.NoError(t, err)
	require.True(t, found)

	published := svcs.Pages.ListPublished()
	assert.Len(t, published, svcs.Pages.Count()-1)
	for _, p := range published {
		assert.True(t, p.IsPublished)
	}
}

func TestGetBySlug_Absent(t *testing.T) {
	svcs, _ := newTestServices(t)
	_, ok := svcs.Pages.GetBySlug("nope")
	assert.False(t, ok)
}
