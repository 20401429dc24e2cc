// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"strings"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
	"github.com/olegiv/alumni-cms/internal/util"
)

// PageService adds slug lookups to the page entity service.
type PageService struct {
	*EntityService[model.Page]
}

// NewPageService creates a PageService over coll.
func NewPageService(coll *store.Collection[model.Page], opts ...Option) *PageService {
	return &PageService{EntityService: NewEntityService(PageKind, coll, opts...)}
}

// Create stores a new page. A blank slug is derived from the title.
func (s *PageService) Create(p model.Page) (model.Page, error) {
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Title)
	}
	return s.EntityService.Create(p)
}

// Update applies patch to the page with id. A blank slug in patch is
// derived from the resulting title.
func (s *PageService) Update(id string, patch Patch[model.Page]) (model.Page, bool, error) {
	if pp, ok := patch.(model.PagePatch); ok && pp.Slug != nil && strings.TrimSpace(*pp.Slug) == "" {
		patch = derivedSlugPatch{pp}
	}
	return s.EntityService.Update(id, patch)
}

type derivedSlugPatch struct {
	model.PagePatch
}

func (p derivedSlugPatch) Apply(pg *model.Page) {
	p.PagePatch.Apply(pg)
	pg.Slug = util.Slugify(pg.Title)
}

// GetBySlug returns the page with slug.
func (s *PageService) GetBySlug(slug string) (model.Page, bool) {
	var (
		out   model.Page
		found bool
	)
	s.coll.View(func(items []model.Page) {
		for _, p := range items {
			if p.Slug == slug {
				out, found = p, true
				return
			}
		}
	})
	return out, found
}

// SlugExists reports whether a page other than excludeID uses slug.
func (s *PageService) SlugExists(slug, excludeID string) bool {
	var exists bool
	s.coll.View(func(items []model.Page) {
		exists = slugTaken(items, slug, excludeID)
	})
	return exists
}

// ListPublished returns the published pages in insertion order.
func (s *PageService) ListPublished() []model.Page {
	var out []model.Page
	s.coll.View(func(items []model.Page) {
		for _, p := range items {
			if p.IsPublished {
				out = append(out, p)
			}
		}
	})
	return out
}

func slugTaken(items []model.Page, slug, excludeID string) bool {
	for _, p := range items {
		if p.Slug == slug && p.ID != excludeID {
			return true
		}
	}
	return false
}

func validatePage(p *model.Page, current []model.Page) error {
	switch {
	case p.Slug == "":
		return fieldError("slug", ErrSlugRequired)
	case !util.IsValidSlug(p.Slug):
		return fieldError("slug", ErrSlugInvalid)
	case slugTaken(current, p.Slug, p.ID):
		return fieldError("slug", ErrSlugTaken)
	}
	return nil
}
