// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Page is a CMS page addressed by its slug.
type Page struct {
	ID              string    `json:"id" yaml:"id"`
	Title           string    `json:"title" yaml:"title"`
	Slug            string    `json:"slug" yaml:"slug"`
	Content         string    `json:"content" yaml:"content"`
	MetaDescription string    `json:"metaDescription" yaml:"meta_description"`
	IsPublished     bool      `json:"isPublished" yaml:"is_published"`
	CreatedAt       time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" yaml:"updated_at"`
}

// PagePatch holds the page fields to replace.
type PagePatch struct {
	Title           *string
	Slug            *string
	Content         *string
	MetaDescription *string
	IsPublished     *bool
}

// Apply copies the set fields onto pg. Timestamps are owned by the service.
func (p PagePatch) Apply(pg *Page) {
	set(&pg.Title, p.Title)
	set(&pg.Slug, p.Slug)
	set(&pg.Content, p.Content)
	set(&pg.MetaDescription, p.MetaDescription)
	set(&pg.IsPublished, p.IsPublished)
}
