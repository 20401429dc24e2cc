// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// ResourceCategory groups learning resources.
type ResourceCategory string

// Resource categories.
const (
	CategoryArticle ResourceCategory = "article"
	CategoryVideo   ResourceCategory = "video"
	CategoryPodcast ResourceCategory = "podcast"
	CategoryTool    ResourceCategory = "tool"
)

// ResourceCategories lists every category in display order.
var ResourceCategories = []ResourceCategory{CategoryArticle, CategoryVideo, CategoryPodcast, CategoryTool}

// Resource is a learning resource link.
type Resource struct {
	ID          string           `json:"id" yaml:"id"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Link        string           `json:"link" yaml:"link"`
	Category    ResourceCategory `json:"category" yaml:"category"`
}

// ResourcePatch holds the resource fields to replace.
type ResourcePatch struct {
	Title       *string
	Description *string
	Link        *string
	Category    *ResourceCategory
}

// Apply copies the set fields onto r.
func (p ResourcePatch) Apply(r *Resource) {
	set(&r.Title, p.Title)
	set(&r.Description, p.Description)
	set(&r.Link, p.Link)
	set(&r.Category, p.Category)
}
