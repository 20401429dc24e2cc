// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
)

// EventKind describes events.
var EventKind = Kind[model.Event]{
	Resource: model.ResourceEvents,
	ID:       func(e *model.Event) *string { return &e.ID },
	SearchFields: func(e *model.Event) []string {
		return []string{e.Title, e.Description, e.Location}
	},
}

// StartupKind describes startups.
var StartupKind = Kind[model.Startup]{
	Resource: model.ResourceStartups,
	ID:       func(s *model.Startup) *string { return &s.ID },
	SearchFields: func(s *model.Startup) []string {
		return []string{s.Name, s.Description}
	},
}

// ResourceKind describes learning resources.
var ResourceKind = Kind[model.Resource]{
	Resource: model.ResourceResources,
	ID:       func(r *model.Resource) *string { return &r.ID },
	SearchFields: func(r *model.Resource) []string {
		return []string{r.Title, r.Description}
	},
}

// TeamKind describes team members.
var TeamKind = Kind[model.TeamMember]{
	Resource: model.ResourceTeam,
	ID:       func(m *model.TeamMember) *string { return &m.ID },
	SearchFields: func(m *model.TeamMember) []string {
		return []string{m.Name, m.Role, m.Bio}
	},
}

// PartnerKind describes partners.
var PartnerKind = Kind[model.Partner]{
	Resource: model.ResourcePartners,
	ID:       func(p *model.Partner) *string { return &p.ID },
	SearchFields: func(p *model.Partner) []string {
		return []string{p.Name}
	},
}

// PageKind describes pages. Slugs are validated on every create and update.
var PageKind = Kind[model.Page]{
	Resource: model.ResourcePages,
	ID:       func(p *model.Page) *string { return &p.ID },
	Stamp:    stampPage,
	SearchFields: func(p *model.Page) []string {
		return []string{p.Title, p.Content, p.Slug}
	},
	Validate: validatePage,
}

func stampPage(p *model.Page, now time.Time, created bool) {
	if created {
		p.CreatedAt = now
		p.UpdatedAt = now
		return
	}
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	if now.After(p.UpdatedAt) {
		p.UpdatedAt = now
	}
}
