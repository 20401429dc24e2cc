// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
)

// Services bundles one service per content kind.
type Services struct {
	Events    *EventService
	Startups  *EntityService[model.Startup]
	Resources *EntityService[model.Resource]
	Team      *EntityService[model.TeamMember]
	Partners  *EntityService[model.Partner]
	Pages     *PageService
	Settings  *SettingsService
}

// New creates the services over st.
func New(st *store.Store, opts ...Option) *Services {
	return &Services{
		Events:    NewEventService(st.Events, opts...),
		Startups:  NewEntityService(StartupKind, st.Startups, opts...),
		Resources: NewEntityService(ResourceKind, st.Resources, opts...),
		Team:      NewEntityService(TeamKind, st.Team, opts...),
		Partners:  NewEntityService(PartnerKind, st.Partners, opts...),
		Pages:     NewPageService(st.Pages, opts...),
		Settings:  NewSettingsService(st.Settings, st.DefaultSettings(), opts...),
	}
}

// ResourcesByCategory returns resources in category, or all when category is empty.
func (s *Services) ResourcesByCategory(category model.ResourceCategory) []model.Resource {
	all := s.Resources.List()
	if category == "" {
		return all
	}
	out := make([]model.Resource, 0, len(all))
	for _, r := range all {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
