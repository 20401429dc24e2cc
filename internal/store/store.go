// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store holds the in-memory record stores seeded from fixtures and
// the SQLite database backing sessions and the audit log.
package store

import (
	"github.com/olegiv/alumni-cms/internal/model"
)

// Store owns one collection per content kind plus the settings singleton.
type Store struct {
	Events    *Collection[model.Event]
	Startups  *Collection[model.Startup]
	Resources *Collection[model.Resource]
	Team      *Collection[model.TeamMember]
	Partners  *Collection[model.Partner]
	Pages     *Collection[model.Page]
	Settings  *Singleton[model.SiteSettings]

	fixtures *Fixtures
}

// New builds a store seeded from f.
func New(f *Fixtures) *Store {
	return &Store{
		Events:    NewCollection(f.Events),
		Startups:  NewCollection(f.Startups),
		Resources: NewCollection(f.Resources),
		Team:      NewCollection(f.Team),
		Partners:  NewCollection(f.Partners),
		Pages:     NewCollection(f.Pages),
		Settings:  NewSingleton(f.Settings),
		fixtures:  f,
	}
}

// DefaultSettings returns the seed settings.
func (s *Store) DefaultSettings() model.SiteSettings {
	return s.fixtures.Settings
}

// Reset discards all mutations and restores the seed content.
func (s *Store) Reset() {
	s.Events.Replace(s.fixtures.Events)
	s.Startups.Replace(s.fixtures.Startups)
	s.Resources.Replace(s.fixtures.Resources)
	s.Team.Replace(s.fixtures.Team)
	s.Partners.Replace(s.fixtures.Partners)
	s.Pages.Replace(s.fixtures.Pages)
	s.Settings.Modify(func(v *model.SiteSettings) { *v = s.fixtures.Settings })
}

// Counts returns the number of records per resource tag.
func (s *Store) Counts() map[model.ResourceTag]int {
	return map[model.ResourceTag]int{
		model.ResourceEvents:    s.Events.Len(),
		model.ResourceStartups:  s.Startups.Len(),
		model.ResourceResources: s.Resources.Len(),
		model.ResourceTeam:      s.Team.Len(),
		model.ResourcePartners:  s.Partners.Len(),
		model.ResourcePages:     s.Pages.Len(),
	}
}
