// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
)

// SettingsService manages the site settings singleton.
type SettingsService struct {
	value    *store.Singleton[model.SiteSettings]
	defaults model.SiteSettings
	opts     options
}

// NewSettingsService wraps value; Reset restores defaults.
func NewSettingsService(value *store.Singleton[model.SiteSettings], defaults model.SiteSettings, opts ...Option) *SettingsService {
	return &SettingsService{value: value, defaults: defaults, opts: buildOptions(opts)}
}

// Get returns a copy of the current settings.
func (s *SettingsService) Get() model.SiteSettings {
	return s.value.Get()
}

// Update replaces the fields set in patch.
func (s *SettingsService) Update(patch model.SettingsPatch) model.SiteSettings {
	out := s.value.Modify(func(v *model.SiteSettings) { patch.Apply(v) })
	s.notify(OpUpdate)
	return out
}

// Reset restores the default settings.
func (s *SettingsService) Reset() model.SiteSettings {
	out := s.value.Modify(func(v *model.SiteSettings) { *v = s.defaults })
	s.notify(OpReset)
	return out
}

func (s *SettingsService) notify(op string) {
	if s.opts.observer != nil {
		s.opts.observer.RecordMutation(model.ResourceSettings, op)
	}
}
