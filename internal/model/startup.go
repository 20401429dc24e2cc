// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Startup is an alumni-founded company.
type Startup struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Logo        string `json:"logo" yaml:"logo"`
	Website     string `json:"website,omitempty" yaml:"website"`
}

// StartupPatch holds the startup fields to replace.
type StartupPatch struct {
	Name        *string
	Description *string
	Logo        *string
	Website     *string
}

// Apply copies the set fields onto s.
func (p StartupPatch) Apply(s *Startup) {
	set(&s.Name, p.Name)
	set(&s.Description, p.Description)
	set(&s.Logo, p.Logo)
	set(&s.Website, p.Website)
}
