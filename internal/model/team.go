// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// TeamMember is a person on the organization's team.
type TeamMember struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Role     string `json:"role" yaml:"role"`
	Bio      string `json:"bio" yaml:"bio"`
	ImageURL string `json:"imageUrl" yaml:"image_url"`
}

// TeamMemberPatch holds the team member fields to replace.
type TeamMemberPatch struct {
	Name     *string
	Role     *string
	Bio      *string
	ImageURL *string
}

// Apply copies the set fields onto m.
func (p TeamMemberPatch) Apply(m *TeamMember) {
	set(&m.Name, p.Name)
	set(&m.Role, p.Role)
	set(&m.Bio, p.Bio)
	set(&m.ImageURL, p.ImageURL)
}
