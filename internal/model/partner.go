// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Partner is a sponsoring or collaborating organization.
type Partner struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Logo    string `json:"logo" yaml:"logo"`
	Website string `json:"website" yaml:"website"`
}

// PartnerPatch holds the partner fields to replace.
type PartnerPatch struct {
	Name    *string
	Logo    *string
	Website *string
}

// Apply copies the set fields onto p.
func (pp PartnerPatch) Apply(p *Partner) {
	set(&p.Name, pp.Name)
	set(&p.Logo, pp.Logo)
	set(&p.Website, pp.Website)
}
