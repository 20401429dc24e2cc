// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// SocialLinks holds the organization's social profile URLs.
type SocialLinks struct {
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Twitter  string `json:"twitter" yaml:"twitter"`
	Facebook string `json:"facebook" yaml:"facebook"`
}

// SiteSettings is the singleton site configuration.
type SiteSettings struct {
	SiteName          string      `json:"siteName" yaml:"site_name"`
	Tagline           string      `json:"tagline" yaml:"tagline"`
	LogoURL           string      `json:"logoUrl" yaml:"logo_url"`
	ContactEmail      string      `json:"contactEmail" yaml:"contact_email"`
	ContactPhone      string      `json:"contactPhone" yaml:"contact_phone"`
	Address           string      `json:"address" yaml:"address"`
	SocialLinks       SocialLinks `json:"socialLinks" yaml:"social_links"`
	HeroBackgroundURL string      `json:"heroBackgroundUrl" yaml:"hero_background_url"`
}

// SettingsPatch holds the settings fields to replace.
type SettingsPatch struct {
	SiteName          *string
	Tagline           *string
	LogoURL           *string
	ContactEmail      *string
	ContactPhone      *string
	Address           *string
	LinkedIn          *string
	Twitter           *string
	Facebook          *string
	HeroBackgroundURL *string
}

// Apply copies the set fields onto s.
func (p SettingsPatch) Apply(s *SiteSettings) {
	set(&s.SiteName, p.SiteName)
	set(&s.Tagline, p.Tagline)
	set(&s.LogoURL, p.LogoURL)
	set(&s.ContactEmail, p.ContactEmail)
	set(&s.ContactPhone, p.ContactPhone)
	set(&s.Address, p.Address)
	set(&s.SocialLinks.LinkedIn, p.LinkedIn)
	set(&s.SocialLinks.Twitter, p.Twitter)
	set(&s.SocialLinks.Facebook, p.Facebook)
	set(&s.HeroBackgroundURL, p.HeroBackgroundURL)
}
