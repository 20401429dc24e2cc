// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds the sitemap and robots.txt of the public site.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XMLNamespace is the sitemap XML namespace.
const XMLNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string     `xml:"loc"`
	LastMod    string     `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq `xml:"changefreq,omitempty"`
	Priority   string     `xml:"priority,omitempty"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapPage contains data needed to add a CMS page to the sitemap.
type SitemapPage struct {
	Slug      string
	UpdatedAt time.Time
}

// sections are the fixed public listings.
var sections = []struct {
	path       string
	changeFreq ChangeFreq
	priority   string
}{
	{"/events", ChangeFreqDaily, "0.9"},
	{"/events/upcoming", ChangeFreqDaily, "0.8"},
	{"/events/past", ChangeFreqWeekly, "0.5"},
	{"/startups", ChangeFreqWeekly, "0.7"},
	{"/resources", ChangeFreqWeekly, "0.7"},
	{"/team", ChangeFreqMonthly, "0.6"},
}

// SitemapBuilder builds sitemap XML for the public site.
type SitemapBuilder struct {
	siteURL string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the homepage to the sitemap.
func (b *SitemapBuilder) AddHomepage() {
	b.urls = append(b.urls, SitemapURL{
		Loc:        b.siteURL + "/",
		ChangeFreq: ChangeFreqDaily,
		Priority:   "1.0",
	})
}

// AddSections adds the event, startup, resource and team listings.
func (b *SitemapBuilder) AddSections() {
	for _, s := range sections {
		b.urls = append(b.urls, SitemapURL{
			Loc:        b.siteURL + s.path,
			ChangeFreq: s.changeFreq,
			Priority:   s.priority,
		})
	}
}

// AddPage adds a CMS page to the sitemap.
func (b *SitemapBuilder) AddPage(page SitemapPage) {
	url := SitemapURL{
		Loc:        b.siteURL + "/page/" + page.Slug,
		ChangeFreq: ChangeFreqWeekly,
		Priority:   "0.6",
	}
	if !page.UpdatedAt.IsZero() {
		url.LastMod = page.UpdatedAt.UTC().Format(time.RFC3339)
	}
	b.urls = append(b.urls, url)
}

// AddPages adds multiple pages to the sitemap.
func (b *SitemapBuilder) AddPages(pages []SitemapPage) {
	for _, p := range pages {
		b.AddPage(p)
	}
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS: XMLNamespace,
		URLs:  b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}

// GenerateSitemap builds the sitemap of the homepage, the fixed listings and pages.
func GenerateSitemap(siteURL string, pages []SitemapPage) ([]byte, error) {
	builder := NewSitemapBuilder(siteURL)
	builder.AddHomepage()
	builder.AddSections()
	builder.AddPages(pages)
	return builder.Build()
}
