// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

func TestNewSitemapBuilder(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com/")
	if builder.siteURL != "https://example.com" {
		t.Errorf("siteURL = %q, want trailing slash trimmed", builder.siteURL)
	}
	if len(builder.urls) != 0 {
		t.Errorf("urls length = %d, want 0", len(builder.urls))
	}
}

func TestSitemapBuilderAddHomepage(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddHomepage()

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}

	url := builder.urls[0]
	if url.Loc != "https://example.com/" {
		t.Errorf("Loc = %q, want %q", url.Loc, "https://example.com/")
	}
	if url.Priority != "1.0" {
		t.Errorf("Priority = %q, want %q", url.Priority, "1.0")
	}
	if url.ChangeFreq != ChangeFreqDaily {
		t.Errorf("ChangeFreq = %q, want %q", url.ChangeFreq, ChangeFreqDaily)
	}
}

func TestSitemapBuilderAddSections(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddSections()

	want := map[string]bool{
		"https://example.com/events":          true,
		"https://example.com/events/upcoming": true,
		"https://example.com/events/past":     true,
		"https://example.com/startups":        true,
		"https://example.com/resources":       true,
		"https://example.com/team":            true,
	}
	if len(builder.urls) != len(want) {
		t.Fatalf("urls length = %d, want %d", len(builder.urls), len(want))
	}
	for _, u := range builder.urls {
		if !want[u.Loc] {
			t.Errorf("unexpected section %q", u.Loc)
		}
	}
}

func TestSitemapBuilderAddPage(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	updatedAt := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	builder.AddPage(SitemapPage{
		Slug:      "about-us",
		UpdatedAt: updatedAt,
	})

	if len(builder.urls) != 1 {
		t.Fatalf("urls length = %d, want 1", len(builder.urls))
	}

	url := builder.urls[0]
	if url.Loc != "https://example.com/page/about-us" {
		t.Errorf("Loc = %q, want %q", url.Loc, "https://example.com/page/about-us")
	}
	if url.ChangeFreq != ChangeFreqWeekly {
		t.Errorf("ChangeFreq = %q, want %q", url.ChangeFreq, ChangeFreqWeekly)
	}
	if url.LastMod != "2025-01-15T10:00:00Z" {
		t.Errorf("LastMod = %q, want 2025-01-15T10:00:00Z", url.LastMod)
	}
}

func TestSitemapBuilderAddPage_NoLastMod(t *testing.T) {
	builder := NewSitemapBuilder("https://example.com")
	builder.AddPage(SitemapPage{Slug: "draft"})

	if builder.urls[0].LastMod != "" {
		t.Errorf("LastMod = %q, want empty for zero time", builder.urls[0].LastMod)
	}
}

func TestGenerateSitemap(t *testing.T) {
	data, err := GenerateSitemap("https://example.com", []SitemapPage{
		{Slug: "about-us"},
		{Slug: "code-of-conduct"},
	})
	if err != nil {
		t.Fatalf("GenerateSitemap() error = %v", err)
	}

	content := string(data)
	if !strings.HasPrefix(content, "<?xml") {
		t.Error("sitemap should start with the XML header")
	}
	if !strings.Contains(content, `xmlns="`+XMLNamespace+`"`) {
		t.Error("sitemap should declare the sitemap namespace")
	}

	var parsed Sitemap
	if err := xml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("sitemap is not valid XML: %v", err)
	}
	// Homepage, six sections and two pages.
	if len(parsed.URLs) != 9 {
		t.Errorf("URL count = %d, want 9", len(parsed.URLs))
	}
}
