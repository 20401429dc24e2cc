// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/alumni-cms/internal/seo"
	"github.com/olegiv/alumni-cms/internal/service"
)

// SEOHandler serves sitemap.xml and robots.txt.
type SEOHandler struct {
	pages       *service.PageService
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a new SEOHandler. An empty siteURL is derived from
// each request. disallowAll blocks every crawler.
func NewSEOHandler(pages *service.PageService, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{
		pages:       pages,
		siteURL:     strings.TrimSuffix(siteURL, "/"),
		disallowAll: disallowAll,
	}
}

// Sitemap serves the XML sitemap of the public site.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	published := h.pages.ListPublished()
	pages := make([]seo.SitemapPage, 0, len(published))
	for _, p := range published {
		pages = append(pages, seo.SitemapPage{Slug: p.Slug, UpdatedAt: p.UpdatedAt})
	}

	data, err := seo.GenerateSitemap(h.baseURL(r), pages)
	if err != nil {
		slog.Error("failed to generate sitemap", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set(HeaderContentType, "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(data)
}

// Robots serves robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(HeaderContentType, "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(seo.GenerateRobots(h.baseURL(r), h.disallowAll)))
}

func (h *SEOHandler) baseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}
