// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler implements the HTTP handlers of the admin console and the
// public site.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/service"
)

// Dashboard list sizes.
const (
	dashboardUpcoming = 3
	dashboardAudit    = 10
)

// DashboardStat is one count card on the dashboard.
type DashboardStat struct {
	Label string
	Count int
	URL   string
}

// DashboardData holds all dashboard data including stats and recent items.
type DashboardData struct {
	Greeting    string
	Stats       []DashboardStat
	Upcoming    []model.Event
	RecentAudit []model.AuditEntry
}

// AdminHandler handles the admin dashboard.
type AdminHandler struct {
	renderer *render.Renderer
	services *service.Services
	roles    middleware.Permissions
	audit    *service.AuditService
	now      func() time.Time
}

// NewAdminHandler creates a new AdminHandler. audit may be nil.
func NewAdminHandler(renderer *render.Renderer, services *service.Services, roles middleware.Permissions, audit *service.AuditService) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		services: services,
		roles:    roles,
		audit:    audit,
		now:      time.Now,
	}
}

// Dashboard renders the admin dashboard with counts, the next upcoming
// events and, for admins, recent audit activity.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)

	data := DashboardData{Greeting: Greeting(h.now().Hour()) + ", " + p.Name}

	counts := []struct {
		label string
		res   model.ResourceTag
		count int
	}{
		{"Total Events", model.ResourceEvents, h.services.Events.Count()},
		{"Startups", model.ResourceStartups, h.services.Startups.Count()},
		{"Resources", model.ResourceResources, h.services.Resources.Count()},
		{"Team Members", model.ResourceTeam, h.services.Team.Count()},
		{"Partners", model.ResourcePartners, h.services.Partners.Count()},
		{"Pages", model.ResourcePages, h.services.Pages.Count()},
	}
	for _, c := range counts {
		if !h.roles.HasPermission(p, c.res, model.ActionView) {
			continue
		}
		data.Stats = append(data.Stats, DashboardStat{
			Label: c.label,
			Count: c.count,
			URL:   redirectAdmin + "/" + string(c.res),
		})
	}

	if h.roles.HasPermission(p, model.ResourceEvents, model.ActionView) {
		upcoming := h.services.Events.Upcoming()
		data.Upcoming = upcoming[:min(len(upcoming), dashboardUpcoming)]
	}

	if h.audit != nil && p.IsAdmin() {
		entries, err := h.audit.Recent(r.Context(), dashboardAudit)
		if err != nil {
			slog.Error("failed to load recent audit entries", "error", err)
		}
		data.RecentAudit = entries
	}

	h.renderer.Page(w, r, http.StatusOK, tmplDashboard, render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	})
}

// Greeting returns the salutation for an hour of the day.
func Greeting(hour int) string {
	switch {
	case hour >= 18:
		return "Good evening"
	case hour >= 12:
		return "Good afternoon"
	default:
		return "Good morning"
	}
}

// Forbidden renders the 403 page shown when a principal lacks a permission.
func (h *AdminHandler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.renderer.Page(w, r, http.StatusForbidden, tmplForbidden, render.TemplateData{
		Title: "Access Denied",
	})
}
