// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/uikit"
)

// SettingsHandler serves the site settings screen.
type SettingsHandler struct {
	renderer *render.Renderer
	settings *service.SettingsService
	roles    middleware.Permissions
	audit    *service.AuditService
	form     uikit.Form[model.SiteSettings]
}

// NewSettingsHandler creates a new SettingsHandler. audit may be nil.
func NewSettingsHandler(renderer *render.Renderer, settings *service.SettingsService, roles middleware.Permissions, audit *service.AuditService, uploads UploaderFor) *SettingsHandler {
	return &SettingsHandler{
		renderer: renderer,
		settings: settings,
		roles:    roles,
		audit:    audit,
		form:     settingsForm(uploads),
	}
}

func settingsForm(uploads UploaderFor) uikit.Form[model.SiteSettings] {
	type s = model.SiteSettings
	return uikit.Form[model.SiteSettings]{
		Title:    "Site Settings",
		Uploader: uploads.get("settings"),
		Fields: []uikit.Field[model.SiteSettings]{
			{Name: "site_name", Label: "Site Name", Kind: uikit.FieldText, Required: true, Value: func(v s) string { return v.SiteName }},
			{Name: "tagline", Label: "Tagline", Kind: uikit.FieldTextarea, Rows: 2, Value: func(v s) string { return v.Tagline }},
			{Name: "logo_url", Label: "Logo", Kind: uikit.FieldFile, Accept: imageAccept, Value: func(v s) string { return v.LogoURL }},
			{Name: "contact_email", Label: "Contact Email", Kind: uikit.FieldEmail, Required: true, Value: func(v s) string { return v.ContactEmail }},
			{Name: "contact_phone", Label: "Contact Phone", Kind: uikit.FieldText, Value: func(v s) string { return v.ContactPhone }},
			{Name: "address", Label: "Address", Kind: uikit.FieldTextarea, Rows: 2, Value: func(v s) string { return v.Address }},
			{Name: "linkedin", Label: "LinkedIn URL", Kind: uikit.FieldText, Value: func(v s) string { return v.SocialLinks.LinkedIn }},
			{Name: "twitter", Label: "Twitter URL", Kind: uikit.FieldText, Value: func(v s) string { return v.SocialLinks.Twitter }},
			{Name: "facebook", Label: "Facebook URL", Kind: uikit.FieldText, Value: func(v s) string { return v.SocialLinks.Facebook }},
			{Name: "hero_background_url", Label: "Hero Background", Kind: uikit.FieldFile, Accept: imageAccept, Value: func(v s) string { return v.HeroBackgroundURL }},
		},
	}
}

// Show handles GET /admin/settings. Principals without edit permission
// see the form read-only.
func (h *SettingsHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.form.Values(h.settings.Get()), nil)
}

// Update handles POST /admin/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	v, errs, err := h.form.Submit(r)
	if err != nil {
		slog.Warn("failed to read settings form", "error", err)
		flashError(w, r, h.renderer, redirectAdminSettings, "Could not read the submitted form")
		return
	}
	if errs != nil {
		h.render(w, r, http.StatusUnprocessableEntity, v, errs)
		return
	}

	h.settings.Update(model.SettingsPatch{
		SiteName:          v.Ptr("site_name"),
		Tagline:           v.Ptr("tagline"),
		LogoURL:           v.Ptr("logo_url"),
		ContactEmail:      v.Ptr("contact_email"),
		ContactPhone:      v.Ptr("contact_phone"),
		Address:           v.Ptr("address"),
		LinkedIn:          v.Ptr("linkedin"),
		Twitter:           v.Ptr("twitter"),
		Facebook:          v.Ptr("facebook"),
		HeroBackgroundURL: v.Ptr("hero_background_url"),
	})

	slog.Info("settings updated", "principal_id", middleware.GetPrincipalID(r))
	h.logContent(r, "Settings updated")
	flashSuccess(w, r, h.renderer, redirectAdminSettings, "Settings saved successfully")
}

// Reset handles POST /admin/settings/reset.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.settings.Reset()

	slog.Info("settings reset to defaults", "principal_id", middleware.GetPrincipalID(r))
	h.logContent(r, "Settings reset to defaults")
	flashSuccess(w, r, h.renderer, redirectAdminSettings, "Settings reset to defaults")
}

func (h *SettingsHandler) render(w http.ResponseWriter, r *http.Request, status int, v uikit.Values, errs uikit.FieldErrors) {
	page := FormPage{
		Form:     h.form.Build(redirectAdminSettings, v, errs),
		BackURL:  redirectAdmin,
		ReadOnly: !h.roles.HasPermission(middleware.GetPrincipal(r), model.ResourceSettings, model.ActionEdit),
	}
	if !page.ReadOnly {
		page.ResetURL = redirectAdminSettings + RouteSuffixReset
	}

	h.renderer.Page(w, r, status, tmplForm, render.TemplateData{
		Title: "Site Settings",
		Data:  page,
	})
}

func (h *SettingsHandler) logContent(r *http.Request, message string) {
	if h.audit == nil {
		return
	}
	err := h.audit.LogContentEvent(r.Context(), message, middleware.GetPrincipalID(r), middleware.ClientIP(r), map[string]any{
		"resource": string(model.ResourceSettings),
	})
	if err != nil {
		slog.Error("failed to write audit entry", "error", err)
	}
}
