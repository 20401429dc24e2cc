// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/alumni-cms/internal/metrics"
	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/session"
)

// AuthHandler handles sign-in and sign-out.
type AuthHandler struct {
	renderer        *render.Renderer
	sessions        *session.Manager
	loginProtection *middleware.LoginProtection
	audit           *service.AuditService
	metrics         metrics.Recorder
}

// NewAuthHandler creates a new AuthHandler. lp and audit may be nil.
func NewAuthHandler(renderer *render.Renderer, sessions *session.Manager, lp *middleware.LoginProtection, audit *service.AuditService, rec metrics.Recorder) *AuthHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthHandler{
		renderer:        renderer,
		sessions:        sessions,
		loginProtection: lp,
		audit:           audit,
		metrics:         rec,
	}
}

// LoginData is the view model of the login page.
type LoginData struct {
	Email string
	Next  string
}

// LoginForm renders the login page. Signed-in principals go straight to
// the dashboard or the requested admin page.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if middleware.GetPrincipal(r) != nil {
		http.Redirect(w, r, middleware.SafeNext(next, redirectAdmin), http.StatusSeeOther)
		return
	}

	h.renderer.Page(w, r, http.StatusOK, tmplLogin, render.TemplateData{
		Title: "Sign in",
		Data:  LoginData{Next: middleware.SafeNext(next, "")},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, redirectAdminLogin, "Invalid form data")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := middleware.SafeNext(r.PostFormValue("next"), "")
	retry := loginURL(next)

	if email == "" || password == "" {
		flashError(w, r, h.renderer, retry, "Email and password are required")
		return
	}

	clientIP := middleware.ClientIP(r)
	meta := loginMetadata(r, email)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logAuth(r, model.AuditLevelWarning, "Sign-in attempt on locked account", "", clientIP, meta)
			h.metrics.RecordSignIn(metrics.OutcomeBlocked)
			flashError(w, r, h.renderer, retry, "Account temporarily locked. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	p, err := h.sessions.SignIn(r.Context(), email, password)
	if errors.Is(err, session.ErrInvalidCredentials) {
		slog.Debug("invalid sign-in attempt", "email", email)
		h.logAuth(r, model.AuditLevelWarning, "Sign-in failed: invalid credentials", "", clientIP, meta)
		h.metrics.RecordSignIn(metrics.OutcomeFailure)
		flashError(w, r, h.renderer, retry, h.failedAttemptMessage(r, email, clientIP, meta))
		return
	}
	if err != nil {
		logAndInternalError(w, "sign-in error", "error", err)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	slog.Info("principal signed in", "principal_id", p.ID, "role", p.Role)
	h.logAuth(r, model.AuditLevelInfo, "Principal signed in", p.ID, clientIP, meta)
	h.metrics.RecordSignIn(metrics.OutcomeSuccess)

	flashSuccess(w, r, h.renderer, middleware.SafeNext(next, redirectAdmin), "Welcome back, "+p.FirstName()+"!")
}

// failedAttemptMessage records a failed attempt and returns the message to show.
func (h *AuthHandler) failedAttemptMessage(r *http.Request, email, clientIP string, meta map[string]any) string {
	const invalid = "Invalid email or password"
	if h.loginProtection == nil {
		return invalid
	}
	if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
		meta["duration"] = lockDuration.String()
		h.logAuth(r, model.AuditLevelWarning, "Account locked due to failed attempts", "", clientIP, meta)
		return "Too many failed attempts. Try again in " + formatDuration(lockDuration) + "."
	}
	if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
		return fmt.Sprintf("%s. %d attempts remaining.", invalid, remaining)
	}
	return invalid
}

// Logout signs the principal out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principalID := middleware.GetPrincipalID(r)
	if principalID != "" {
		h.logAuth(r, model.AuditLevelInfo, "Principal signed out", principalID, middleware.ClientIP(r), nil)
	}

	if err := h.sessions.SignOut(r.Context()); err != nil {
		slog.Error("sign-out error", "error", err)
	}

	slog.Info("principal signed out", "principal_id", principalID)
	flashAndRedirect(w, r, h.renderer, redirectAdminLogin, "You have been signed out.", render.FlashInfo)
}

func (h *AuthHandler) logAuth(r *http.Request, level, message, principalID, clientIP string, meta map[string]any) {
	if h.audit == nil {
		return
	}
	if err := h.audit.LogAuthEvent(r.Context(), level, message, principalID, clientIP, meta); err != nil {
		slog.Error("failed to write audit entry", "error", err)
	}
}

// loginMetadata describes the client of a sign-in attempt.
func loginMetadata(r *http.Request, email string) map[string]any {
	ua := useragent.Parse(r.UserAgent())
	browser, os := ua.Name, ua.OS
	if browser == "" {
		browser = "Unknown"
	}
	if os == "" {
		os = "Unknown"
	}

	device := "desktop"
	switch {
	case ua.Mobile:
		device = "mobile"
	case ua.Tablet:
		device = "tablet"
	case ua.Bot:
		device = "bot"
	}

	return map[string]any{
		"email":   email,
		"browser": browser,
		"os":      os,
		"device":  device,
	}
}

func loginURL(next string) string {
	if next == "" {
		return redirectAdminLogin
	}
	return redirectAdminLogin + "?next=" + url.QueryEscape(next)
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
