// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/olegiv/alumni-cms/internal/model"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request data.
const (
	ContextKeyPrincipal   ContextKey = "principal"
	ContextKeyRequestPath ContextKey = "request_path"
)

// LoginPath is where unauthenticated admin requests are sent.
const LoginPath = "/admin/login"

// Restorer rebuilds the signed-in principal from the session.
type Restorer interface {
	Restore(ctx context.Context) *model.Principal
}

// LoadPrincipal restores the principal from the session and stores it in the
// request context. Requests without a valid session continue anonymously.
func LoadPrincipal(sessions Restorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p := sessions.Restore(r.Context()); p != nil {
				r = r.WithContext(WithPrincipal(r.Context(), p))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *model.Principal) context.Context {
	return context.WithValue(ctx, ContextKeyPrincipal, p)
}

// GetPrincipal retrieves the signed-in principal from the request context.
// Returns nil if nobody is signed in.
func GetPrincipal(r *http.Request) *model.Principal {
	p, _ := r.Context().Value(ContextKeyPrincipal).(*model.Principal)
	return p
}

// GetPrincipalID returns the principal's ID, or "" when anonymous.
func GetPrincipalID(r *http.Request) string {
	if p := GetPrincipal(r); p != nil {
		return p.ID
	}
	return ""
}

// RequireAuth redirects anonymous requests to the login page, remembering
// where they were headed.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r) == nil {
			target := LoginPath
			if r.Method == http.MethodGet && r.URL.Path != LoginPath {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SafeNext returns next when it is a local admin path, or fallback otherwise.
func SafeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/admin") || strings.ContainsAny(next, "\\\r\n") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return next
}

// RequestPath creates middleware that stores the request path in the context.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}

// Permissions answers role-based permission checks.
type Permissions interface {
	HasPermission(p *model.Principal, res model.ResourceTag, act model.Action) bool
}

// Auditor records security events.
type Auditor interface {
	LogSecurityEvent(ctx context.Context, message, principalID, ipAddress string, metadata map[string]any) error
}

// DenialRecorder counts rejected requests.
type DenialRecorder interface {
	RecordPermissionDenied(res model.ResourceTag, act model.Action)
}

// Guard enforces per-route permissions.
type Guard struct {
	Roles   Permissions
	Audit   Auditor        // optional
	Metrics DenialRecorder // optional

	// Forbidden writes the 403 response. Defaults to a plain-text error.
	Forbidden http.Handler
}

// Require returns middleware that allows the request only when the signed-in
// principal holds act on res. Anonymous requests are sent to the login page.
func (g *Guard) Require(res model.ResourceTag, act model.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := GetPrincipal(r)
			if g.Roles.HasPermission(p, res, act) {
				next.ServeHTTP(w, r)
				return
			}
			g.deny(w, r, p, res, act)
		}))
	}
}

func (g *Guard) deny(w http.ResponseWriter, r *http.Request, p *model.Principal, res model.ResourceTag, act model.Action) {
	ip := ClientIP(r)
	slog.Warn("access denied",
		"category", model.AuditCategorySecurity,
		"status", http.StatusForbidden,
		"method", r.Method,
		"path", r.URL.Path,
		"principal_id", p.ID,
		"role", string(p.Role),
		"resource", string(res),
		"action", string(act),
		"ip", ip,
	)

	if g.Audit != nil {
		_ = g.Audit.LogSecurityEvent(r.Context(), "Access denied: insufficient permissions", p.ID, ip, map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"role":     string(p.Role),
			"resource": string(res),
			"action":   string(act),
		})
	}
	if g.Metrics != nil {
		g.Metrics.RecordPermissionDenied(res, act)
	}

	if g.Forbidden != nil {
		g.Forbidden.ServeHTTP(w, r)
		return
	}
	http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
}
