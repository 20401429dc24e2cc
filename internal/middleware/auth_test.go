// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/alumni-cms/internal/auth"
	"github.com/olegiv/alumni-cms/internal/model"
)

type fakeRestorer struct {
	principal *model.Principal
}

func (f fakeRestorer) Restore(context.Context) *model.Principal { return f.principal }

type fakeAuditor struct {
	messages []string
	metadata []map[string]any
}

func (f *fakeAuditor) LogSecurityEvent(_ context.Context, message, _, _ string, metadata map[string]any) error {
	f.messages = append(f.messages, message)
	f.metadata = append(f.metadata, metadata)
	return nil
}

type fakeDenials struct {
	count int
	last  model.ResourceTag
}

func (f *fakeDenials) RecordPermissionDenied(res model.ResourceTag, _ model.Action) {
	f.count++
	f.last = res
}

func withPrincipal(r *http.Request, p *model.Principal) *http.Request {
	return r.WithContext(WithPrincipal(r.Context(), p))
}

func TestGetPrincipal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if p := GetPrincipal(req); p != nil {
		t.Errorf("GetPrincipal() = %v, want nil", p)
	}
	if id := GetPrincipalID(req); id != "" {
		t.Errorf("GetPrincipalID() = %q, want empty", id)
	}

	req = withPrincipal(req, &model.Principal{ID: "u1", Role: model.RoleEditor})
	p := GetPrincipal(req)
	if p == nil || p.ID != "u1" {
		t.Fatalf("GetPrincipal() = %v, want u1", p)
	}
	if id := GetPrincipalID(req); id != "u1" {
		t.Errorf("GetPrincipalID() = %q, want u1", id)
	}
}

func TestLoadPrincipal(t *testing.T) {
	tests := []struct {
		name   string
		stored *model.Principal
		wantID string
	}{
		{"anonymous", nil, ""},
		{"restored", &model.Principal{ID: "u2", Role: model.RoleViewer}, "u2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			handler := LoadPrincipal(fakeRestorer{tt.stored})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotID = GetPrincipalID(r)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin", nil))

			if gotID != tt.wantID {
				t.Errorf("principal ID = %q, want %q", gotID, tt.wantID)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(okHandler())

	tests := []struct {
		name         string
		method       string
		target       string
		principal    *model.Principal
		wantCode     int
		wantLocation string
	}{
		{"signed in", http.MethodGet, "/admin/events", &model.Principal{ID: "u1"}, http.StatusOK, ""},
		{"anonymous get keeps next", http.MethodGet, "/admin/events?page=2", nil, http.StatusSeeOther, "/admin/login?next=%2Fadmin%2Fevents%3Fpage%3D2"},
		{"anonymous post", http.MethodPost, "/admin/events", nil, http.StatusSeeOther, "/admin/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.principal != nil {
				req = withPrincipal(req, tt.principal)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{"", "/admin"},
		{"/admin/events?page=2", "/admin/events?page=2"},
		{"/events", "/admin"},
		{"//evil.example/admin", "/admin"},
		{"https://evil.example/admin", "/admin"},
		{"/admin\\@evil.example", "/admin"},
		{"/admin\r\nSet-Cookie: x", "/admin"},
	}

	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			if got := SafeNext(tt.next, "/admin"); got != tt.want {
				t.Errorf("SafeNext(%q) = %q, want %q", tt.next, got, tt.want)
			}
		})
	}
}

func TestGuardRequire(t *testing.T) {
	tests := []struct {
		name      string
		principal *model.Principal
		res       model.ResourceTag
		act       model.Action
		wantCode  int
		wantAudit bool
	}{
		{"admin deletes team", &model.Principal{ID: "a", Role: model.RoleAdmin}, model.ResourceTeam, model.ActionDelete, http.StatusOK, false},
		{"editor creates event", &model.Principal{ID: "e", Role: model.RoleEditor}, model.ResourceEvents, model.ActionCreate, http.StatusOK, false},
		{"editor deletes event", &model.Principal{ID: "e", Role: model.RoleEditor}, model.ResourceEvents, model.ActionDelete, http.StatusForbidden, true},
		{"editor edits settings", &model.Principal{ID: "e", Role: model.RoleEditor}, model.ResourceSettings, model.ActionEdit, http.StatusForbidden, true},
		{"viewer views pages", &model.Principal{ID: "v", Role: model.RoleViewer}, model.ResourcePages, model.ActionView, http.StatusOK, false},
		{"anonymous", nil, model.ResourcePages, model.ActionView, http.StatusSeeOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := &fakeAuditor{}
			denials := &fakeDenials{}
			guard := &Guard{Roles: auth.DefaultRoleTable(), Audit: audit, Metrics: denials}
			handler := guard.Require(tt.res, tt.act)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/admin/x", nil)
			if tt.principal != nil {
				req = withPrincipal(req, tt.principal)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := len(audit.messages) == 1; got != tt.wantAudit {
				t.Errorf("audited = %v, want %v", got, tt.wantAudit)
			}
			if tt.wantAudit {
				if audit.metadata[0]["resource"] != string(tt.res) {
					t.Errorf("audit resource = %v, want %s", audit.metadata[0]["resource"], tt.res)
				}
				if denials.count != 1 || denials.last != tt.res {
					t.Errorf("denials = %d (%s), want 1 (%s)", denials.count, denials.last, tt.res)
				}
			}
		})
	}
}

func TestGuardCustomForbidden(t *testing.T) {
	guard := &Guard{
		Roles: auth.DefaultRoleTable(),
		Forbidden: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("custom"))
		}),
	}
	handler := guard.Require(model.ResourceTeam, model.ActionEdit)(okHandler())

	req := withPrincipal(httptest.NewRequest(http.MethodPost, "/admin/team/1", nil),
		&model.Principal{ID: "v", Role: model.RoleViewer})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden || rec.Body.String() != "custom" {
		t.Errorf("got %d %q, want 403 custom", rec.Code, rec.Body.String())
	}
}

func TestRequestPath(t *testing.T) {
	var got string
	handler := RequestPath(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestPath(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/1", nil))

	if got != "/events/1" {
		t.Errorf("GetRequestPath() = %q, want /events/1", got)
	}
	if p := GetRequestPath(context.Background()); p != "" {
		t.Errorf("GetRequestPath(empty) = %q, want empty", p)
	}
}
