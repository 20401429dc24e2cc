// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{0, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{23, "Good evening"},
	}

	for _, tt := range tests {
		if got := Greeting(tt.hour); got != tt.want {
			t.Errorf("Greeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestDashboard_RequiresSignIn(t *testing.T) {
	app := newTestApp(t)

	resp, _ := app.get("/admin")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin/login?next=%2Fadmin", resp.Header.Get("Location"))
}

func TestDashboard_Admin(t *testing.T) {
	app := newTestApp(t)
	app.signIn(adminEmail, adminPassword)

	resp, body := app.get("/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Contains(t, body, ", Admin User</h1>")
	assert.Contains(t, body, "Total Events: 5")
	assert.Contains(t, body, "Startups: 6")
	assert.Contains(t, body, "Pages: 5")
	assert.Equal(t, 6, strings.Count(body, `class="stat"`))

	// The next three upcoming events, soonest first.
	assert.Equal(t, 3, strings.Count(body, `class="upcoming"`))
	assert.Less(t, strings.Index(body, "AI in Finance Summit"), strings.Index(body, "Responsible AI Workshop"))

	// Admins see the audit trail, including their own sign-in.
	assert.Contains(t, body, `<div class="audit">Principal signed in</div>`)
}

func TestDashboard_ViewerHasNoAuditTrail(t *testing.T) {
	app := newTestApp(t)
	app.signIn(viewerEmail, viewerPassword)

	resp, body := app.get("/admin")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, ", Viewer User</h1>")
	assert.Equal(t, 6, strings.Count(body, `class="stat"`))
	assert.NotContains(t, body, `class="audit"`)
}

func TestForbiddenPage(t *testing.T) {
	app := newTestApp(t)
	app.signIn(viewerEmail, viewerPassword)

	resp, body := app.get("/admin/events/new")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Access denied")
	assert.Equal(t, 1, app.metrics.denialCount())
}
