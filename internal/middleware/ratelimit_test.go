// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"remote addr with port", "", "", "192.0.2.1:1234", "192.0.2.1"},
		{"remote addr without port", "", "", "192.0.2.1", "192.0.2.1"},
		{"x-real-ip wins", "203.0.113.5", "198.51.100.1", "192.0.2.1:1234", "203.0.113.5"},
		{"first forwarded entry", "", "198.51.100.1, 10.0.0.1", "192.0.2.1:1234", "198.51.100.1"},
		{"ipv6", "", "", "[2001:db8::1]:443", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormRateLimiter(t *testing.T) {
	rl := NewFormRateLimiter(0.001, 1)
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(method, ip string) int {
		req := httptest.NewRequest(method, "/contact", nil)
		req.RemoteAddr = ip + ":1000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	if got := send(http.MethodPost, "192.0.2.1"); got != http.StatusNoContent {
		t.Errorf("first POST = %d, want 204", got)
	}
	if got := send(http.MethodPost, "192.0.2.1"); got != http.StatusTooManyRequests {
		t.Errorf("second POST = %d, want 429", got)
	}
	if got := send(http.MethodPost, "192.0.2.2"); got != http.StatusNoContent {
		t.Errorf("other IP = %d, want 204", got)
	}
	if got := send(http.MethodGet, "192.0.2.1"); got != http.StatusNoContent {
		t.Errorf("GET = %d, want 204", got)
	}
}

func TestLimiterCacheClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	if lc.clearIfExceeds(2) {
		t.Error("should not clear at the limit")
	}
	lc.get("c")
	if !lc.clearIfExceeds(2) {
		t.Error("should clear above the limit")
	}
	if len(lc.limiters) != 0 {
		t.Errorf("limiters = %d, want 0", len(lc.limiters))
	}
}
