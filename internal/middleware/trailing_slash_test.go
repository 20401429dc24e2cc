// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripTrailingSlash(t *testing.T) {
	handler := StripTrailingSlash(okHandler())

	tests := []struct {
		target       string
		wantCode     int
		wantLocation string
	}{
		{"/", http.StatusOK, ""},
		{"/events", http.StatusOK, ""},
		{"/events/", http.StatusMovedPermanently, "/events"},
		{"/resources/?category=video", http.StatusMovedPermanently, "/resources?category=video"},
		{"//evil.example.com/", http.StatusMovedPermanently, "/evil.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}
