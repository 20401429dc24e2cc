// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/alumni-cms/internal/render"
)

func TestLogAndHTTPError(t *testing.T) {
	tests := []struct {
		name       string
		message    string
		statusCode int
		logMsg     string
	}{
		{"bad request", "Bad Request", http.StatusBadRequest, "validation failed"},
		{"not found", "Not Found", http.StatusNotFound, "resource missing"},
		{"internal error", "Internal Server Error", http.StatusInternalServerError, "database error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			logAndHTTPError(w, tt.message, tt.statusCode, tt.logMsg)

			if w.Code != tt.statusCode {
				t.Errorf("status code = %d, want %d", w.Code, tt.statusCode)
			}

			body := w.Body.String()
			if body == "" {
				t.Error("body should not be empty")
			}
		})
	}
}

func TestLogAndInternalError(t *testing.T) {
	w := httptest.NewRecorder()
	logAndInternalError(w, "database connection failed", "error", errors.New("connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status code = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func testRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	renderer, err := render.New(render.Config{TemplatesFS: testTemplates})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	return renderer
}

func TestRequireEntity(t *testing.T) {
	type item struct {
		ID   string
		Name string
	}
	items := map[string]item{"1": {ID: "1", Name: "First"}}
	lookup := func(id string) (item, bool) {
		it, ok := items[id]
		return it, ok
	}
	renderer := testRenderer(t)

	t.Run("found", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/admin/items/1", nil)

		got, ok := requireEntity(w, r, renderer, "/admin/items", "Item", "1", lookup)
		if !ok {
			t.Fatal("expected ok")
		}
		if got.Name != "First" {
			t.Errorf("Name = %q, want First", got.Name)
		}
		if w.Code != http.StatusOK {
			t.Errorf("nothing should be written, got status %d", w.Code)
		}
	})

	t.Run("missing redirects", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/admin/items/9", nil)

		got, ok := requireEntity(w, r, renderer, "/admin/items", "Item", "9", lookup)
		if ok {
			t.Fatal("expected not ok")
		}
		if got != (item{}) {
			t.Errorf("got %+v, want zero value", got)
		}
		if w.Code != http.StatusSeeOther {
			t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
		}
		if loc := w.Header().Get("Location"); loc != "/admin/items" {
			t.Errorf("Location = %q, want /admin/items", loc)
		}
	})
}

func TestFlashAndRedirect(t *testing.T) {
	renderer := testRenderer(t)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/admin/events", nil)

	flashSuccess(w, r, renderer, "/admin/events", "saved")

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/admin/events" {
		t.Errorf("Location = %q", loc)
	}
}
