// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/url"
	"testing"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                 string
		total, size, request int
		wantPage, wantPages  int
	}{
		{"25 records page 1", 25, 10, 1, 1, 3},
		{"page 0 clamps to 1", 25, 10, 0, 1, 3},
		{"page 4 clamps to 3", 25, 10, 4, 3, 3},
		{"negative page", 25, 10, -7, 1, 3},
		{"exact multiple", 20, 10, 2, 2, 2},
		{"empty collection", 0, 10, 3, 1, 1},
		{"zero size uses default", 25, 0, 3, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pages := Paginate(tt.total, tt.size, tt.request)
			if page != tt.wantPage || pages != tt.wantPages {
				t.Errorf("Paginate(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tt.total, tt.size, tt.request, page, pages, tt.wantPage, tt.wantPages)
			}
		})
	}
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		total, size, page int
		start, end        int
	}{
		{25, 10, 1, 0, 10},
		{25, 10, 3, 20, 25},
		{0, 10, 1, 0, 0},
	}
	for _, tt := range tests {
		start, end := PageBounds(tt.total, tt.size, tt.page)
		if start != tt.start || end != tt.end {
			t.Errorf("PageBounds(%d, %d, %d) = (%d, %d), want (%d, %d)",
				tt.total, tt.size, tt.page, start, end, tt.start, tt.end)
		}
	}
}

func TestBuildPagination(t *testing.T) {
	p := BuildPagination(5, 200, 10, "/admin/events", url.Values{"q": {"ai"}, "page": {"5"}, "empty": {""}})

	if p.TotalPages != 20 {
		t.Errorf("TotalPages = %d, want 20", p.TotalPages)
	}
	if p.QueryString != "q=ai" {
		t.Errorf("QueryString = %q, want %q", p.QueryString, "q=ai")
	}
	if !p.HasPrev || !p.HasNext {
		t.Error("expected prev and next")
	}
	if got := p.NextURL(); got != "/admin/events?q=ai&page=6" {
		t.Errorf("NextURL = %q", got)
	}

	var numbers []int
	ellipses := 0
	for _, pg := range p.Pages {
		if pg.IsEllipsis {
			ellipses++
			continue
		}
		numbers = append(numbers, pg.Number)
	}
	want := []int{1, 3, 4, 5, 6, 7, 20}
	if len(numbers) != len(want) {
		t.Fatalf("page numbers = %v, want %v", numbers, want)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Errorf("page numbers = %v, want %v", numbers, want)
			break
		}
	}
	if ellipses != 2 {
		t.Errorf("ellipses = %d, want 2", ellipses)
	}
}

func TestBuildPagination_ClampsAndRange(t *testing.T) {
	p := BuildPagination(9, 25, 10, "/admin/pages", nil)

	if p.CurrentPage != 3 {
		t.Errorf("CurrentPage = %d, want 3", p.CurrentPage)
	}
	if p.HasNext {
		t.Error("last page should have no next")
	}
	if got := p.PageRange(); got != "21-25" {
		t.Errorf("PageRange = %q, want %q", got, "21-25")
	}
	if got := p.PageURL(1); got != "/admin/pages?page=1" {
		t.Errorf("PageURL(1) = %q", got)
	}
	if !p.ShouldShow() {
		t.Error("3 pages should show pagination")
	}

	single := BuildPagination(1, 4, 10, "/admin/pages", nil)
	if single.ShouldShow() {
		t.Error("single page should not show pagination")
	}
}
