// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"net/url"
)

// DefaultPageSize is the number of rows per list page.
const DefaultPageSize = 10

// Paginate clamps requested to [1, totalPages] and returns it with the
// page count. An empty collection still has one page.
func Paginate(total, size, requested int) (page, totalPages int) {
	if size < 1 {
		size = DefaultPageSize
	}
	totalPages = (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(requested, 1), totalPages)
	return page, totalPages
}

// PageBounds returns the slice bounds of page.
func PageBounds(total, size, page int) (start, end int) {
	start = min((page-1)*size, total)
	end = min(start+size, total)
	return start, end
}

// Pagination holds page links for list templates.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	TotalItems  int
	PerPage     int
	HasPrev     bool
	HasNext     bool
	Pages       []PageLink
	BaseURL     string
	QueryString string
}

// PageLink is one entry of the page navigation.
type PageLink struct {
	Number     int
	URL        string
	IsCurrent  bool
	IsEllipsis bool
}

// BuildPagination creates page links for baseURL, keeping every non-empty
// query parameter except page.
func BuildPagination(currentPage, totalItems, perPage int, baseURL string, params url.Values) Pagination {
	currentPage, totalPages := Paginate(totalItems, perPage, currentPage)

	p := Pagination{
		CurrentPage: currentPage,
		TotalPages:  totalPages,
		TotalItems:  totalItems,
		PerPage:     perPage,
		HasPrev:     currentPage > 1,
		HasNext:     currentPage < totalPages,
		BaseURL:     baseURL,
	}

	kept := make(url.Values)
	for k, v := range params {
		if k != "page" && len(v) > 0 && v[0] != "" {
			kept[k] = v
		}
	}
	if len(kept) > 0 {
		p.QueryString = kept.Encode()
	}

	// Five page numbers around the current page, plus first and last.
	start, end := currentPage-2, currentPage+2
	if start < 1 {
		start, end = 1, 5
	}
	if end > totalPages {
		end = totalPages
		start = max(end-4, 1)
	}

	if start > 1 {
		p.Pages = append(p.Pages, PageLink{Number: 1, URL: p.PageURL(1)})
		if start > 2 {
			p.Pages = append(p.Pages, PageLink{IsEllipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Pages = append(p.Pages, PageLink{Number: i, URL: p.PageURL(i), IsCurrent: i == currentPage})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Pages = append(p.Pages, PageLink{IsEllipsis: true})
		}
		p.Pages = append(p.Pages, PageLink{Number: totalPages, URL: p.PageURL(totalPages)})
	}
	return p
}

// PageURL returns the URL of page.
func (p Pagination) PageURL(page int) string {
	if p.QueryString != "" {
		return fmt.Sprintf("%s?%s&page=%d", p.BaseURL, p.QueryString, page)
	}
	return fmt.Sprintf("%s?page=%d", p.BaseURL, page)
}

// PrevURL returns the URL of the previous page.
func (p Pagination) PrevURL() string {
	return p.PageURL(p.CurrentPage - 1)
}

// NextURL returns the URL of the next page.
func (p Pagination) NextURL() string {
	return p.PageURL(p.CurrentPage + 1)
}

// ShouldShow reports whether there is more than one page.
func (p Pagination) ShouldShow() bool {
	return p.TotalPages > 1
}

// PageRange describes the rows shown, e.g. "11-20".
func (p Pagination) PageRange() string {
	if p.TotalItems == 0 {
		return "0"
	}
	start, end := PageBounds(p.TotalItems, p.PerPage, p.CurrentPage)
	return fmt.Sprintf("%d-%d", start+1, end)
}
