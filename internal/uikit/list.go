// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"net/url"
	"strconv"
	"strings"
)

// ListState is the search query and requested page of a list view.
type ListState struct {
	Query string
	Page  int
}

// ParseListState reads q and page from a query string.
// A missing or malformed page means page 1.
func ParseListState(values url.Values) ListState {
	page, err := strconv.Atoi(values.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	return ListState{Query: strings.TrimSpace(values.Get("q")), Page: page}
}

// WithQuery returns the state for a new search. A changed query starts
// again at page 1.
func (s ListState) WithQuery(query string) ListState {
	query = strings.TrimSpace(query)
	if query == s.Query {
		return s
	}
	return ListState{Query: query, Page: 1}
}

// GoTo returns the state for page, clamped to [1, totalPages].
func (s ListState) GoTo(page, totalPages int) ListState {
	s.Page = min(max(page, 1), max(totalPages, 1))
	return s
}

// Filter applies the blank-query policy: a blank query lists everything,
// anything else is passed to search.
func Filter[T any](query string, list func() []T, search func(string) []T) []T {
	if strings.TrimSpace(query) == "" {
		return list()
	}
	return search(strings.TrimSpace(query))
}
