// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"html/template"
	"net/url"

	"github.com/olegiv/alumni-cms/internal/model"
)

// PermitFunc answers whether the current principal may perform act on res.
type PermitFunc func(res model.ResourceTag, act model.Action) bool

// Column describes one table column. Cell, when set, renders the cell
// instead of the escaped Value.
type Column[T any] struct {
	Header string
	Value  func(T) string
	Cell   func(T) template.HTML
}

// Table renders records of one kind with search, paging and row actions.
type Table[T any] struct {
	Title      string
	Resource   model.ResourceTag
	BasePath   string
	AddLabel   string
	EmptyText  string
	Searchable bool
	PageSize   int
	Columns    []Column[T]
	Key        func(T) string
}

// TableView is a render-ready table.
type TableView struct {
	Title      string
	BasePath   string
	AddLabel   string
	AddURL     string
	EmptyText  string
	Searchable bool
	Query      string
	Headers    []string
	Rows       []Row
	Empty      bool
	CanCreate  bool
	CanEdit    bool
	CanDelete  bool
	Pagination Pagination
}

// Row is one rendered record.
type Row struct {
	Key       string
	Cells     []template.HTML
	EditURL   string
	DeleteURL string
}

// Build pages records according to state and renders the visible rows.
// Create, edit and delete controls are offered only when permits grants
// the action on the table's resource.
func (t Table[T]) Build(records []T, state ListState, permits PermitFunc) TableView {
	size := t.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	page, _ := Paginate(len(records), size, state.Page)

	params := url.Values{}
	if state.Query != "" {
		params.Set("q", state.Query)
	}

	v := TableView{
		Title:      t.Title,
		BasePath:   t.BasePath,
		AddLabel:   t.AddLabel,
		AddURL:     t.BasePath + "/new",
		EmptyText:  t.EmptyText,
		Searchable: t.Searchable,
		Query:      state.Query,
		Empty:      len(records) == 0,
		CanCreate:  permits(t.Resource, model.ActionCreate),
		CanEdit:    permits(t.Resource, model.ActionEdit),
		CanDelete:  permits(t.Resource, model.ActionDelete),
		Pagination: BuildPagination(page, len(records), size, t.BasePath, params),
	}
	if v.EmptyText == "" {
		v.EmptyText = "No records found."
	}
	if v.AddLabel == "" {
		v.AddLabel = "Add New"
	}

	for _, c := range t.Columns {
		v.Headers = append(v.Headers, c.Header)
	}

	start, end := PageBounds(len(records), size, page)
	for _, rec := range records[start:end] {
		key := t.Key(rec)
		row := Row{Key: key, Cells: make([]template.HTML, 0, len(t.Columns))}
		for _, c := range t.Columns {
			row.Cells = append(row.Cells, t.cell(c, rec))
		}
		if v.CanEdit {
			row.EditURL = t.BasePath + "/" + url.PathEscape(key)
		}
		if v.CanDelete {
			row.DeleteURL = t.BasePath + "/" + url.PathEscape(key) + "/delete"
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

func (t Table[T]) cell(c Column[T], rec T) template.HTML {
	if c.Cell != nil {
		return c.Cell(rec)
	}
	if c.Value == nil {
		return ""
	}
	return template.HTML(template.HTMLEscapeString(c.Value(rec)))
}
