// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/alumni-cms/internal/model"
)

type item struct {
	ID   string
	Name string
}

func itemTable() Table[item] {
	return Table[item]{
		Title:    "Items",
		Resource: model.ResourceEvents,
		BasePath: "/admin/events",
		Columns: []Column[item]{
			{Header: "Name", Value: func(i item) string { return i.Name }},
			{Header: "Badge", Cell: func(i item) template.HTML { return template.HTML("<b>" + i.ID + "</b>") }},
		},
		Key: func(i item) string { return i.ID },
	}
}

func items(n int) []item {
	out := make([]item, n)
	for i := range out {
		out[i] = item{ID: fmt.Sprint(i + 1), Name: fmt.Sprintf("Item %d", i+1)}
	}
	return out
}

func allow(acts ...model.Action) PermitFunc {
	return func(res model.ResourceTag, act model.Action) bool {
		for _, a := range acts {
			if a == act {
				return true
			}
		}
		return false
	}
}

func TestTableBuild_Pages(t *testing.T) {
	v := itemTable().Build(items(25), ListState{Page: 3}, allow(model.ActionView))

	require.Len(t, v.Rows, 5)
	assert.Equal(t, "21", v.Rows[0].Key)
	assert.Equal(t, 3, v.Pagination.CurrentPage)
	assert.Equal(t, 3, v.Pagination.TotalPages)
	assert.Equal(t, []string{"Name", "Badge"}, v.Headers)
	assert.Equal(t, template.HTML("<b>21</b>"), v.Rows[0].Cells[1])
	assert.False(t, v.Empty)
}

func TestTableBuild_ClampsPage(t *testing.T) {
	v := itemTable().Build(items(25), ListState{Page: 40}, allow())
	assert.Equal(t, 3, v.Pagination.CurrentPage)
	assert.Len(t, v.Rows, 5)

	v = itemTable().Build(items(25), ListState{Page: 0}, allow())
	assert.Equal(t, 1, v.Pagination.CurrentPage)
	assert.Len(t, v.Rows, DefaultPageSize)
}

func TestTableBuild_Permissions(t *testing.T) {
	viewer := itemTable().Build(items(2), ListState{Page: 1}, allow(model.ActionView))
	assert.False(t, viewer.CanCreate)
	assert.False(t, viewer.CanEdit)
	assert.False(t, viewer.CanDelete)
	assert.Empty(t, viewer.Rows[0].EditURL)
	assert.Empty(t, viewer.Rows[0].DeleteURL)

	editor := itemTable().Build(items(2), ListState{Page: 1}, allow(model.ActionView, model.ActionCreate, model.ActionEdit))
	assert.True(t, editor.CanCreate)
	assert.True(t, editor.CanEdit)
	assert.False(t, editor.CanDelete)
	assert.Equal(t, "/admin/events/1", editor.Rows[0].EditURL)
	assert.Empty(t, editor.Rows[0].DeleteURL)

	admin := itemTable().Build(items(2), ListState{Page: 1}, allow(model.Actions...))
	assert.Equal(t, "/admin/events/2/delete", admin.Rows[1].DeleteURL)
	assert.Equal(t, "/admin/events/new", admin.AddURL)
}

func TestTableBuild_EmptyState(t *testing.T) {
	v := itemTable().Build(nil, ListState{Query: "zzz", Page: 1}, allow())
	assert.True(t, v.Empty)
	assert.Empty(t, v.Rows)
	assert.NotEmpty(t, v.EmptyText)
	assert.Equal(t, 1, v.Pagination.TotalPages)
}

func TestTableBuild_EscapesValues(t *testing.T) {
	v := itemTable().Build([]item{{ID: "x", Name: "<script>alert(1)</script>"}}, ListState{Page: 1}, allow())
	cell := string(v.Rows[0].Cells[0])
	assert.False(t, strings.Contains(cell, "<script>"), "cell not escaped: %s", cell)
}

func TestTableBuild_KeepsQueryInLinks(t *testing.T) {
	v := itemTable().Build(items(25), ListState{Query: "item", Page: 1}, allow())
	assert.Equal(t, "/admin/events?q=item&page=2", v.Pagination.NextURL())
	assert.Equal(t, "item", v.Query)
}
