// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"strings"
	"testing"
)

func TestRenderField(t *testing.T) {
	tests := []struct {
		name  string
		field FieldView
		want  []string
	}{
		{"text", FieldView{Name: "title", Kind: FieldText, Value: "Summit", Required: true},
			[]string{`type="text"`, `name="title"`, `value="Summit"`, "required"}},
		{"email", FieldView{Name: "contact", Kind: FieldEmail}, []string{`type="email"`}},
		{"number", FieldView{Name: "n", Kind: FieldNumber}, []string{`type="number"`}},
		{"date", FieldView{Name: "date", Kind: FieldDate, Value: "2026-11-12T18:00"},
			[]string{`type="datetime-local"`, `value="2026-11-12T18:00"`}},
		{"textarea", FieldView{Name: "bio", Kind: FieldTextarea, Value: "a<b"},
			[]string{"<textarea", `rows="4"`, "a&lt;b"}},
		{"richtext", FieldView{Name: "content", Kind: FieldRichText}, []string{`class="richtext"`, `rows="16"`}},
		{"select", FieldView{Name: "type", Kind: FieldSelect, Value: "past",
			Options: []Option{{"upcoming", "Upcoming"}, {"past", "Past"}}},
			[]string{"<select", `<option value="past" selected>Past</option>`, `<option value="">`}},
		{"file", FieldView{Name: "image", Kind: FieldFile, Accept: "image/*", Value: "/uploads/a.png"},
			[]string{`type="file"`, `name="image_upload"`, `accept="image/*"`, `src="/uploads/a.png"`}},
		{"checkbox", FieldView{Name: "published", Kind: FieldCheckbox, Value: "true"},
			[]string{`type="checkbox"`, "checked"}},
		{"error", FieldView{Name: "title", Kind: FieldText, Error: "Title is required"},
			[]string{`aria-invalid="true"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(RenderField(tt.field))
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("RenderField(%s) = %s\nmissing %s", tt.name, got, want)
				}
			}
		})
	}
}

func TestRenderField_EscapesValue(t *testing.T) {
	got := string(RenderField(FieldView{Name: "title", Kind: FieldText, Value: `"><script>`}))
	if strings.Contains(got, "<script>") {
		t.Errorf("value not escaped: %s", got)
	}
}

func TestRenderField_UncheckedCheckbox(t *testing.T) {
	got := string(RenderField(FieldView{Name: "published", Kind: FieldCheckbox, Value: "false"}))
	if strings.Contains(got, "checked") {
		t.Errorf("unchecked checkbox rendered checked: %s", got)
	}
}
