// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"bytes"
	"html/template"
	"log/slog"
)

var fieldTemplates = template.Must(template.New("fields").Parse(`
{{define "text"}}<input type="{{.Type}}" id="{{.F.Name}}" name="{{.F.Name}}" value="{{.F.Value}}"{{with .F.Placeholder}} placeholder="{{.}}"{{end}}{{if .F.Required}} required{{end}}{{if .F.Error}} aria-invalid="true"{{end}}>{{end}}
{{define "textarea"}}<textarea id="{{.F.Name}}" name="{{.F.Name}}" rows="{{.Rows}}"{{with .F.Placeholder}} placeholder="{{.}}"{{end}}{{if .F.Required}} required{{end}}{{if .F.Error}} aria-invalid="true"{{end}}>{{.F.Value}}</textarea>{{end}}
{{define "select"}}<select id="{{.F.Name}}" name="{{.F.Name}}"{{if .F.Required}} required{{end}}{{if .F.Error}} aria-invalid="true"{{end}}>{{if not .F.Required}}<option value="">Select...</option>{{end}}{{$v := .F.Value}}{{range .F.Options}}<option value="{{.Value}}"{{if eq .Value $v}} selected{{end}}>{{.Label}}</option>{{end}}</select>{{end}}
{{define "file"}}<input type="url" id="{{.F.Name}}" name="{{.F.Name}}" value="{{.F.Value}}" placeholder="https://"{{if .F.Error}} aria-invalid="true"{{end}}><input type="file" name="{{.F.Name}}_upload"{{with .F.Accept}} accept="{{.}}"{{end}}>{{with .F.Value}}<img class="field-preview" src="{{.}}" alt="">{{end}}{{end}}
{{define "richtext"}}<textarea id="{{.F.Name}}" name="{{.F.Name}}" class="richtext" rows="{{.Rows}}" data-editor="html"{{if .F.Error}} aria-invalid="true"{{end}}>{{.F.Value}}</textarea>{{end}}
{{define "checkbox"}}<input type="checkbox" id="{{.F.Name}}" name="{{.F.Name}}" value="true"{{if .F.Checked}} checked{{end}}>{{end}}
`))

type fieldData struct {
	F    FieldView
	Type string
	Rows int
}

// RenderField renders the input control of one field.
func RenderField(f FieldView) template.HTML {
	data := fieldData{F: f, Type: "text", Rows: f.Rows}
	var name string

	switch f.Kind {
	case FieldEmail:
		name, data.Type = "text", "email"
	case FieldNumber:
		name, data.Type = "text", "number"
	case FieldDate:
		name, data.Type = "text", "datetime-local"
	case FieldTextarea:
		name = "textarea"
		if data.Rows == 0 {
			data.Rows = 4
		}
	case FieldRichText:
		name = "richtext"
		if data.Rows == 0 {
			data.Rows = 16
		}
	case FieldSelect:
		name = "select"
	case FieldFile:
		name = "file"
	case FieldCheckbox:
		name = "checkbox"
	default:
		name = "text"
	}

	var buf bytes.Buffer
	if err := fieldTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("rendering form field", "field", f.Name, "error", err)
		return ""
	}
	return template.HTML(buf.String())
}
