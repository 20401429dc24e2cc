// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package uikit

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/microcosm-cc/bluemonday"
)

// FieldKind selects the input control and the value checks of a field.
type FieldKind string

// Field kinds.
const (
	FieldText     FieldKind = "text"
	FieldEmail    FieldKind = "email"
	FieldNumber   FieldKind = "number"
	FieldTextarea FieldKind = "textarea"
	FieldSelect   FieldKind = "select"
	FieldDate     FieldKind = "date"
	FieldFile     FieldKind = "file"
	FieldRichText FieldKind = "richtext"
	FieldCheckbox FieldKind = "checkbox"
)

// DateLayout is the layout of date field values.
const DateLayout = "2006-01-02T15:04"

// MaxUploadSize limits multipart form bodies.
const MaxUploadSize = 10 << 20

// UploadSuffix names the file input that accompanies a file field.
const UploadSuffix = "_upload"

// Option is one choice of a select field.
type Option struct {
	Value string
	Label string
}

// Field declares one form input bound to a record accessor.
type Field[T any] struct {
	Name        string
	Label       string
	Kind        FieldKind
	Required    bool
	Options     []Option
	Placeholder string
	Help        string
	Rows        int
	Accept      string
	Value       func(T) string
}

// Uploader stores an uploaded file and returns its public URL.
type Uploader interface {
	Save(ctx context.Context, field string, file multipart.File, header *multipart.FileHeader) (string, error)
}

// Form is a declarative record form.
type Form[T any] struct {
	Title    string
	Fields   []Field[T]
	Uploader Uploader
}

// Values holds submitted or prefilled field values by name.
type Values map[string]string

// FieldErrors maps field names to messages.
type FieldErrors map[string]string

var richTextPolicy = bluemonday.UGCPolicy()

// Values prefills the form from rec.
func (f *Form[T]) Values(rec T) Values {
	v := make(Values, len(f.Fields))
	for _, fd := range f.Fields {
		if fd.Value != nil {
			v[fd.Name] = fd.Value(rec)
		}
	}
	return v
}

// Read collects the declared fields from a submitted request. Rich text is
// sanitized and checkboxes become "true" or "false". Attached uploads are
// not stored; Submit does that.
func (f *Form[T]) Read(r *http.Request) (Values, error) {
	if f.Multipart() {
		if err := r.ParseMultipartForm(MaxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("parsing form: %w", err)
		}
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parsing form: %w", err)
	}

	v := make(Values, len(f.Fields))
	for _, fd := range f.Fields {
		switch fd.Kind {
		case FieldCheckbox:
			v[fd.Name] = strconv.FormatBool(r.PostForm.Has(fd.Name))
		case FieldRichText:
			v[fd.Name] = strings.TrimSpace(richTextPolicy.Sanitize(r.PostFormValue(fd.Name)))
		default:
			v[fd.Name] = strings.TrimSpace(r.PostFormValue(fd.Name))
		}
	}
	return v, nil
}

// Submit reads and validates a submitted form. Uploads are stored through
// the form's Uploader only once every field passes, so a rejected
// submission leaves no files behind. A file field with an attached upload
// counts as filled.
func (f *Form[T]) Submit(r *http.Request) (Values, FieldErrors, error) {
	v, err := f.Read(r)
	if err != nil {
		return nil, nil, err
	}

	pending := f.pendingUploads(r)
	check := v
	if len(pending) > 0 {
		check = maps.Clone(v)
		for _, name := range pending {
			if check[name] == "" {
				check[name] = UploadSuffix
			}
		}
	}
	if errs := f.Validate(check); errs != nil {
		return v, errs, nil
	}

	for _, name := range pending {
		url, err := f.saveUpload(r, name)
		if err != nil {
			return nil, nil, err
		}
		v[name] = url
	}
	return v, nil, nil
}

// pendingUploads returns the file fields with an attached upload.
func (f *Form[T]) pendingUploads(r *http.Request) []string {
	if f.Uploader == nil || r.MultipartForm == nil {
		return nil
	}
	var names []string
	for _, fd := range f.Fields {
		if fd.Kind == FieldFile && len(r.MultipartForm.File[fd.Name+UploadSuffix]) > 0 {
			names = append(names, fd.Name)
		}
	}
	return names
}

func (f *Form[T]) saveUpload(r *http.Request, name string) (string, error) {
	file, header, err := r.FormFile(name + UploadSuffix)
	if err != nil {
		return "", fmt.Errorf("reading upload %s: %w", name, err)
	}
	defer func() { _ = file.Close() }()

	url, err := f.Uploader.Save(r.Context(), name, file, header)
	if err != nil {
		return "", fmt.Errorf("saving upload %s: %w", name, err)
	}
	return url, nil
}

// Multipart reports whether the form has a file field.
func (f *Form[T]) Multipart() bool {
	for _, fd := range f.Fields {
		if fd.Kind == FieldFile {
			return true
		}
	}
	return false
}

// Validate checks each field against its kind and required flag.
// It returns nil when every field passes.
func (f *Form[T]) Validate(v Values) FieldErrors {
	errs := FieldErrors{}
	for _, fd := range f.Fields {
		if err := validation.Validate(v[fd.Name], fieldRules(fd.Label, fd.Kind, fd.Required, fd.Options)...); err != nil {
			errs[fd.Name] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func fieldRules(label string, kind FieldKind, required bool, options []Option) []validation.Rule {
	var rules []validation.Rule
	if required && kind != FieldCheckbox {
		rules = append(rules, validation.Required.Error(label+" is required"))
	}
	switch kind {
	case FieldEmail:
		rules = append(rules, is.EmailFormat.Error("Enter a valid email address"))
	case FieldNumber:
		rules = append(rules, is.Float.Error(label+" must be a number"))
	case FieldSelect:
		allowed := make([]any, len(options))
		for i, o := range options {
			allowed[i] = o.Value
		}
		rules = append(rules, validation.In(allowed...).Error("Choose one of the listed options"))
	case FieldDate:
		rules = append(rules, validation.By(func(value any) error {
			s, _ := value.(string)
			if s == "" {
				return nil
			}
			if _, err := ParseDate(s); err != nil {
				return validation.NewError("validation_date_invalid", "Enter a valid date")
			}
			return nil
		}))
	}
	return rules
}

// Build returns the render-ready form.
func (f *Form[T]) Build(action string, v Values, errs FieldErrors) FormView {
	view := FormView{
		Title:     f.Title,
		Action:    action,
		Multipart: f.Multipart(),
		Errors:    errs,
	}
	for _, fd := range f.Fields {
		view.Fields = append(view.Fields, FieldView{
			Name:        fd.Name,
			Label:       fd.Label,
			Kind:        fd.Kind,
			Required:    fd.Required,
			Options:     fd.Options,
			Placeholder: fd.Placeholder,
			Help:        fd.Help,
			Rows:        fd.Rows,
			Accept:      fd.Accept,
			Value:       v[fd.Name],
			Error:       errs[fd.Name],
		})
	}
	return view
}

// FormView is a render-ready form.
type FormView struct {
	Title     string
	Action    string
	Multipart bool
	Fields    []FieldView
	Errors    FieldErrors
}

// FieldView is one render-ready field.
type FieldView struct {
	Name        string
	Label       string
	Kind        FieldKind
	Required    bool
	Options     []Option
	Placeholder string
	Help        string
	Rows        int
	Accept      string
	Value       string
	Error       string
}

// Checked reports whether a checkbox value is set.
func (fv FieldView) Checked() bool {
	return fv.Value == "true"
}

// ParseDate accepts the date field layout, a plain date or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{DateLayout, "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatDate formats t for a date field.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// Ptr returns a pointer to the value of name, or nil when absent.
func (v Values) Ptr(name string) *string {
	s, ok := v[name]
	if !ok {
		return nil
	}
	return &s
}

// Bool returns the checkbox value of name.
func (v Values) Bool(name string) bool {
	b, _ := strconv.ParseBool(v[name])
	return b
}
