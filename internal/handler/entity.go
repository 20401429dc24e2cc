// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/uikit"
)

// Records is the service surface an EntityHandler drives.
// *service.EntityService and its specializations satisfy it.
type Records[T any] interface {
	List() []T
	Search(query string) []T
	GetByID(id string) (T, bool)
	Create(rec T) (T, error)
	Update(id string, patch service.Patch[T]) (T, bool, error)
	Delete(id string) bool
}

// Entity describes how one record kind is listed and edited.
type Entity[T any] struct {
	// Singular names one record in messages, e.g. "Event".
	Singular string
	Table    uikit.Table[T]
	Form     uikit.Form[T]
	// Defaults prefills the create form. Optional.
	Defaults func() T
	// New builds a record from validated form values.
	New func(v uikit.Values) (T, error)
	// Patch builds an update from validated form values.
	Patch func(v uikit.Values) (service.Patch[T], error)
	// Label names a record in the audit log.
	Label func(T) string
}

// FormPage is the view model of the admin form template.
type FormPage struct {
	Form      uikit.FormView
	BackURL   string
	DeleteURL string
	ResetURL  string
	IsNew     bool
	ReadOnly  bool
}

// EntityHandler serves the list, create, edit and delete screens of one
// record kind.
type EntityHandler[T any] struct {
	entity   Entity[T]
	records  Records[T]
	renderer *render.Renderer
	roles    middleware.Permissions
	audit    *service.AuditService
}

// NewEntityHandler creates an EntityHandler. audit may be nil.
func NewEntityHandler[T any](entity Entity[T], records Records[T], renderer *render.Renderer, roles middleware.Permissions, audit *service.AuditService) *EntityHandler[T] {
	return &EntityHandler[T]{
		entity:   entity,
		records:  records,
		renderer: renderer,
		roles:    roles,
		audit:    audit,
	}
}

// Resource returns the resource tag guarding the handler's routes.
func (h *EntityHandler[T]) Resource() model.ResourceTag {
	return h.entity.Table.Resource
}

// BasePath returns the admin path of the record list.
func (h *EntityHandler[T]) BasePath() string {
	return h.entity.Table.BasePath
}

// List handles GET {base}: the searchable, paged table.
func (h *EntityHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	state := uikit.ParseListState(r.URL.Query())
	records := uikit.Filter(state.Query, h.records.List, h.records.Search)
	view := h.entity.Table.Build(records, state, h.permits(r))

	h.renderer.Page(w, r, http.StatusOK, tmplList, render.TemplateData{
		Title: h.entity.Table.Title,
		Data:  view,
	})
}

// New handles GET {base}/new.
func (h *EntityHandler[T]) New(w http.ResponseWriter, r *http.Request) {
	var rec T
	if h.entity.Defaults != nil {
		rec = h.entity.Defaults()
	}
	h.renderForm(w, r, http.StatusOK, "", h.entity.Form.Values(rec), nil)
}

// Create handles POST {base}.
func (h *EntityHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	v, ok := h.readForm(w, r, "")
	if !ok {
		return
	}

	rec, err := h.entity.New(v)
	if err == nil {
		rec, err = h.records.Create(rec)
	}
	if err != nil {
		h.formFailure(w, r, "", v, err)
		return
	}

	id := h.entity.Table.Key(rec)
	slog.Info(h.entity.Singular+" created", "resource", h.Resource(), "id", id, "principal_id", middleware.GetPrincipalID(r))
	h.logContent(r, h.entity.Singular+" created", id, h.entity.Label(rec))
	flashSuccess(w, r, h.renderer, h.BasePath(), h.entity.Singular+" created successfully")
}

// Edit handles GET {base}/{id}.
func (h *EntityHandler[T]) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := requireEntity(w, r, h.renderer, h.BasePath(), h.entity.Singular, id, h.records.GetByID)
	if !ok {
		return
	}
	h.renderForm(w, r, http.StatusOK, id, h.entity.Form.Values(rec), nil)
}

// Update handles POST {base}/{id}.
func (h *EntityHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := requireEntity(w, r, h.renderer, h.BasePath(), h.entity.Singular, id, h.records.GetByID); !ok {
		return
	}

	v, ok := h.readForm(w, r, id)
	if !ok {
		return
	}

	patch, err := h.entity.Patch(v)
	if err != nil {
		h.formFailure(w, r, id, v, err)
		return
	}
	rec, found, err := h.records.Update(id, patch)
	if err != nil {
		h.formFailure(w, r, id, v, err)
		return
	}
	if !found {
		flashError(w, r, h.renderer, h.BasePath(), h.entity.Singular+" not found")
		return
	}

	slog.Info(h.entity.Singular+" updated", "resource", h.Resource(), "id", id, "principal_id", middleware.GetPrincipalID(r))
	h.logContent(r, h.entity.Singular+" updated", id, h.entity.Label(rec))
	flashSuccess(w, r, h.renderer, h.BasePath(), h.entity.Singular+" updated successfully")
}

// Delete handles POST {base}/{id}/delete and DELETE {base}/{id}.
// DELETE requests get a bare status instead of a redirect.
func (h *EntityHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, _ := h.records.GetByID(id)
	found := h.records.Delete(id)

	if found {
		slog.Info(h.entity.Singular+" deleted", "resource", h.Resource(), "id", id, "principal_id", middleware.GetPrincipalID(r))
		h.logContent(r, h.entity.Singular+" deleted", id, h.entity.Label(rec))
	}

	if r.Method == http.MethodDelete {
		if !found {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if !found {
		flashError(w, r, h.renderer, h.BasePath(), h.entity.Singular+" not found")
		return
	}
	flashSuccess(w, r, h.renderer, h.BasePath(), h.entity.Singular+" deleted successfully")
}

// readForm reads and validates the submitted form. On failure the response
// has been written.
func (h *EntityHandler[T]) readForm(w http.ResponseWriter, r *http.Request, id string) (uikit.Values, bool) {
	v, errs, err := h.entity.Form.Submit(r)
	if err != nil {
		slog.Warn("failed to read form", "resource", h.Resource(), "error", err)
		flashError(w, r, h.renderer, h.formURL(id), "Could not read the submitted form")
		return nil, false
	}
	if errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, v, errs)
		return nil, false
	}
	return v, true
}

// formFailure re-renders the form for validation errors and answers 500
// for anything else.
func (h *EntityHandler[T]) formFailure(w http.ResponseWriter, r *http.Request, id string, v uikit.Values, err error) {
	if errs := fieldErrors(err); errs != nil {
		h.renderForm(w, r, http.StatusUnprocessableEntity, id, v, errs)
		return
	}
	logAndInternalError(w, "failed to save "+h.entity.Singular, "resource", h.Resource(), "id", id, "error", err)
}

func (h *EntityHandler[T]) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, v uikit.Values, errs uikit.FieldErrors) {
	p := middleware.GetPrincipal(r)
	page := FormPage{
		BackURL:  h.BasePath(),
		IsNew:    id == "",
		ReadOnly: id != "" && !h.roles.HasPermission(p, h.Resource(), model.ActionEdit),
	}
	title := "New " + h.entity.Singular
	if id != "" {
		title = "Edit " + h.entity.Singular
		if page.ReadOnly {
			title = h.entity.Singular
		}
		if h.roles.HasPermission(p, h.Resource(), model.ActionDelete) {
			page.DeleteURL = h.itemURL(id) + RouteSuffixDelete
		}
	}
	form := h.entity.Form
	form.Title = title
	page.Form = form.Build(h.actionURL(id), v, errs)

	h.renderer.Page(w, r, status, tmplForm, render.TemplateData{
		Title: title,
		Data:  page,
	})
}

func (h *EntityHandler[T]) permits(r *http.Request) uikit.PermitFunc {
	p := middleware.GetPrincipal(r)
	return func(res model.ResourceTag, act model.Action) bool {
		return h.roles.HasPermission(p, res, act)
	}
}

func (h *EntityHandler[T]) logContent(r *http.Request, message, id, label string) {
	if h.audit == nil {
		return
	}
	err := h.audit.LogContentEvent(r.Context(), message, middleware.GetPrincipalID(r), middleware.ClientIP(r), map[string]any{
		"resource": string(h.Resource()),
		"id":       id,
		"label":    label,
	})
	if err != nil {
		slog.Error("failed to write audit entry", "error", err)
	}
}

func (h *EntityHandler[T]) itemURL(id string) string {
	return h.BasePath() + "/" + url.PathEscape(id)
}

func (h *EntityHandler[T]) actionURL(id string) string {
	if id == "" {
		return h.BasePath()
	}
	return h.itemURL(id)
}

func (h *EntityHandler[T]) formURL(id string) string {
	if id == "" {
		return h.BasePath() + RouteSuffixNew
	}
	return h.itemURL(id)
}

// fieldErrors converts a service validation error into inline field errors.
// It returns nil for any other error.
func fieldErrors(err error) uikit.FieldErrors {
	var ve *service.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	return uikit.FieldErrors{ve.Field: ve.Message}
}
