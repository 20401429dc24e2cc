// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/olegiv/alumni-cms/internal/metrics"
	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/service"
)

// homeEventLimit is the number of upcoming events on the home page.
const homeEventLimit = 3

// FrontendHandler serves the public site.
type FrontendHandler struct {
	renderer *render.Renderer
	services *service.Services
	metrics  metrics.Recorder
}

// NewFrontendHandler creates a new FrontendHandler. rec may be nil.
func NewFrontendHandler(renderer *render.Renderer, services *service.Services, rec metrics.Recorder) *FrontendHandler {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &FrontendHandler{
		renderer: renderer,
		services: services,
		metrics:  rec,
	}
}

// HomeData is the view model of the home page.
type HomeData struct {
	Upcoming []model.Event
	Startups []model.Startup
	Partners []model.Partner
	Pages    []model.Page
}

// EventsData is the view model of the events listing.
type EventsData struct {
	// Filter is "", "upcoming" or "past".
	Filter   string
	Upcoming []model.Event
	Past     []model.Event
}

// ResourcesData is the view model of the resources listing.
type ResourcesData struct {
	Category   model.ResourceCategory
	Categories []model.ResourceCategory
	Resources  []model.Resource
}

// SubmissionData is the view model of the thank-you page.
type SubmissionData struct {
	Kind    string
	Message string
}

// Home renders the home page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	upcoming := h.services.Events.Upcoming()
	if len(upcoming) > homeEventLimit {
		upcoming = upcoming[:homeEventLimit]
	}

	h.render(w, r, http.StatusOK, tmplHome, "", HomeData{
		Upcoming: upcoming,
		Startups: h.services.Startups.List(),
		Partners: h.services.Partners.List(),
		Pages:    h.services.Pages.ListPublished(),
	})
}

// Events renders all events, upcoming first.
func (h *FrontendHandler) Events(w http.ResponseWriter, r *http.Request) {
	h.renderEvents(w, r, "")
}

// UpcomingEvents renders upcoming events only.
func (h *FrontendHandler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	h.renderEvents(w, r, string(model.EventUpcoming))
}

// PastEvents renders past events only.
func (h *FrontendHandler) PastEvents(w http.ResponseWriter, r *http.Request) {
	h.renderEvents(w, r, string(model.EventPast))
}

func (h *FrontendHandler) renderEvents(w http.ResponseWriter, r *http.Request, filter string) {
	data := EventsData{Filter: filter}
	if filter != string(model.EventPast) {
		data.Upcoming = h.services.Events.Upcoming()
	}
	if filter != string(model.EventUpcoming) {
		data.Past = h.services.Events.Past()
	}

	title := "Events"
	switch filter {
	case string(model.EventUpcoming):
		title = "Upcoming Events"
	case string(model.EventPast):
		title = "Past Events"
	}
	h.render(w, r, http.StatusOK, tmplEvents, title, data)
}

// Startups renders the startup showcase.
func (h *FrontendHandler) Startups(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, tmplStartups, "Startups", h.services.Startups.List())
}

// Resources renders the resource library, optionally filtered by ?category=.
func (h *FrontendHandler) Resources(w http.ResponseWriter, r *http.Request) {
	category := model.ResourceCategory(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))))
	if category != "" && !slices.Contains(model.ResourceCategories, category) {
		category = ""
	}

	h.render(w, r, http.StatusOK, tmplResources, "Resources", ResourcesData{
		Category:   category,
		Categories: model.ResourceCategories,
		Resources:  h.services.ResourcesByCategory(category),
	})
}

// Team renders the team page.
func (h *FrontendHandler) Team(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, tmplTeam, "Team", h.services.Team.List())
}

// Page renders a published page by slug.
func (h *FrontendHandler) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, ok := h.services.Pages.GetBySlug(slug)
	if !ok || !page.IsPublished {
		slog.Debug("page not found", "slug", slug, "published", ok && page.IsPublished)
		h.NotFound(w, r)
		return
	}

	h.render(w, r, http.StatusOK, tmplPage, page.Title, page)
}

// NotFound renders the 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusNotFound, tmplNotFound, "Page Not Found", nil)
}

// ContactSubmission is a message sent through the contact form.
type ContactSubmission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate checks the submission fields.
func (s ContactSubmission) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Subject, validation.Required, validation.Length(1, 200)),
		validation.Field(&s.Message, validation.Required, validation.Length(1, 5000)),
	)
}

// NewsletterSubmission is a newsletter sign-up.
type NewsletterSubmission struct {
	Email string `json:"email"`
}

// Validate checks the submission fields.
func (s NewsletterSubmission) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Email, validation.Required, is.Email),
	)
}

// Contact accepts a contact form submission. Submissions are logged and
// counted, never forwarded.
func (h *FrontendHandler) Contact(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.submissionError(w, r, "Invalid form data", nil)
		return
	}

	sub := ContactSubmission{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if err := sub.Validate(); err != nil {
		h.submissionError(w, r, "Please correct the highlighted fields", validationFields(err))
		return
	}

	slog.Info("contact form submitted",
		"category", "submission",
		"name", sub.Name,
		"email", sub.Email,
		"subject", sub.Subject,
		"ip", middleware.ClientIP(r),
	)
	h.submitted(w, r, SubmissionContact, "Thank you for your message! We'll get back to you soon.")
}

// Newsletter accepts a newsletter sign-up. Sign-ups are logged and counted,
// never forwarded.
func (h *FrontendHandler) Newsletter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.submissionError(w, r, "Invalid form data", nil)
		return
	}

	sub := NewsletterSubmission{Email: strings.TrimSpace(r.FormValue("email"))}
	if err := sub.Validate(); err != nil {
		h.submissionError(w, r, "Please enter a valid email address", validationFields(err))
		return
	}

	slog.Info("newsletter sign-up",
		"category", "submission",
		"email", sub.Email,
		"ip", middleware.ClientIP(r),
	)
	h.submitted(w, r, SubmissionNewsletter, "Thanks for subscribing to our newsletter!")
}

func (h *FrontendHandler) submitted(w http.ResponseWriter, r *http.Request, kind, message string) {
	h.metrics.RecordSubmission(kind)

	if wantsJSON(r) {
		writeJSONSuccess(w, map[string]any{"message": message})
		return
	}
	h.render(w, r, http.StatusOK, tmplSubmissions, "Thank You", SubmissionData{
		Kind:    kind,
		Message: message,
	})
}

func (h *FrontendHandler) submissionError(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	if wantsJSON(r) {
		writeJSONError(w, http.StatusUnprocessableEntity, message, fields)
		return
	}
	flashError(w, r, h.renderer, returnTo(r), message)
}

// returnTo returns the local page a form was posted from, or the home page.
func returnTo(r *http.Request) string {
	target := r.FormValue("return_to")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.ContainsAny(target, "\\\r\n") {
		return RouteRoot
	}
	return target
}

func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	h.renderer.Page(w, r, status, name, render.TemplateData{
		Title: title,
		Data:  data,
	})
}

// validationFields flattens ozzo validation errors into field messages.
func validationFields(err error) map[string]string {
	var errs validation.Errors
	if !errors.As(err, &errs) {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for name, fieldErr := range errs {
		fields[name] = fieldErr.Error()
	}
	return fields
}
