// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses and executes the HTML templates of the admin
// console and the public site.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/uikit"
)

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// blankLinesRegex matches two or more consecutive newlines (with optional whitespace between).
var blankLinesRegex = regexp.MustCompile(`(\r?\n\s*){2,}`)

// layoutSets maps a template directory to the layouts its pages are parsed with.
var layoutSets = map[string][]string{
	"admin":  {"layouts/base.html", "layouts/admin.html"},
	"public": {"layouts/base.html", "layouts/public.html"},
	"auth":   {"layouts/base.html"},
}

// PermitFunc reports whether p may perform act on res.
type PermitFunc func(p *model.Principal, res model.ResourceTag, act model.Action) bool

// Config holds renderer configuration.
type Config struct {
	TemplatesFS fs.FS
	Sessions    *scs.SessionManager
	IsDev       bool
	Permits     PermitFunc
	Principal   func(*http.Request) *model.Principal
	Settings    func() model.SiteSettings
}

// Renderer handles template rendering with caching.
type Renderer struct {
	cfg       Config
	mu        sync.RWMutex
	templates map[string]*template.Template
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		cfg:       cfg,
		markdown:  goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough)),
		sanitizer: bluemonday.UGCPolicy(),
	}
	if err := r.parseTemplates(); err != nil {
		return nil, err
	}
	return r, nil
}

// parseTemplates parses all page templates, each with its layouts and the partials.
func (r *Renderer) parseTemplates() error {
	partials, err := templateFiles(r.cfg.TemplatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	templates := make(map[string]*template.Template)
	for dir, layouts := range layoutSets {
		pages, err := templateFiles(r.cfg.TemplatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}
		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			files := append([]string{}, layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(r.cfg.TemplatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			templates[name] = tmpl
		}
	}

	r.mu.Lock()
	r.templates = templates
	r.mu.Unlock()
	return nil
}

// templateFiles returns all .html files in a directory.
func templateFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		// A missing directory has no templates
		return nil, nil
	}
	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// TemplateFuncs returns the functions available to every template.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	funcs := uikit.TemplateFuncs()
	funcs["markdown"] = r.Markdown
	funcs["richText"] = r.RichText
	funcs["year"] = func(t time.Time) int { return t.Year() }
	return funcs
}

// Markdown converts plain text or Markdown to sanitized HTML.
func (r *Renderer) Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes()))
}

// RichText sanitizes stored HTML for output.
func (r *Renderer) RichText(s string) template.HTML {
	return template.HTML(r.sanitizer.Sanitize(s))
}

// NavItem is one entry of the admin navigation.
type NavItem struct {
	Label    string
	Path     string
	Resource model.ResourceTag
	Active   bool
}

var adminNav = []NavItem{
	{Label: "Events", Path: "/admin/events", Resource: model.ResourceEvents},
	{Label: "Startups", Path: "/admin/startups", Resource: model.ResourceStartups},
	{Label: "Resources", Path: "/admin/resources", Resource: model.ResourceResources},
	{Label: "Team", Path: "/admin/team", Resource: model.ResourceTeam},
	{Label: "Partners", Path: "/admin/partners", Resource: model.ResourcePartners},
	{Label: "Pages", Path: "/admin/pages", Resource: model.ResourcePages},
	{Label: "Settings", Path: "/admin/settings", Resource: model.ResourceSettings},
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	CurrentPath string
	Principal   *model.Principal
	Settings    model.SiteSettings
	Nav         []NavItem

	permits PermitFunc
}

// Can reports whether the signed-in principal may perform action on resource.
func (d TemplateData) Can(resource, action string) bool {
	if d.permits == nil || d.Principal == nil {
		return false
	}
	return d.permits(d.Principal, model.ResourceTag(resource), model.Action(action))
}

// Render renders a template with the given data and a 200 status.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	if r.cfg.IsDev {
		if err := r.parseTemplates(); err != nil {
			return fmt.Errorf("reloading templates: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	r.fill(req, &data)

	// Render to buffer first to catch errors
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := w.Write(blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n")))
	return err
}

// Page renders name and logs failures as a 500.
func (r *Renderer) Page(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) {
	if err := r.RenderStatus(w, req, status, name, data); err != nil {
		slog.Error("failed to render template", "template", name, "error", err, "path", req.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (r *Renderer) fill(req *http.Request, data *TemplateData) {
	data.CurrentYear = time.Now().Year()
	data.CurrentPath = req.URL.Path
	data.permits = r.cfg.Permits
	if r.cfg.Settings != nil {
		data.Settings = r.cfg.Settings()
	}
	if data.Principal == nil && r.cfg.Principal != nil {
		data.Principal = r.cfg.Principal(req)
	}

	if data.Principal != nil {
		data.Nav = nil
		for _, item := range adminNav {
			if r.cfg.Permits != nil && !r.cfg.Permits(data.Principal, item.Resource, model.ActionView) {
				continue
			}
			item.Active = strings.HasPrefix(req.URL.Path, item.Path)
			data.Nav = append(data.Nav, item)
		}
	}

	// Get flash message from session
	if r.cfg.Sessions != nil {
		if flash := r.cfg.Sessions.PopString(req.Context(), "flash"); flash != "" {
			data.Flash = flash
			data.FlashType = r.cfg.Sessions.PopString(req.Context(), "flash_type")
			if data.FlashType == "" {
				data.FlashType = FlashInfo
			}
		}
	}
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.cfg.Sessions != nil {
		r.cfg.Sessions.Put(req.Context(), "flash", message)
		r.cfg.Sessions.Put(req.Context(), "flash_type", flashType)
	}
}
