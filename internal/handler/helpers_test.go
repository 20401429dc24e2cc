// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/alumni-cms/internal/auth"
	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/session"
	"github.com/olegiv/alumni-cms/internal/store"
	"github.com/olegiv/alumni-cms/internal/testutil"
)

// Demo credentials from the embedded fixtures.
const (
	adminEmail     = "admin@whartonaistudio.org"
	adminPassword  = "admin123"
	editorEmail    = "editor@whartonaistudio.org"
	editorPassword = "editor123"
	viewerEmail    = "viewer@whartonaistudio.org"
	viewerPassword = "viewer123"
)

// testTemplates is a minimal template set exposing the data handlers pass.
var testTemplates = fstest.MapFS{
	"layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>` +
		`{{with .Flash}}<p class="flash {{$.FlashType}}">{{.}}</p>{{end}}{{template "body" .}}{{end}}`)},
	"layouts/admin.html": {Data: []byte(`{{define "body"}}<nav>{{range .Nav}}<a href="{{.Path}}">{{.Label}}</a>{{end}}</nav>` +
		`{{template "content" .}}{{end}}`)},
	"layouts/public.html": {Data: []byte(`{{define "body"}}<header>{{.Settings.SiteName}}</header>{{template "content" .}}{{end}}`)},

	"auth/login.html": {Data: []byte(`{{define "body"}}<form method="post" action="/admin/login">` +
		`<input name="next" value="{{.Data.Next}}"></form>{{end}}`)},

	"admin/dashboard.html": {Data: []byte(`{{define "content"}}<h1>{{.Data.Greeting}}</h1>` +
		`{{range .Data.Stats}}<div class="stat">{{.Label}}: {{.Count}}</div>{{end}}` +
		`{{range .Data.Upcoming}}<div class="upcoming">{{.Title}}</div>{{end}}` +
		`{{range .Data.RecentAudit}}<div class="audit">{{.Message}}</div>{{end}}{{end}}`)},
	"admin/list.html": {Data: []byte(`{{define "content"}}{{with .Data}}<h1>{{.Title}}</h1>` +
		`{{if .CanCreate}}<a class="add" href="{{.AddURL}}">{{.AddLabel}}</a>{{end}}` +
		`{{if .Empty}}<p class="empty">{{.EmptyText}}</p>{{end}}` +
		`{{range .Rows}}<tr>{{range .Cells}}<td>{{.}}</td>{{end}}` +
		`{{if $.Data.CanEdit}}<a class="edit" href="{{.EditURL}}">Edit</a>{{end}}` +
		`{{if $.Data.CanDelete}}<form class="delete" action="{{.DeleteURL}}"></form>{{end}}</tr>{{end}}` +
		`<p class="page">Page {{.Pagination.CurrentPage}} of {{.Pagination.TotalPages}}</p>{{end}}{{end}}`)},
	"admin/form.html": {Data: []byte(`{{define "content"}}{{with .Data}}<h1>{{.Form.Title}}</h1>` +
		`<form action="{{.Form.Action}}">{{range .Form.Fields}}{{renderField .}}{{end}}</form>` +
		`{{range $name, $msg := .Form.Errors}}<p class="error">{{$name}}: {{$msg}}</p>{{end}}` +
		`{{if .DeleteURL}}<form class="delete" action="{{.DeleteURL}}"></form>{{end}}` +
		`{{if .ResetURL}}<form class="reset" action="{{.ResetURL}}"></form>{{end}}` +
		`{{if .ReadOnly}}<p class="readonly">Read only</p>{{end}}{{end}}{{end}}`)},
	"admin/forbidden.html": {Data: []byte(`{{define "content"}}<h1>Access denied</h1>{{end}}`)},

	"public/home.html": {Data: []byte(`{{define "content"}}{{range .Data.Upcoming}}<div class="event">{{.Title}}</div>{{end}}` +
		`{{range .Data.Startups}}<div class="startup">{{.Name}}</div>{{end}}` +
		`{{range .Data.Partners}}<div class="partner">{{.Name}}</div>{{end}}{{end}}`)},
	"public/events.html": {Data: []byte(`{{define "content"}}<h1>{{.Title}}</h1>` +
		`{{range .Data.Upcoming}}<div class="upcoming">{{.Title}}</div>{{end}}` +
		`{{range .Data.Past}}<div class="past">{{.Title}}</div>{{end}}{{end}}`)},
	"public/startups.html":  {Data: []byte(`{{define "content"}}{{range .Data}}<div class="startup">{{.Name}}</div>{{end}}{{end}}`)},
	"public/resources.html": {Data: []byte(`{{define "content"}}{{range .Data.Resources}}<div class="resource {{.Category}}">{{.Title}}</div>{{end}}{{end}}`)},
	"public/team.html":      {Data: []byte(`{{define "content"}}{{range .Data}}<div class="member">{{.Name}}</div>{{end}}{{end}}`)},
	"public/page.html":      {Data: []byte(`{{define "content"}}<h1>{{.Data.Title}}</h1>{{richText .Data.Content}}{{end}}`)},
	"public/not_found.html": {Data: []byte(`{{define "content"}}<h1>Not found</h1>{{end}}`)},
	"public/thanks.html":    {Data: []byte(`{{define "content"}}<p class="thanks">{{.Data.Message}}</p>{{end}}`)},
}

// testApp is the full router over a fixture store, driven through a real
// HTTP server so session cookies round-trip.
type testApp struct {
	t        *testing.T
	server   *httptest.Server
	client   *http.Client
	store    *store.Store
	services *service.Services
	audit    *service.AuditService
	metrics  *countingRecorder
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	st := testutil.TestStore(t)
	services := service.New(st)
	audit := service.NewAuditService(db)
	roles := auth.DefaultRoleTable()
	rec := &countingRecorder{}

	creds, err := auth.NewCredentialStore(testutil.TestFixtures(t).Users)
	if err != nil {
		t.Fatalf("NewCredentialStore: %v", err)
	}

	sm := scs.New()
	sessions := session.NewManager(sm, creds)

	renderer, err := render.New(render.Config{
		TemplatesFS: testTemplates,
		Sessions:    sm,
		Permits:     roles.HasPermission,
		Principal:   middleware.GetPrincipal,
		Settings:    services.Settings.Get,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{IPRateLimit: 100, IPBurst: 100})
	t.Cleanup(lp.Stop)

	admin := NewAdminHandler(renderer, services, roles, audit)
	routes := Routes{
		Auth:  NewAuthHandler(renderer, sessions, lp, audit, rec),
		Admin: admin,
		Entities: []CRUD{
			NewEntityHandler(EventEntity(nil), services.Events, renderer, roles, audit),
			NewEntityHandler(StartupEntity(nil), services.Startups, renderer, roles, audit),
			NewEntityHandler(ResourceEntity(), services.Resources, renderer, roles, audit),
			NewEntityHandler(TeamEntity(nil), services.Team, renderer, roles, audit),
			NewEntityHandler(PartnerEntity(nil), services.Partners, renderer, roles, audit),
			NewEntityHandler(PageEntity(), services.Pages, renderer, roles, audit),
		},
		Settings: NewSettingsHandler(renderer, services.Settings, roles, audit, nil),
		Frontend: NewFrontendHandler(renderer, services, rec),
		Health:   NewHealthHandler(db, st, t.TempDir(), "test"),
		SEO:      NewSEOHandler(services.Pages, "", false),
		Guard: &middleware.Guard{
			Roles:     roles,
			Audit:     audit,
			Metrics:   rec,
			Forbidden: http.HandlerFunc(admin.Forbidden),
		},
		LoginProtection: lp,
	}

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LoadPrincipal(sessions))
	routes.Register(r)

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}

	return &testApp{
		t:      t,
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		store:    st,
		services: services,
		audit:    audit,
		metrics:  rec,
	}
}

// do sends a request and returns the response with its body read.
func (a *testApp) do(req *http.Request) (*http.Response, string) {
	a.t.Helper()
	resp, err := a.client.Do(req)
	if err != nil {
		a.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		a.t.Fatalf("reading body: %v", err)
	}
	return resp, string(body)
}

func (a *testApp) newRequest(method, path string, body io.Reader) *http.Request {
	a.t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, a.server.URL+path, body)
	if err != nil {
		a.t.Fatalf("NewRequest: %v", err)
	}
	return req
}

func (a *testApp) get(path string) (*http.Response, string) {
	a.t.Helper()
	return a.do(a.newRequest(http.MethodGet, path, nil))
}

func (a *testApp) postForm(path string, form url.Values) (*http.Response, string) {
	a.t.Helper()
	req := a.newRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return a.do(req)
}

// follow reads the page a redirect points to, consuming any flash message.
func (a *testApp) follow(resp *http.Response) (*http.Response, string) {
	a.t.Helper()
	loc := resp.Header.Get("Location")
	if loc == "" {
		a.t.Fatalf("expected a redirect, got %d", resp.StatusCode)
	}
	return a.get(loc)
}

// signIn signs in through the login form and fails the test on rejection.
func (a *testApp) signIn(email, password string) {
	a.t.Helper()
	resp, _ := a.postForm("/admin/login", url.Values{"email": {email}, "password": {password}})
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/admin" {
		a.t.Fatalf("sign in as %s: status %d, location %q", email, resp.StatusCode, resp.Header.Get("Location"))
	}
}

// countingRecorder counts every metrics call.
type countingRecorder struct {
	mu          sync.Mutex
	mutations   int
	signIns     map[string]int
	denials     int
	submissions map[string]int
	resets      int
}

func (c *countingRecorder) RecordMutation(model.ResourceTag, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutations++
}

func (c *countingRecorder) RecordSignIn(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.signIns == nil {
		c.signIns = map[string]int{}
	}
	c.signIns[outcome]++
}

func (c *countingRecorder) RecordPermissionDenied(model.ResourceTag, model.Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.denials++
}

func (c *countingRecorder) RecordSubmission(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submissions == nil {
		c.submissions = map[string]int{}
	}
	c.submissions[kind]++
}

func (c *countingRecorder) RecordDemoReset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resets++
}

func (c *countingRecorder) signInCount(outcome string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.signIns[outcome]
}

func (c *countingRecorder) submissionCount(kind string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submissions[kind]
}

func (c *countingRecorder) denialCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.denials
}
