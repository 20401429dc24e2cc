// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/model"
)

// CRUD is the screen set of one record kind. *EntityHandler satisfies it.
type CRUD interface {
	Resource() model.ResourceTag
	BasePath() string
	List(w http.ResponseWriter, r *http.Request)
	New(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

// Routes collects the handlers mounted by Register.
type Routes struct {
	Auth     *AuthHandler
	Admin    *AdminHandler
	Entities []CRUD
	Settings *SettingsHandler
	Frontend *FrontendHandler
	Health   *HealthHandler
	SEO      *SEOHandler
	Guard    *middleware.Guard

	// Optional middleware.
	CSRF            func(http.Handler) http.Handler
	LoginProtection *middleware.LoginProtection
	FormLimiter     *middleware.FormRateLimiter
}

// Register mounts the public site, the health checks and the admin console on r.
func (rt Routes) Register(r chi.Router) {
	if rt.Health != nil {
		r.Get(RouteHealth, rt.Health.Health)
		r.Get(RouteHealth+"/live", rt.Health.Liveness)
		r.Get(RouteHealth+"/ready", rt.Health.Readiness)
	}

	if rt.SEO != nil {
		r.Get(RouteSitemap, rt.SEO.Sitemap)
		r.Get(RouteRobots, rt.SEO.Robots)
	}

	if rt.Frontend != nil {
		r.Group(func(r chi.Router) {
			rt.useCSRF(r)
			registerFrontendRoutes(r, rt.Frontend, rt.FormLimiter)
		})
		r.NotFound(rt.Frontend.NotFound)
	}

	r.Route(redirectAdmin, func(r chi.Router) {
		rt.useCSRF(r)

		if rt.Auth != nil {
			r.Get(RouteLogin, rt.Auth.LoginForm)
			if rt.LoginProtection != nil {
				r.With(rt.LoginProtection.Middleware()).Post(RouteLogin, rt.Auth.Login)
			} else {
				r.Post(RouteLogin, rt.Auth.Login)
			}
			r.With(middleware.RequireAuth).Post(RouteLogout, rt.Auth.Logout)
		}

		if rt.Admin != nil {
			r.With(middleware.RequireAuth).Get(RouteRoot, rt.Admin.Dashboard)
		}

		for _, h := range rt.Entities {
			registerCRUD(r, rt.Guard, h)
		}

		if rt.Settings != nil {
			view := rt.Guard.Require(model.ResourceSettings, model.ActionView)
			edit := rt.Guard.Require(model.ResourceSettings, model.ActionEdit)
			r.With(view).Get(RouteSettings, rt.Settings.Show)
			r.With(edit).Post(RouteSettings, rt.Settings.Update)
			r.With(edit).Post(RouteSettings+RouteSuffixReset, rt.Settings.Reset)
		}
	})
}

func (rt Routes) useCSRF(r chi.Router) {
	if rt.CSRF != nil {
		r.Use(rt.CSRF)
	}
}

// registerCRUD registers the CRUD routes of one record kind, each guarded by
// the permission its action needs.
// Routes: GET /, GET /new, POST /, GET /{id}, POST /{id}, POST /{id}/delete, DELETE /{id}
func registerCRUD(r chi.Router, g *middleware.Guard, h CRUD) {
	res := h.Resource()
	base := h.BasePath()[len(redirectAdmin):]
	baseID := base + RouteParamID

	view := g.Require(res, model.ActionView)
	create := g.Require(res, model.ActionCreate)
	edit := g.Require(res, model.ActionEdit)
	del := g.Require(res, model.ActionDelete)

	r.With(view).Get(base, h.List)
	r.With(create).Get(base+RouteSuffixNew, h.New)
	r.With(create).Post(base, h.Create)
	r.With(view).Get(baseID, h.Edit)
	r.With(edit).Post(baseID, h.Update) // HTML forms can't send PUT
	r.With(edit).Put(baseID, h.Update)
	r.With(del).Post(baseID+RouteSuffixDelete, h.Delete)
	r.With(del).Delete(baseID, h.Delete)
}

// registerFrontendRoutes registers the public routes on the given router.
func registerFrontendRoutes(r chi.Router, h *FrontendHandler, limiter *middleware.FormRateLimiter) {
	r.Get(RouteRoot, h.Home)
	r.Get(RouteEvents, h.Events)
	r.Get(RouteEventsUpcoming, h.UpcomingEvents)
	r.Get(RouteEventsPast, h.PastEvents)
	r.Get(RouteStartups, h.Startups)
	r.Get(RouteResources, h.Resources)
	r.Get(RouteTeam, h.Team)
	r.Get(RoutePageSlug, h.Page)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}
		r.Post(RouteContact, h.Contact)
		r.Post(RouteNewsletter, h.Newsletter)
	})
}
