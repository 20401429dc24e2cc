// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixDelete is the suffix for form-posted deletes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixReset is the suffix for reset routes.
	RouteSuffixReset = "/reset"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteParamSlug is the slug parameter pattern.
	RouteParamSlug = "/{slug}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteEvents is the events route.
	RouteEvents = "/events"
	// RouteStartups is the startups route.
	RouteStartups = "/startups"
	// RouteResources is the resources route.
	RouteResources = "/resources"
	// RouteTeam is the team route.
	RouteTeam = "/team"
	// RoutePartners is the partners admin route.
	RoutePartners = "/partners"
	// RoutePages is the pages admin route.
	RoutePages = "/pages"
	// RouteSettings is the settings admin route.
	RouteSettings = "/settings"

	// RouteEventsUpcoming lists upcoming events.
	RouteEventsUpcoming = RouteEvents + "/upcoming"
	// RouteEventsPast lists past events.
	RouteEventsPast = RouteEvents + "/past"
	// RoutePageSlug is the public page route pattern.
	RoutePageSlug = "/page" + RouteParamSlug
	// RouteContact accepts contact form submissions.
	RouteContact = "/contact"
	// RouteNewsletter accepts newsletter sign-ups.
	RouteNewsletter = "/newsletter"
	// RouteHealth is the health check route.
	RouteHealth = "/health"
	// RouteSitemap serves the XML sitemap.
	RouteSitemap = "/sitemap.xml"
	// RouteRobots serves robots.txt.
	RouteRobots = "/robots.txt"
)

const (
	redirectAdmin         = "/admin"
	redirectAdminLogin    = redirectAdmin + RouteLogin
	redirectAdminSettings = redirectAdmin + RouteSettings
)

// Template names.
const (
	tmplLogin       = "auth/login"
	tmplDashboard   = "admin/dashboard"
	tmplList        = "admin/list"
	tmplForm        = "admin/form"
	tmplForbidden   = "admin/forbidden"
	tmplHome        = "public/home"
	tmplEvents      = "public/events"
	tmplStartups    = "public/startups"
	tmplResources   = "public/resources"
	tmplTeam        = "public/team"
	tmplPage        = "public/page"
	tmplNotFound    = "public/not_found"
	tmplSubmissions = "public/thanks"
)

// Submission kinds reported to metrics.
const (
	SubmissionContact    = "contact"
	SubmissionNewsletter = "newsletter"
)

// Utility constants used by main.go.
const (
	// UploadsURLPrefix is where processed uploads are served.
	UploadsURLPrefix = "/uploads"
	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
)
