// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/alumni-cms/internal/model"
)

// Sign-in outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeBlocked = "blocked"
)

// Recorder is the metrics surface used by services and handlers.
type Recorder interface {
	RecordMutation(resource model.ResourceTag, op string)
	RecordSignIn(outcome string)
	RecordPermissionDenied(resource model.ResourceTag, action model.Action)
	RecordSubmission(kind string)
	RecordDemoReset()
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordMutation(model.ResourceTag, string)               {}
func (Nop) RecordSignIn(string)                                    {}
func (Nop) RecordPermissionDenied(model.ResourceTag, model.Action) {}
func (Nop) RecordSubmission(string)                                {}
func (Nop) RecordDemoReset()                                       {}

// Collector records metrics into a Prometheus registry.
type Collector struct {
	mutations   *prometheus.CounterVec
	signIns     *prometheus.CounterVec
	denials     *prometheus.CounterVec
	submissions *prometheus.CounterVec
	demoResets  prometheus.Counter
	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_content_mutations_total",
			Help: "Content mutations by resource and operation.",
		}, []string{"resource", "op"}),
		signIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_sign_ins_total",
			Help: "Admin sign-in attempts by outcome.",
		}, []string{"outcome"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_permission_denied_total",
			Help: "Requests rejected by the permission check.",
		}, []string{"resource", "action"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_public_submissions_total",
			Help: "Accepted public form submissions by kind.",
		}, []string{"kind"}),
		demoResets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alumni_demo_resets_total",
			Help: "Content resets back to the seed data.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "alumni_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "alumni_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.mutations,
		c.signIns,
		c.denials,
		c.submissions,
		c.demoResets,
		c.requests,
		c.latency,
	)

	return c
}

// RecordMutation counts a create, update, delete or reset.
func (c *Collector) RecordMutation(resource model.ResourceTag, op string) {
	c.mutations.WithLabelValues(string(resource), op).Inc()
}

// RecordSignIn counts a sign-in attempt.
func (c *Collector) RecordSignIn(outcome string) {
	c.signIns.WithLabelValues(outcome).Inc()
}

// RecordPermissionDenied counts a rejected request.
func (c *Collector) RecordPermissionDenied(resource model.ResourceTag, action model.Action) {
	c.denials.WithLabelValues(string(resource), string(action)).Inc()
}

// RecordSubmission counts a contact or newsletter submission.
func (c *Collector) RecordSubmission(kind string) {
	c.submissions.WithLabelValues(kind).Inc()
}

// RecordDemoReset counts a content reset.
func (c *Collector) RecordDemoReset() {
	c.demoResets.Inc()
}

// Middleware records request counts and latency labelled by chi route pattern.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		c.latency.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the HTTP handler for Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
