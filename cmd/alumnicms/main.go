// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/olegiv/alumni-cms/internal/auth"
	"github.com/olegiv/alumni-cms/internal/config"
	"github.com/olegiv/alumni-cms/internal/demo"
	"github.com/olegiv/alumni-cms/internal/handler"
	"github.com/olegiv/alumni-cms/internal/imaging"
	"github.com/olegiv/alumni-cms/internal/logging"
	"github.com/olegiv/alumni-cms/internal/metrics"
	"github.com/olegiv/alumni-cms/internal/middleware"
	"github.com/olegiv/alumni-cms/internal/render"
	"github.com/olegiv/alumni-cms/internal/scheduler"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/session"
	"github.com/olegiv/alumni-cms/internal/store"
	"github.com/olegiv/alumni-cms/internal/uikit"
	"github.com/olegiv/alumni-cms/internal/version"
	"github.com/olegiv/alumni-cms/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

// demoResetInterval is the longest the seed content may go without a reset
// when a demo reset schedule is configured.
const demoResetInterval = 24 * time.Hour

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "alumnicms - Alumni organization website and admin\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SESSION_SECRET          Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_DB_PATH                 SQLite database path (default: ./data/alumni.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SERVER_PORT             Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_ENV                     Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_FIXTURES_PATH           Seed content YAML (default: embedded)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_SITE_URL                Public base URL for sitemap.xml (default: from request)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_REDIS_URL               Redis URL for session storage (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_DEMO_RESET_SCHEDULE     Cron schedule restoring the seed content (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_EVENT_ROLLOVER_SCHEDULE Cron schedule moving past events (default: @hourly)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ALUMNI_METRICS_ENABLED         Serve Prometheus metrics on /metrics (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/olegiv/alumni-cms\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.New(appVersion, appGitCommit, appBuildTime)
	if *showVersion {
		_, _ = fmt.Printf("alumnicms %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Warnings and errors are also written to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	fixtures, err := store.LoadFixtures(cfg.FixturesPath)
	if err != nil {
		return fmt.Errorf("loading fixtures: %w", err)
	}
	content := store.New(fixtures)
	slog.Info("seed content loaded", "records", content.Counts())

	creds, err := auth.NewCredentialStore(fixtures.Users)
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	roles := auth.DefaultRoleTable()

	var rec metrics.Recorder = metrics.Nop{}
	var collector *metrics.Collector
	registry := prometheus.NewRegistry()
	if cfg.MetricsEnabled {
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector = metrics.NewCollector(registry)
		rec = collector
		slog.Info("metrics enabled", "path", "/metrics")
	}

	services := service.New(content, service.WithObserver(rec))
	audit := service.NewAuditService(db)

	sessionManager, closeSessions, err := newSessionManager(cfg, db)
	if err != nil {
		return err
	}
	defer closeSessions()
	sessions := session.NewManager(sessionManager, creds)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS: templatesFS,
		Sessions:    sessionManager,
		IsDev:       cfg.IsDevelopment(),
		Permits:     roles.HasPermission,
		Principal:   middleware.GetPrincipal,
		Settings:    services.Settings.Get,
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	processor := imaging.NewProcessor(imaging.DefaultConfig(cfg.UploadsDir))
	uploads := handler.UploaderFor(func(dir string) uikit.Uploader { return processor.For(dir) })

	resetter := demo.NewResetter(content, cfg.UploadsDir, dataDir, rec)
	if cfg.DemoResetSchedule != "" {
		if _, err := resetter.ResetIfStale(demoResetInterval); err != nil {
			slog.Warn("startup demo reset failed", "error", err)
		}
	}

	sched := scheduler.New(logger)
	for _, job := range []scheduler.Job{
		scheduler.EventRolloverJob(services.Events, cfg.EventRolloverSchedule),
		scheduler.DemoResetJob(resetter, cfg.DemoResetSchedule),
		scheduler.AuditRetentionJob(audit, cfg.AuditRetention(), cfg.AuditPruneSchedule),
	} {
		if err := sched.Add(job); err != nil {
			return fmt.Errorf("scheduling %s: %w", job.Name, err)
		}
	}
	// Catch up on events that passed while the server was down
	if cfg.EventRolloverSchedule != "" {
		_ = sched.RunNow(scheduler.JobEventRollover)
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	// Public form submissions: 1 request per second per IP, burst of 5
	formLimiter := middleware.NewFormRateLimiter(1, 5)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr())
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	admin := handler.NewAdminHandler(renderer, services, roles, audit)
	routes := handler.Routes{
		Auth:  handler.NewAuthHandler(renderer, sessions, loginProtection, audit, rec),
		Admin: admin,
		Entities: []handler.CRUD{
			handler.NewEntityHandler(handler.EventEntity(uploads), services.Events, renderer, roles, audit),
			handler.NewEntityHandler(handler.StartupEntity(uploads), services.Startups, renderer, roles, audit),
			handler.NewEntityHandler(handler.ResourceEntity(), services.Resources, renderer, roles, audit),
			handler.NewEntityHandler(handler.TeamEntity(uploads), services.Team, renderer, roles, audit),
			handler.NewEntityHandler(handler.PartnerEntity(uploads), services.Partners, renderer, roles, audit),
			handler.NewEntityHandler(handler.PageEntity(), services.Pages, renderer, roles, audit),
		},
		Settings: handler.NewSettingsHandler(renderer, services.Settings, roles, audit, uploads),
		Frontend: handler.NewFrontendHandler(renderer, services, rec),
		Health:   handler.NewHealthHandler(db, content, cfg.UploadsDir, info.Version),
		SEO:      handler.NewSEOHandler(services.Pages, cfg.SiteURL, cfg.DemoResetSchedule != ""),
		Guard: &middleware.Guard{
			Roles:     roles,
			Audit:     audit,
			Metrics:   rec,
			Forbidden: http.HandlerFunc(admin.Forbidden),
		},
		CSRF:            middleware.CSRF(csrfConfig),
		LoginProtection: loginProtection,
		FormLimiter:     formLimiter,
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout
	r.Use(middleware.StripTrailingSlash)        // Redirect /path/ to /path (301)
	if collector != nil {
		r.Use(collector.Middleware)
	}

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.LoadPrincipal(sessions))

	routes.Register(r)

	if collector != nil {
		r.Handle("/metrics", metrics.Handler(registry))
	}

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	// Static assets: cache for 1 year (31536000 seconds)
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/dist/*", staticHandler)

	// Uploads: cache for 1 week (604800 seconds)
	uploadsHandler := middleware.StaticCache(604800)(http.StripPrefix(handler.UploadsURLPrefix+"/", http.FileServer(http.Dir(cfg.UploadsDir))))
	r.Handle(handler.UploadsURLPrefix+"/*", uploadsHandler)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for image uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// newSessionManager returns a Redis-backed session manager when configured,
// otherwise one backed by the SQLite sessions table.
func newSessionManager(cfg *config.Config, db *sql.DB) (*scs.SessionManager, func(), error) {
	if !cfg.UseRedisSessions() {
		slog.Info("session manager initialized", "backend", "sqlite")
		return session.New(db, cfg.IsDevelopment()), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	slog.Info("session manager initialized", "backend", "redis", "prefix", cfg.RedisPrefix)

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("error closing redis client", "error", err)
		}
	}
	return session.NewWithStore(session.NewRedisStore(client, cfg.RedisPrefix), cfg.IsDevelopment()), closeFn, nil
}
