// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/olegiv/alumni-cms/internal/scheduler"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"ALUMNI_DB_PATH" envDefault:"./data/alumni.db"`
	SessionSecret string `env:"ALUMNI_SESSION_SECRET,required"`
	ServerHost    string `env:"ALUMNI_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"ALUMNI_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"ALUMNI_ENV" envDefault:"development"`
	LogLevel      string `env:"ALUMNI_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"ALUMNI_UPLOADS_DIR" envDefault:"./uploads"`
	FixturesPath  string `env:"ALUMNI_FIXTURES_PATH"`

	// Public base URL for sitemap.xml and robots.txt; derived from the request when empty.
	SiteURL string `env:"ALUMNI_SITE_URL"`

	// Optional Redis session storage; SQLite is used when RedisURL is empty.
	RedisURL    string `env:"ALUMNI_REDIS_URL"`
	RedisPrefix string `env:"ALUMNI_REDIS_PREFIX" envDefault:"alumni:"`

	// Scheduled jobs, in cron syntax. Empty disables the job.
	DemoResetSchedule     string `env:"ALUMNI_DEMO_RESET_SCHEDULE"`
	EventRolloverSchedule string `env:"ALUMNI_EVENT_ROLLOVER_SCHEDULE" envDefault:"@hourly"`
	AuditPruneSchedule    string `env:"ALUMNI_AUDIT_PRUNE_SCHEDULE" envDefault:"@daily"`
	AuditRetentionDays    int    `env:"ALUMNI_AUDIT_RETENTION_DAYS" envDefault:"90"`

	MetricsEnabled bool `env:"ALUMNI_METRICS_ENABLED" envDefault:"false"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions returns true if Redis session storage is configured.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// AuditRetention returns how long audit entries are kept, or zero to keep them forever.
func (c Config) AuditRetention() time.Duration {
	if c.AuditRetentionDays <= 0 {
		return 0
	}
	return time.Duration(c.AuditRetentionDays) * 24 * time.Hour
}

// SlogLevel maps LogLevel to a slog level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("ALUMNI_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, errors.New("ALUMNI_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("ALUMNI_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if err := validateSchedules(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validateSchedules(cfg *Config) error {
	for name, spec := range map[string]string{
		"ALUMNI_DEMO_RESET_SCHEDULE":     cfg.DemoResetSchedule,
		"ALUMNI_EVENT_ROLLOVER_SCHEDULE": cfg.EventRolloverSchedule,
		"ALUMNI_AUDIT_PRUNE_SCHEDULE":    cfg.AuditPruneSchedule,
	} {
		if err := scheduler.ValidateSchedule(spec); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
