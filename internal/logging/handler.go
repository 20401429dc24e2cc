// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that copies warnings and errors
// into the audit log.
package logging

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
)

// AuditLogHandler is a slog.Handler that wraps another handler and also writes
// WARN and ERROR level logs to the audit log.
type AuditLogHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level // Minimum level to forward to the audit log (default: WARN)
	attrs   []slog.Attr
	group   string
}

// NewAuditLogHandler creates a new AuditLogHandler that wraps the given handler.
// Logs at WARN level and above will be written to both the wrapped handler and the audit log.
func NewAuditLogHandler(inner slog.Handler, db *sql.DB) *AuditLogHandler {
	return NewAuditLogHandlerWithLevel(inner, db, slog.LevelWarn)
}

// NewAuditLogHandlerWithLevel creates a new AuditLogHandler with a custom minimum level.
func NewAuditLogHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *AuditLogHandler {
	return &AuditLogHandler{
		inner:   inner,
		queries: store.NewQueries(db),
		level:   level,
	}
}

// Enabled implements slog.Handler.
func (h *AuditLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *AuditLogHandler) Handle(ctx context.Context, r slog.Record) error {
	// Always forward to the inner handler first
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level >= h.level {
		h.writeToAuditLog(r)
	}

	return nil
}

// WithAttrs implements slog.Handler.
func (h *AuditLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a))
	}
	return c
}

// WithGroup implements slog.Handler.
func (h *AuditLogHandler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	if name != "" {
		c.group = h.qualifyKey(name)
	}
	return c
}

func (h *AuditLogHandler) clone() *AuditLogHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

func (h *AuditLogHandler) qualifyKey(key string) string {
	if h.group == "" {
		return key
	}
	return h.group + "." + key
}

func (h *AuditLogHandler) qualify(a slog.Attr) slog.Attr {
	return slog.Attr{Key: h.qualifyKey(a.Key), Value: a.Value}
}

// writeToAuditLog stores the record. A background context is used so that
// the entry is written even when the request context is cancelled.
func (h *AuditLogHandler) writeToAuditLog(r slog.Record) {
	entry := model.AuditEntry{
		Level:     levelName(r.Level),
		Message:   r.Message,
		Metadata:  map[string]any{},
		CreatedAt: r.Time,
	}

	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "category":
			entry.Category = a.Value.String()
		case "principal_id":
			entry.PrincipalID = a.Value.String()
		case "ip", "ip_address":
			entry.IPAddress = a.Value.String()
		case "url", "path":
			entry.RequestURL = a.Value.String()
			entry.Metadata[a.Key] = a.Value.String()
		default:
			entry.Metadata[a.Key] = a.Value.Resolve().Any()
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		return collect(h.qualify(a))
	})

	if entry.Category == "" {
		entry.Category = inferCategory(r.Message)
	}
	for k, v := range entry.Metadata {
		if err, ok := v.(error); ok {
			entry.Metadata[k] = err.Error()
		}
	}

	_, _ = h.queries.InsertAuditEntry(context.Background(), entry)
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.AuditLevelError
	case level >= slog.LevelWarn:
		return model.AuditLevelWarning
	default:
		return model.AuditLevelInfo
	}
}

// inferCategory guesses a category from the message when none was given.
func inferCategory(msg string) string {
	msg = strings.ToLower(msg)
	switch {
	case containsAny(msg, "auth", "login", "logout", "sign-in", "sign in", "session"):
		return model.AuditCategoryAuth
	case containsAny(msg, "permission", "denied", "csrf", "forbidden"):
		return model.AuditCategorySecurity
	case containsAny(msg, "event", "startup", "resource", "team", "partner", "page", "setting", "content"):
		return model.AuditCategoryContent
	default:
		return model.AuditCategorySystem
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
