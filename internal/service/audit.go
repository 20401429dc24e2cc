// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/store"
)

// AuditService records security and content events in the audit log.
type AuditService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewAuditService creates an AuditService backed by db.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{queries: store.NewQueries(db), now: time.Now}
}

// LogEvent stores an audit entry.
func (s *AuditService) LogEvent(ctx context.Context, level, category, message, principalID, ipAddress string, metadata map[string]any) error {
	_, err := s.queries.InsertAuditEntry(ctx, model.AuditEntry{
		Level:       level,
		Category:    category,
		Message:     message,
		PrincipalID: principalID,
		IPAddress:   ipAddress,
		Metadata:    metadata,
		CreatedAt:   s.now(),
	})
	if err != nil {
		slog.Error("failed to write audit entry", "error", err, "category", category)
		return err
	}
	return nil
}

// LogAuthEvent records a sign-in or sign-out event.
func (s *AuditService) LogAuthEvent(ctx context.Context, level, message, principalID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, model.AuditCategoryAuth, message, principalID, ipAddress, metadata)
}

// LogContentEvent records a content mutation.
func (s *AuditService) LogContentEvent(ctx context.Context, message, principalID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.AuditLevelInfo, model.AuditCategoryContent, message, principalID, ipAddress, metadata)
}

// LogSecurityEvent records a denied or suspicious request.
func (s *AuditService) LogSecurityEvent(ctx context.Context, message, principalID, ipAddress string, metadata map[string]any) error {
	return s.LogEvent(ctx, model.AuditLevelWarning, model.AuditCategorySecurity, message, principalID, ipAddress, metadata)
}

// Recent returns the newest entries first.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	return s.queries.ListAuditEntries(ctx, limit)
}

// DeleteOlderThan removes entries older than age and returns how many.
func (s *AuditService) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	return s.queries.DeleteAuditEntriesBefore(ctx, s.now().Add(-age))
}
