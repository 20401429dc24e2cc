// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Audit levels.
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)

// Audit categories.
const (
	AuditCategoryAuth     = "auth"
	AuditCategoryContent  = "content"
	AuditCategorySecurity = "security"
	AuditCategorySystem   = "system"
)

// AuditEntry is one row of the audit log.
type AuditEntry struct {
	ID          int64          `json:"id"`
	Level       string         `json:"level"`
	Category    string         `json:"category"`
	Message     string         `json:"message"`
	PrincipalID string         `json:"principal_id,omitempty"`
	IPAddress   string         `json:"ip_address,omitempty"`
	RequestURL  string         `json:"request_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}
