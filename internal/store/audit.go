// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/olegiv/alumni-cms/internal/model"
)

// Queries runs the audit log statements.
type Queries struct {
	db *sql.DB
}

// NewQueries wraps db.
func NewQueries(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// InsertAuditEntry stores e and returns its row id.
func (q *Queries) InsertAuditEntry(ctx context.Context, e model.AuditEntry) (int64, error) {
	meta := "{}"
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return 0, fmt.Errorf("encoding metadata: %w", err)
		}
		meta = string(b)
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO audit_log (level, category, message, principal_id, ip_address, request_url, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Level, e.Category, e.Message, e.PrincipalID, e.IPAddress, e.RequestURL, meta, e.CreatedAt.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("inserting audit entry: %w", err)
	}
	return res.LastInsertId()
}

// ListAuditEntries returns the newest entries first.
func (q *Queries) ListAuditEntries(ctx context.Context, limit int) ([]model.AuditEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, level, category, message, principal_id, ip_address, request_url, metadata, created_at
		 FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.AuditEntry
	for rows.Next() {
		var (
			e       model.AuditEntry
			meta    string
			created int64
		)
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.PrincipalID,
			&e.IPAddress, &e.RequestURL, &meta, &created); err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		if meta != "" && meta != "{}" {
			_ = json.Unmarshal([]byte(meta), &e.Metadata)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountAuditEntries returns the number of stored entries.
func (q *Queries) CountAuditEntries(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audit_log`).Scan(&n)
	return n, err
}

// DeleteAuditEntriesBefore removes entries older than cutoff.
func (q *Queries) DeleteAuditEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM audit_log WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("deleting audit entries: %w", err)
	}
	return res.RowsAffected()
}
