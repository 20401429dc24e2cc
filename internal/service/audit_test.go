// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/testutil"
)

func TestAuditService(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewAuditService(db)
	ctx := context.Background()

	require.NoError(t, svc.LogAuthEvent(ctx, model.AuditLevelInfo, "signed in", "1", "127.0.0.1", map[string]any{"browser": "Firefox"}))
	require.NoError(t, svc.LogContentEvent(ctx, "page created", "1", "127.0.0.1", map[string]any{"slug": "join-us"}))
	require.NoError(t, svc.LogSecurityEvent(ctx, "permission denied", "3", "127.0.0.1", nil))

	entries, err := svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.AuditCategorySecurity, entries[0].Category)
	assert.Equal(t, model.AuditLevelWarning, entries[0].Level)
	assert.Equal(t, "page created", entries[1].Message)

	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	n, err := svc.DeleteOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
