// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers.
package testutil

import (
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/alumni-cms/internal/store"
)

// TestLogger returns a logger that only prints warnings and errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}

// TestDB creates a migrated SQLite database in a temp directory.
// The returned cleanup closes it.
func TestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "alumni-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	if err := store.Migrate(db); err != nil {
		_ = db.Close()
		t.Fatalf("Migrate: %v", err)
	}
	return db, func() { _ = db.Close() }
}

// TestStore returns a store seeded from the embedded fixtures.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	f, err := store.LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	return store.New(f)
}

// TestFixtures returns the embedded fixtures.
func TestFixtures(t *testing.T) *store.Fixtures {
	t.Helper()
	f, err := store.LoadFixtures("")
	if err != nil {
		t.Fatalf("LoadFixtures: %v", err)
	}
	return f
}
