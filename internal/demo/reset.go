// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package demo restores the site to its seed content for public demo deployments.
package demo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/olegiv/alumni-cms/internal/metrics"
)

// timestampFile is the name of the file storing the last reset time.
const timestampFile = ".last_reset"

// Reseeder restores seed content. *store.Store satisfies it.
type Reseeder interface {
	Reset()
}

// Resetter wipes mutations and uploads back to the seed state.
type Resetter struct {
	content    Reseeder
	uploadsDir string
	dataDir    string
	metrics    metrics.Recorder
	now        func() time.Time
}

// NewResetter creates a Resetter. The reset timestamp is kept in dataDir.
func NewResetter(content Reseeder, uploadsDir, dataDir string, rec metrics.Recorder) *Resetter {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Resetter{
		content:    content,
		uploadsDir: uploadsDir,
		dataDir:    dataDir,
		metrics:    rec,
		now:        time.Now,
	}
}

// Reset restores the seed content, clears uploaded files and writes a
// fresh reset timestamp.
func (r *Resetter) Reset() error {
	r.content.Reset()

	// Uploaded images are only referenced by mutated records, which are gone now.
	if err := clearDir(r.uploadsDir); err != nil {
		return fmt.Errorf("clearing uploads: %w", err)
	}

	if err := r.writeTimestamp(); err != nil {
		return fmt.Errorf("writing reset timestamp: %w", err)
	}

	r.metrics.RecordDemoReset()
	slog.Info("demo reset complete", "uploads", r.uploadsDir)
	return nil
}

// ResetIfStale performs a reset when the last one is older than interval or
// was never recorded. It reports whether a reset ran.
func (r *Resetter) ResetIfStale(interval time.Duration) (bool, error) {
	last, ok, err := r.LastReset()
	if err != nil {
		return false, err
	}
	if ok && r.now().Sub(last) < interval {
		slog.Info("demo reset not needed",
			"last_reset", last.UTC().Format(time.RFC3339),
			"next_reset", last.Add(interval).UTC().Format(time.RFC3339),
		)
		return false, nil
	}

	slog.Info("demo reset overdue, restoring seed content")
	return true, r.Reset()
}

// LastReset returns the recorded reset time. ok is false when no valid
// timestamp has been written yet.
func (r *Resetter) LastReset() (last time.Time, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(r.dataDir, timestampFile))
	if os.IsNotExist(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading reset timestamp: %w", err)
	}

	at, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil {
		return time.Time{}, false, nil
	}
	return at, true, nil
}

// clearDir removes all files and subdirectories inside dir,
// but keeps the directory itself.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("removing %s: %w", path, err)
		}
	}
	return nil
}

func (r *Resetter) writeTimestamp() error {
	if err := os.MkdirAll(r.dataDir, 0o755); err != nil {
		return err
	}
	data := []byte(r.now().UTC().Format(time.RFC3339))
	return os.WriteFile(filepath.Join(r.dataDir, timestampFile), data, 0o600)
}
