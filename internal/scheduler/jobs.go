// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job names.
const (
	JobEventRollover  = "event-rollover"
	JobDemoReset      = "demo-reset"
	JobAuditRetention = "audit-retention"
)

// EventArchiver flags past-dated upcoming events as past.
type EventArchiver interface {
	ArchivePast(now time.Time) int
}

// ContentResetter restores seed content.
type ContentResetter interface {
	Reset() error
}

// AuditPruner deletes audit entries older than a given age.
type AuditPruner interface {
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// EventRolloverJob moves events whose date has passed from upcoming to past.
func EventRolloverJob(events EventArchiver, schedule string) Job {
	return Job{
		Name:        JobEventRollover,
		Description: "Move past-dated upcoming events to past",
		Schedule:    schedule,
		Run: func(context.Context) error {
			if n := events.ArchivePast(time.Now()); n > 0 {
				slog.Info("archived past events", "count", n)
			}
			return nil
		},
	}
}

// DemoResetJob restores the seed content.
func DemoResetJob(r ContentResetter, schedule string) Job {
	return Job{
		Name:        JobDemoReset,
		Description: "Restore the seed content and clear uploads",
		Schedule:    schedule,
		Run: func(context.Context) error {
			return r.Reset()
		},
	}
}

// AuditRetentionJob deletes audit entries older than retention. A zero
// retention keeps entries forever and disables the job.
func AuditRetentionJob(audit AuditPruner, retention time.Duration, schedule string) Job {
	if retention <= 0 {
		schedule = ""
	}
	return Job{
		Name:        JobAuditRetention,
		Description: "Delete expired audit log entries",
		Schedule:    schedule,
		Run: func(ctx context.Context) error {
			n, err := audit.DeleteOlderThan(ctx, retention)
			if err != nil {
				return err
			}
			if n > 0 {
				slog.Info("pruned audit log", "deleted", n, "retention", retention)
			}
			return nil
		},
	}
}
