// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/olegiv/alumni-cms/internal/model"
	"github.com/olegiv/alumni-cms/internal/service"
	"github.com/olegiv/alumni-cms/internal/store"
	"github.com/olegiv/alumni-cms/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func noop(context.Context) error { return nil }

func TestNew(t *testing.T) {
	logger := testutil.TestLogger()

	s := New(logger)
	require.NotNil(t, s)
	assert.NotNil(t, s.cron)
	assert.Same(t, logger, s.logger)
	assert.Empty(t, s.Jobs())
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testutil.TestLogger())
	require.NoError(t, s.Add(Job{Name: "tick", Schedule: "@hourly", Run: noop}))

	s.Start()
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.False(t, jobs[0].NextRun.IsZero())
	assert.True(t, jobs[0].LastRun.IsZero())

	s.Stop()
}

func TestScheduler_Add(t *testing.T) {
	s := New(testutil.TestLogger())

	t.Run("empty schedule disables the job", func(t *testing.T) {
		require.NoError(t, s.Add(Job{Name: "off", Run: noop}))
		assert.Empty(t, s.Jobs())
	})

	t.Run("invalid schedule", func(t *testing.T) {
		assert.Error(t, s.Add(Job{Name: "bad", Schedule: "sometimes", Run: noop}))
	})

	t.Run("missing run function", func(t *testing.T) {
		assert.Error(t, s.Add(Job{Name: "empty", Schedule: "@daily"}))
	})

	t.Run("duplicate name", func(t *testing.T) {
		require.NoError(t, s.Add(Job{Name: "dup", Schedule: "@daily", Run: noop}))
		assert.Error(t, s.Add(Job{Name: "dup", Schedule: "@hourly", Run: noop}))
	})

	t.Run("jobs are sorted by name", func(t *testing.T) {
		require.NoError(t, s.Add(Job{Name: "alpha", Schedule: "0 3 * * *", Run: noop}))
		jobs := s.Jobs()
		require.Len(t, jobs, 2)
		assert.Equal(t, "alpha", jobs[0].Name)
		assert.Equal(t, "0 3 * * *", jobs[0].Schedule)
	})
}

func TestScheduler_RunNow(t *testing.T) {
	s := New(testutil.TestLogger())

	calls := 0
	failing := errors.New("boom")
	require.NoError(t, s.Add(Job{
		Name:     "flaky",
		Schedule: "@daily",
		Run: func(ctx context.Context) error {
			calls++
			if _, ok := ctx.Deadline(); !ok {
				t.Error("job context has no deadline")
			}
			if calls == 1 {
				return failing
			}
			return nil
		},
	}))

	assert.ErrorIs(t, s.RunNow("flaky"), failing)
	assert.Equal(t, "boom", s.Jobs()[0].LastError)

	assert.NoError(t, s.RunNow("flaky"))
	assert.Empty(t, s.Jobs()[0].LastError)
	assert.Equal(t, 2, calls)

	assert.ErrorIs(t, s.RunNow("missing"), ErrJobNotFound)
}

func TestEventRolloverJob(t *testing.T) {
	st := testutil.TestStore(t)
	events := service.NewEventService(st.Events)
	st.Events.Replace([]model.Event{
		{ID: "1", Title: "Yesterday", Date: time.Now().Add(-24 * time.Hour), Type: model.EventUpcoming},
		{ID: "2", Title: "Tomorrow", Date: time.Now().Add(24 * time.Hour), Type: model.EventUpcoming},
	})

	s := New(testutil.TestLogger())
	require.NoError(t, s.Add(EventRolloverJob(events, "@hourly")))
	require.NoError(t, s.RunNow(JobEventRollover))

	past := events.Past()
	require.Len(t, past, 1)
	assert.Equal(t, "Yesterday", past[0].Title)
	assert.Len(t, events.Upcoming(), 1)
}

type fakeResetter struct {
	calls int
	err   error
}

func (f *fakeResetter) Reset() error {
	f.calls++
	return f.err
}

func TestDemoResetJob(t *testing.T) {
	r := &fakeResetter{}
	s := New(testutil.TestLogger())
	require.NoError(t, s.Add(DemoResetJob(r, "0 */6 * * *")))

	require.NoError(t, s.RunNow(JobDemoReset))
	assert.Equal(t, 1, r.calls)

	r.err = errors.New("disk full")
	assert.Error(t, s.RunNow(JobDemoReset))
	assert.Equal(t, "disk full", s.Jobs()[0].LastError)
}

func TestAuditRetentionJob(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	q := store.NewQueries(db)
	ctx := context.Background()
	for _, age := range []time.Duration{time.Hour, 10 * 24 * time.Hour, 40 * 24 * time.Hour} {
		_, err := q.InsertAuditEntry(ctx, model.AuditEntry{
			Level:     model.AuditLevelInfo,
			Category:  model.AuditCategorySystem,
			Message:   "entry",
			CreatedAt: time.Now().Add(-age),
		})
		require.NoError(t, err)
	}

	s := New(testutil.TestLogger())
	require.NoError(t, s.Add(AuditRetentionJob(service.NewAuditService(db), 7*24*time.Hour, "@daily")))
	require.NoError(t, s.RunNow(JobAuditRetention))

	n, err := q.CountAuditEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAuditRetentionJob_ZeroRetentionDisables(t *testing.T) {
	s := New(testutil.TestLogger())
	require.NoError(t, s.Add(AuditRetentionJob(nil, 0, "@daily")))
	assert.Empty(t, s.Jobs())
}
