package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_RunsJobsUntilStopped(t *testing.T) {
	scheduler := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	scheduler.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("failures are logged, not fatal")
	})
	scheduler.AddJob("disabled", 0, func(ctx context.Context) error {
		t.Error("disabled job must not run")
		return nil
	})

	scheduler.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	scheduler.Stop()

	stopped := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())

	stats := scheduler.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, "tick", stats[0].Name)
	assert.Equal(t, int(stopped), stats[0].Runs)
	assert.Equal(t, stats[0].Runs, stats[0].Failures)
	assert.Equal(t, "failures are logged, not fatal", stats[0].LastError)
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	scheduler := NewScheduler(nil)

	var runs atomic.Int32
	scheduler.AddJob("tick", 5*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	scheduler.Start(ctx)
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after parent cancellation")
	}
}

func TestScheduler_RunOnce(t *testing.T) {
	scheduler := NewScheduler(nil)

	var runs atomic.Int32
	scheduler.AddJob("once", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	scheduler.RunOnce(context.Background())
	assert.Equal(t, int32(1), runs.Load())

	stats := scheduler.Stats()
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Runs)
	assert.Zero(t, stats[0].Failures)
	assert.Empty(t, stats[0].LastError)
	assert.False(t, stats[0].LastRun.IsZero())
}

func TestAttendanceJobs_StaleSessions(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionRepository()

	put := func(userID string, day time.Time, closed bool) {
		in := day.Add(4 * time.Hour)
		s := attendance.Session{ID: userID, UserID: userID, Date: day, ClockIn: &in}
		if closed {
			out := in.Add(8 * time.Hour)
			s.ClockOut = &out
		}
		_, err := store.PutSessionIfMatching(ctx, nil, s)
		require.NoError(t, err)
	}

	put("forgot", dateutil.Day(2025, 3, 3), false)
	put("closed", dateutil.Day(2025, 3, 3), true)
	put("today", dateutil.Day(2025, 3, 4), false)

	jobs := NewAttendanceJobs(store, time.UTC, zap.NewNop())
	jobs.now = func() time.Time { return time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC) }

	stale, err := jobs.StaleSessions(ctx)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "forgot", stale[0].UserID)

	assert.NoError(t, jobs.ReportStaleSessions(ctx))
}
