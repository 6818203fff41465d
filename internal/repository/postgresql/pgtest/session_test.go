package pgtest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) attendance.LedgerStore {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))

	t.Cleanup(func() {
		_ = setup.TruncateAllTables(context.Background())
		setup.Close()
	})

	return postgresql.NewSessionRepository(setup.DB)
}

func newSession(userID string, day time.Time, clockIn time.Time) attendance.Session {
	return attendance.Session{
		ID:      uuid.NewString(),
		UserID:  userID,
		Date:    day,
		ClockIn: &clockIn,
	}
}

func TestSessionRepository_InsertAndGet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	day := dateutil.Day(2025, 3, 3)
	in := time.Date(2025, 3, 3, 3, 45, 0, 0, time.UTC)

	missing, err := store.GetSession(ctx, "user-1", day)
	require.NoError(t, err)
	assert.Nil(t, missing)

	created, err := store.PutSessionIfMatching(ctx, nil, newSession("user-1", day, in))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	got, err := store.GetSession(ctx, "user-1", day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, day, got.Date)
	assert.True(t, in.Equal(*got.ClockIn))
	assert.Nil(t, got.ClockOut)
	assert.Equal(t, attendance.StateClockedIn, got.State())
}

func TestSessionRepository_CompareAndWrite(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	day := dateutil.Day(2025, 3, 3)
	in := time.Date(2025, 3, 3, 3, 45, 0, 0, time.UTC)

	created, err := store.PutSessionIfMatching(ctx, nil, newSession("user-1", day, in))
	require.NoError(t, err)

	_, err = store.PutSessionIfMatching(ctx, nil, newSession("user-1", day, in))
	assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)

	out := in.Add(8*time.Hour + 30*time.Minute)
	next := created
	next.ClockOut = &out
	next.WorkDuration = &attendance.WorkDuration{Milliseconds: 30_600_000, Hours: 8, Minutes: 30, DecimalHours: 8.5}

	updated, err := store.PutSessionIfMatching(ctx, &created, next)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = store.PutSessionIfMatching(ctx, &created, next)
	assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)

	got, err := store.GetSession(ctx, "user-1", day)
	require.NoError(t, err)
	require.NotNil(t, got.WorkDuration)
	assert.Equal(t, 8, got.WorkDuration.Hours)
	assert.Equal(t, 30, got.WorkDuration.Minutes)
	assert.InDelta(t, 8.5, got.WorkDuration.DecimalHours, 1e-9)
}

func TestSessionRepository_RejectsInvertedInterval(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	day := dateutil.Day(2025, 3, 3)
	in := time.Date(2025, 3, 3, 3, 45, 0, 0, time.UTC)

	s := newSession("user-1", day, in)
	out := in.Add(-time.Minute)
	s.ClockOut = &out

	_, err := store.PutSessionIfMatching(ctx, nil, s)
	assert.ErrorIs(t, err, attendance.ErrInvalidInterval)
}

func TestSessionRepository_ConcurrentInsertHasOneWinner(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	day := dateutil.Day(2025, 3, 3)
	in := time.Date(2025, 3, 3, 3, 45, 0, 0, time.UTC)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.PutSessionIfMatching(ctx, nil, newSession("user-1", day, in))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	wins := 0
	for err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)
	}
	assert.Equal(t, 1, wins)
}

func TestSessionRepository_ListSessionsAndOpen(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	for _, d := range []int{4, 1, 2} {
		day := dateutil.Day(2025, 3, d)
		s := newSession("user-1", day, day.Add(4*time.Hour))
		if d != 1 {
			out := day.Add(12 * time.Hour)
			s.ClockOut = &out
		}
		_, err := store.PutSessionIfMatching(ctx, nil, s)
		require.NoError(t, err)
	}

	sessions, err := store.ListSessions(ctx, "user-1", dateutil.Day(2025, 3, 1), dateutil.Day(2025, 3, 3))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, dateutil.Day(2025, 3, 1), sessions[0].Date)
	assert.Equal(t, dateutil.Day(2025, 3, 2), sessions[1].Date)

	open, err := store.ListOpenSessions(ctx, dateutil.Day(2025, 3, 5))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, dateutil.Day(2025, 3, 1), open[0].Date)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	defer setup.Close()

	applied, err := postgresql.Migrate(ctx, setup.DB)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestInTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	require.NoError(t, setup.TruncateAllTables(ctx))
	defer setup.Close()

	store := postgresql.NewSessionRepository(setup.DB)
	day := dateutil.Day(2025, 3, 4)
	in := time.Date(2025, 3, 4, 3, 45, 0, 0, time.UTC)

	boom := errors.New("boom")
	err = postgresql.InTransaction(ctx, setup.DB, func(txCtx context.Context) error {
		_, err := store.PutSessionIfMatching(txCtx, nil, newSession("user-tx", day, in))
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.GetSession(ctx, "user-tx", day)
	require.NoError(t, err)
	assert.Nil(t, got)
}
