package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clockedIn(userID string, day time.Time, at time.Time) attendance.Session {
	return attendance.Session{ID: userID + "-" + dateutil.FormatDay(day), UserID: userID, Date: day, ClockIn: &at}
}

func TestSessionRepository_CompareAndWrite(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	day := dateutil.Day(2025, 3, 3)
	in := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)

	got, err := repo.GetSession(ctx, "u1", day)
	require.NoError(t, err)
	assert.Nil(t, got)

	created, err := repo.PutSessionIfMatching(ctx, nil, clockedIn("u1", day, in))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	t.Run("insert when present conflicts", func(t *testing.T) {
		_, err := repo.PutSessionIfMatching(ctx, nil, clockedIn("u1", day, in))
		assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)
	})

	t.Run("update with current version succeeds", func(t *testing.T) {
		out := in.Add(8 * time.Hour)
		next := created
		next.ClockOut = &out

		updated, err := repo.PutSessionIfMatching(ctx, &created, next)
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.Version)
		assert.Equal(t, created.ID, updated.ID)
	})

	t.Run("update with stale version conflicts", func(t *testing.T) {
		stale := created
		_, err := repo.PutSessionIfMatching(ctx, &stale, stale)
		assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)
	})

	t.Run("update of absent row conflicts", func(t *testing.T) {
		other := clockedIn("u2", day, in)
		_, err := repo.PutSessionIfMatching(ctx, &other, other)
		assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)
	})
}

func TestSessionRepository_ConcurrentInsertHasOneWinner(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	day := dateutil.Day(2025, 3, 3)
	in := time.Date(2025, 3, 3, 4, 0, 0, 0, time.UTC)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.PutSessionIfMatching(ctx, nil, clockedIn("u1", day, in))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, attendance.ErrConcurrencyConflict)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestSessionRepository_ListSessions(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	for _, d := range []int{5, 1, 3} {
		day := dateutil.Day(2025, 3, d)
		_, err := repo.PutSessionIfMatching(ctx, nil, clockedIn("u1", day, day.Add(4*time.Hour)))
		require.NoError(t, err)
	}
	_, err := repo.PutSessionIfMatching(ctx, nil, clockedIn("u2", dateutil.Day(2025, 3, 2), dateutil.Day(2025, 3, 2)))
	require.NoError(t, err)

	sessions, err := repo.ListSessions(ctx, "u1", dateutil.Day(2025, 3, 1), dateutil.Day(2025, 3, 4))
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, dateutil.Day(2025, 3, 1), sessions[0].Date)
	assert.Equal(t, dateutil.Day(2025, 3, 3), sessions[1].Date)
}

func TestSessionRepository_ListOpenSessions(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	open := clockedIn("u1", dateutil.Day(2025, 3, 1), dateutil.Day(2025, 3, 1).Add(4*time.Hour))
	_, err := repo.PutSessionIfMatching(ctx, nil, open)
	require.NoError(t, err)

	closed := clockedIn("u2", dateutil.Day(2025, 3, 1), dateutil.Day(2025, 3, 1).Add(4*time.Hour))
	out := closed.ClockIn.Add(time.Hour)
	closed.ClockOut = &out
	_, err = repo.PutSessionIfMatching(ctx, nil, closed)
	require.NoError(t, err)

	today := clockedIn("u3", dateutil.Day(2025, 3, 2), dateutil.Day(2025, 3, 2).Add(4*time.Hour))
	_, err = repo.PutSessionIfMatching(ctx, nil, today)
	require.NoError(t, err)

	sessions, err := repo.ListOpenSessions(ctx, dateutil.Day(2025, 3, 2))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "u1", sessions[0].UserID)
}
