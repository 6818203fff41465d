// Package memory is an in-process LedgerStore with the same compare-and-write
// semantics as the PostgreSQL store.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
)

type sessionKey struct {
	userID string
	date   time.Time
}

type sessionRepository struct {
	mu       sync.RWMutex
	sessions map[sessionKey]attendance.Session
	now      func() time.Time
}

func NewSessionRepository() attendance.LedgerStore {
	return &sessionRepository{
		sessions: make(map[sessionKey]attendance.Session),
		now:      time.Now,
	}
}

func keyOf(userID string, date time.Time) sessionKey {
	return sessionKey{userID: userID, date: dateutil.Normalize(date)}
}

// GetSession implements attendance.LedgerStore.
func (r *sessionRepository) GetSession(ctx context.Context, userID string, date time.Time) (*attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[keyOf(userID, date)]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// PutSessionIfMatching implements attendance.LedgerStore.
func (r *sessionRepository) PutSessionIfMatching(ctx context.Context, expected *attendance.Session, next attendance.Session) (attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return attendance.Session{}, err
	}

	key := keyOf(next.UserID, next.Date)
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.sessions[key]
	switch {
	case expected == nil && exists:
		return attendance.Session{}, attendance.ErrConcurrencyConflict
	case expected != nil && (!exists || stored.Version != expected.Version):
		return attendance.Session{}, attendance.ErrConcurrencyConflict
	}

	next.Date = key.date
	next.UpdatedAt = now
	if exists {
		next.ID = stored.ID
		next.CreatedAt = stored.CreatedAt
		next.Version = stored.Version + 1
	} else {
		next.CreatedAt = now
		next.Version = 1
	}

	r.sessions[key] = next
	return next, nil
}

// ListSessions implements attendance.LedgerStore.
func (r *sessionRepository) ListSessions(ctx context.Context, userID string, from, to time.Time) ([]attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	from, to = dateutil.Normalize(from), dateutil.Normalize(to)

	r.mu.RLock()
	result := make([]attendance.Session, 0)
	for key, s := range r.sessions {
		if key.userID == userID && !key.date.Before(from) && !key.date.After(to) {
			result = append(result, s)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b attendance.Session) int {
		return a.Date.Compare(b.Date)
	})
	return result, nil
}

// ListOpenSessions implements attendance.LedgerStore.
func (r *sessionRepository) ListOpenSessions(ctx context.Context, before time.Time) ([]attendance.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	before = dateutil.Normalize(before)

	r.mu.RLock()
	result := make([]attendance.Session, 0)
	for key, s := range r.sessions {
		if key.date.Before(before) && s.State() == attendance.StateClockedIn {
			result = append(result, s)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(result, func(a, b attendance.Session) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return result, nil
}
