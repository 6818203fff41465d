package attendance

import (
	"context"
	"time"
)

// LedgerStore holds Sessions durably. It is the only shared mutable resource
// of the engine and must provide an atomic compare-and-write.
type LedgerStore interface {
	// GetSession returns the session for (userID, date) or nil when none exists.
	GetSession(ctx context.Context, userID string, date time.Time) (*Session, error)

	// PutSessionIfMatching writes next only if the stored state still matches expected.
	// A nil expected means "only if absent". On mismatch it returns ErrConcurrencyConflict.
	// The returned session carries the stored version and timestamps.
	PutSessionIfMatching(ctx context.Context, expected *Session, next Session) (Session, error)

	// ListSessions returns the user's sessions with from <= date <= to, ascending by date.
	ListSessions(ctx context.Context, userID string, from, to time.Time) ([]Session, error)

	// ListOpenSessions returns sessions clocked in but never clocked out, dated before the given day.
	ListOpenSessions(ctx context.Context, before time.Time) ([]Session, error)
}
