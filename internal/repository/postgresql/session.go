package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgCheckViolation = "23514"

	sessionColumns = `id, user_id, date, clock_in, clock_out, work_duration_ms,
		status_override, override_holiday_name, version, created_at, updated_at`
)

type sessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) attendance.LedgerStore {
	return &sessionRepository{db: db}
}

// GetSession implements attendance.LedgerStore.
func (r *sessionRepository) GetSession(ctx context.Context, userID string, date time.Time) (*attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1 AND date = $2`

	s, err := scanSession(q.QueryRow(ctx, query, userID, dateutil.Normalize(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// PutSessionIfMatching implements attendance.LedgerStore.
func (r *sessionRepository) PutSessionIfMatching(ctx context.Context, expected *attendance.Session, next attendance.Session) (attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	next.Date = dateutil.Normalize(next.Date)
	durationMs := durationMillis(next.WorkDuration)
	status := statusString(next.StatusOverride)

	var err error
	if expected == nil {
		query := `
			INSERT INTO attendance_sessions (
				id, user_id, date, clock_in, clock_out, work_duration_ms,
				status_override, override_holiday_name, version, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 1, NOW(), NOW())
			ON CONFLICT (user_id, date) DO NOTHING
			RETURNING id, version, created_at, updated_at
		`
		err = q.QueryRow(ctx, query,
			next.ID, next.UserID, next.Date, next.ClockIn, next.ClockOut, durationMs,
			status, next.OverrideHolidayName,
		).Scan(&next.ID, &next.Version, &next.CreatedAt, &next.UpdatedAt)
	} else {
		query := `
			UPDATE attendance_sessions
			SET clock_in = $3,
				clock_out = $4,
				work_duration_ms = $5,
				status_override = $6,
				override_holiday_name = $7,
				version = version + 1,
				updated_at = NOW()
			WHERE user_id = $1 AND date = $2 AND version = $8
			RETURNING id, version, created_at, updated_at
		`
		err = q.QueryRow(ctx, query,
			next.UserID, next.Date, next.ClockIn, next.ClockOut, durationMs,
			status, next.OverrideHolidayName, expected.Version,
		).Scan(&next.ID, &next.Version, &next.CreatedAt, &next.UpdatedAt)
	}

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race: the row appeared, or its version moved on.
			return attendance.Session{}, attendance.ErrConcurrencyConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation {
			return attendance.Session{}, attendance.ErrInvalidInterval
		}
		return attendance.Session{}, fmt.Errorf("failed to write session: %w", err)
	}

	next.CreatedAt = next.CreatedAt.UTC()
	next.UpdatedAt = next.UpdatedAt.UTC()
	return next, nil
}

// ListSessions implements attendance.LedgerStore.
func (r *sessionRepository) ListSessions(ctx context.Context, userID string, from, to time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC`

	rows, err := q.Query(ctx, query, userID, dateutil.Normalize(from), dateutil.Normalize(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

// ListOpenSessions implements attendance.LedgerStore.
func (r *sessionRepository) ListOpenSessions(ctx context.Context, before time.Time) ([]attendance.Session, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + sessionColumns + `
		FROM attendance_sessions
		WHERE clock_in IS NOT NULL AND clock_out IS NULL AND date < $1
		ORDER BY date ASC, user_id ASC`

	rows, err := q.Query(ctx, query, dateutil.Normalize(before))
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]attendance.Session, error) {
	sessions := make([]attendance.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

func scanSession(row pgx.Row) (attendance.Session, error) {
	var (
		s          attendance.Session
		durationMs *int64
		status     *string
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.Date, &s.ClockIn, &s.ClockOut, &durationMs,
		&status, &s.OverrideHolidayName, &s.Version, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return attendance.Session{}, err
	}

	// Conversion to the domain representation happens here and nowhere else.
	s.Date = dateutil.Normalize(s.Date)
	s.ClockIn = utcPtr(s.ClockIn)
	s.ClockOut = utcPtr(s.ClockOut)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	if status != nil {
		v := attendance.Status(*status)
		s.StatusOverride = &v
	}
	if durationMs != nil && s.ClockIn != nil && s.ClockOut != nil {
		s.WorkDuration = &attendance.WorkDuration{
			Milliseconds: *durationMs,
			Hours:        int(*durationMs / 3_600_000),
			Minutes:      int(*durationMs % 3_600_000 / 60_000),
			Seconds:      int(*durationMs % 60_000 / 1000),
			DecimalHours: float64(*durationMs) / 3_600_000,
		}
	}
	return s, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func durationMillis(d *attendance.WorkDuration) *int64 {
	if d == nil {
		return nil
	}
	ms := d.Milliseconds
	return &ms
}

func statusString(s *attendance.Status) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}
