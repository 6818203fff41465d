package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
)

type migration struct {
	version     int
	description string
	statements  []string
}

// migrations are applied in order; a version is never edited once released.
var migrations = []migration{
	{
		version:     1,
		description: "create attendance_sessions",
		statements: []string{
			`CREATE TABLE attendance_sessions (
				id                    UUID PRIMARY KEY,
				user_id               TEXT NOT NULL,
				date                  DATE NOT NULL,
				clock_in              TIMESTAMPTZ NULL,
				clock_out             TIMESTAMPTZ NULL,
				work_duration_ms      BIGINT NULL,
				status_override       TEXT NULL,
				override_holiday_name TEXT NULL,
				version               BIGINT NOT NULL DEFAULT 1,
				created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT attendance_sessions_user_date_key UNIQUE (user_id, date),
				CONSTRAINT attendance_sessions_interval_check
					CHECK (clock_out IS NULL OR (clock_in IS NOT NULL AND clock_out > clock_in)),
				CONSTRAINT attendance_sessions_status_check
					CHECK (status_override IS NULL OR status_override IN ('present', 'late', 'absent', 'weekend', 'holiday'))
			)`,
		},
	},
	{
		version:     2,
		description: "index open sessions for the stale-session report",
		statements: []string{
			`CREATE INDEX idx_attendance_sessions_open
				ON attendance_sessions (date)
				WHERE clock_in IS NOT NULL AND clock_out IS NULL`,
		},
	},
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version     INT PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// Migrate applies every pending migration inside one transaction and returns
// the versions it applied. Running it again is a no-op.
func Migrate(ctx context.Context, db *database.DB) ([]int, error) {
	var applied []int

	err := InTransaction(ctx, db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, db)

		if _, err := q.Exec(txCtx, createMigrationsTable); err != nil {
			return fmt.Errorf("create schema_migrations: %w", err)
		}
		// serialize concurrent deploys
		if _, err := q.Exec(txCtx, `LOCK TABLE schema_migrations IN EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock schema_migrations: %w", err)
		}

		var current int
		if err := q.QueryRow(txCtx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		for _, m := range migrations {
			if m.version <= current {
				continue
			}
			for _, stmt := range m.statements {
				if _, err := q.Exec(txCtx, stmt); err != nil {
					return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
				}
			}
			if _, err := q.Exec(txCtx,
				`INSERT INTO schema_migrations (version, description) VALUES ($1, $2)`,
				m.version, m.description); err != nil {
				return fmt.Errorf("record migration %d: %w", m.version, err)
			}
			applied = append(applied, m.version)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}
