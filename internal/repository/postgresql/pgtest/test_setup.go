package pgtest

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/postgresql"
)

// TestDatabaseSetup initialises the test database
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// ok is false when the variable is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	if _, err := postgresql.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, true, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateAllTables removes every row written by the tests
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	return postgresql.InTransaction(ctx, t.DB, func(txCtx context.Context) error {
		q := postgresql.GetQuerier(txCtx, t.DB)
		for _, table := range []string{"attendance_sessions"} {
			if _, err := q.Exec(txCtx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)); err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// Close closes the database connection
func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
