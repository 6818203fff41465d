package attendance

import (
	"context"
	"time"
)

// AttendanceService is the consumer-facing query API of the reconciliation engine.
// Every call carries an explicit userID; the engine holds no ambient identity.
type AttendanceService interface {
	// ClockIn opens today's session for the user
	ClockIn(ctx context.Context, userID string) (Session, error)

	// ClockOut closes today's open session and computes its work duration
	ClockOut(ctx context.Context, userID string) (Session, error)

	// EditSession applies a manual correction and returns the re-reconciled record
	EditSession(ctx context.Context, userID string, date time.Time, patch SessionPatch) (AttendanceRecord, error)

	// GetDailyRecord reconciles a single day
	GetDailyRecord(ctx context.Context, userID string, date time.Time) (AttendanceRecord, error)

	// GetMonthlyReport reconciles every day of the month, country "" means the configured default
	GetMonthlyReport(ctx context.Context, userID string, month time.Month, year int, country string) (Report, error)

	// GetWeeklyReport reconciles Monday..Sunday of the week containing date
	GetWeeklyReport(ctx context.Context, userID string, date time.Time) (Report, error)

	// GetTodayStatus reports which clock action is currently allowed
	GetTodayStatus(ctx context.Context, userID string) (TodayStatus, error)
}
