package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"go.uber.org/zap"
)

// GetDailyRecord implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDailyRecord(ctx context.Context, userID string, date time.Time) (attendance.AttendanceRecord, error) {
	if validator.IsEmpty(userID) {
		return attendance.AttendanceRecord{}, attendance.ErrInvalidUserID
	}
	day := dateutil.Normalize(date)

	session, err := a.store.GetSession(ctx, userID, day)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get session: %w", err)
	}

	return a.reconcileSession(ctx, userID, day, session), nil
}

// GetMonthlyReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMonthlyReport(ctx context.Context, userID string, month time.Month, year int, country string) (attendance.Report, error) {
	filter := attendance.ReportFilter{UserID: userID, Month: int(month), Year: year, Country: country}
	if err := filter.Validate(); err != nil {
		return attendance.Report{}, err
	}

	from, to := dateutil.MonthRange(year, month)
	return a.buildReport(ctx, userID, from, to, country)
}

// GetWeeklyReport implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetWeeklyReport(ctx context.Context, userID string, date time.Time) (attendance.Report, error) {
	if validator.IsEmpty(userID) {
		return attendance.Report{}, attendance.ErrInvalidUserID
	}

	from := dateutil.StartOfWeek(date)
	return a.buildReport(ctx, userID, from, from.AddDate(0, 0, 6), "")
}

// buildReport walks every day of [from, to], synthesizing the days without a
// session, and accumulates the summary in the same pass.
func (a *AttendanceServiceImpl) buildReport(ctx context.Context, userID string, from, to time.Time, country string) (attendance.Report, error) {
	if to.Before(from) {
		return attendance.Report{}, attendance.ErrInvalidPeriod
	}

	sessions, err := a.store.ListSessions(ctx, userID, from, to)
	if err != nil {
		return attendance.Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	byDate := make(map[time.Time]*attendance.Session, len(sessions))
	for i := range sessions {
		byDate[dateutil.Normalize(sessions[i].Date)] = &sessions[i]
	}

	overlay := a.newOverlay(country)
	report := attendance.Report{
		UserID:  userID,
		From:    from,
		To:      to,
		Records: make([]attendance.AttendanceRecord, 0, int(to.Sub(from).Hours()/24)+1),
	}

	err = dateutil.EachDay(from, to, func(day time.Time) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := Reconcile(userID, day, byDate[day], overlay.Classify(ctx, day), a.policy)
		report.Records = append(report.Records, rec)
		report.Summary.Add(rec)
		return nil
	})
	if err != nil {
		return attendance.Report{}, err
	}

	a.logger.Debug("Attendance report built",
		zap.String("user_id", userID),
		zap.String("from", dateutil.FormatDay(from)),
		zap.String("to", dateutil.FormatDay(to)),
		zap.Int("sessions", len(sessions)),
		zap.Int("calendar_lookups", overlay.ProviderCalls()))

	return report, nil
}

// reconcileSession reconciles a single day with its own overlay.
func (a *AttendanceServiceImpl) reconcileSession(ctx context.Context, userID string, day time.Time, session *attendance.Session) attendance.AttendanceRecord {
	kind := a.newOverlay("").Classify(ctx, day)
	return Reconcile(userID, day, session, kind, a.policy)
}
