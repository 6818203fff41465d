package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
)

// LatePolicy decides lateness at minute granularity in Location:
// a clock-in at 09:30:59 with a 09:30 threshold is on time.
type LatePolicy struct {
	Location        *time.Location
	ThresholdMinute int
}

func (p LatePolicy) IsLate(clockIn time.Time) bool {
	return dateutil.MinuteOfDay(clockIn, p.Location) > p.ThresholdMinute
}

// Reconcile merges one day's session with its calendar classification.
//
// Precedence, highest first: manual override, holiday, weekend, absent, late, present.
// Clock times and duration are kept on the record whatever the status.
func Reconcile(userID string, date time.Time, session *attendance.Session, kind calendar.Kind, policy LatePolicy) attendance.AttendanceRecord {
	rec := attendance.AttendanceRecord{
		UserID:      userID,
		Date:        dateutil.Normalize(date),
		Synthesized: session == nil,
	}

	if session != nil {
		rec.ClockIn = session.ClockIn
		rec.ClockOut = session.ClockOut
		rec.WorkDuration = sessionDuration(session)
	}

	switch {
	case session != nil && session.StatusOverride != nil:
		rec.Status = *session.StatusOverride
		rec.Overridden = true
		if rec.Status == attendance.StatusHoliday {
			rec.HolidayName = kind.HolidayName
			if session.OverrideHolidayName != nil && *session.OverrideHolidayName != "" {
				rec.HolidayName = *session.OverrideHolidayName
			}
		}
	case kind.IsHoliday():
		rec.Status = attendance.StatusHoliday
		rec.HolidayName = kind.HolidayName
	case kind.IsWeekend():
		rec.Status = attendance.StatusWeekend
	case session == nil || session.ClockIn == nil:
		rec.Status = attendance.StatusAbsent
	case policy.IsLate(*session.ClockIn):
		rec.Status = attendance.StatusLate
	default:
		rec.Status = attendance.StatusPresent
	}

	return rec
}
