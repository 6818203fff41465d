package attendance

import (
	"time"
)

// Status is the reconciled attendance status of one user on one day.
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusWeekend Status = "weekend"
	StatusHoliday Status = "holiday"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPresent, StatusLate, StatusAbsent, StatusWeekend, StatusHoliday:
		return true
	}
	return false
}

// Session is the durable clock-in/clock-out row for one (user, date).
// Date is the calendar day at 00:00 UTC; ClockIn and ClockOut are instants.
type Session struct {
	ID           string
	UserID       string
	Date         time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	WorkDuration *WorkDuration

	// Manual correction of the derived status, set only through an edit.
	StatusOverride      *Status
	OverrideHolidayName *string

	// Version is bumped by the store on every successful compare-and-write.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State returns the tracker state of the session.
func (s *Session) State() SessionState {
	switch {
	case s == nil || s.ClockIn == nil:
		return StateNoSession
	case s.ClockOut == nil:
		return StateClockedIn
	default:
		return StateClockedOut
	}
}

type SessionState string

const (
	StateNoSession  SessionState = "no_session"
	StateClockedIn  SessionState = "clocked_in"
	StateClockedOut SessionState = "clocked_out"
)

// WorkDuration is the worked time of a closed session. Both representations
// come from the same millisecond difference.
type WorkDuration struct {
	Milliseconds int64
	Hours        int
	Minutes      int
	Seconds      int
	DecimalHours float64
}

// TotalSeconds is hours*3600 + minutes*60 + seconds.
func (d WorkDuration) TotalSeconds() int64 {
	return int64(d.Hours)*3600 + int64(d.Minutes)*60 + int64(d.Seconds)
}

// AttendanceRecord is the reconciled view of one (user, date). It is derived
// on every read and never persisted.
type AttendanceRecord struct {
	UserID       string
	Date         time.Time
	ClockIn      *time.Time
	ClockOut     *time.Time
	WorkDuration *WorkDuration
	Status       Status
	HolidayName  string
	Overridden   bool
	Synthesized  bool
}

// MonthlySummary counts statuses over a range of days. Present, Absent,
// Weekend and Holiday always add up to Days; Late is a subset of Present.
type MonthlySummary struct {
	Days           int
	PresentCount   int
	LateCount      int
	AbsentCount    int
	WeekendCount   int
	HolidayCount   int
	TotalWorkHours float64
}

// Add accumulates one record into the summary.
func (m *MonthlySummary) Add(rec AttendanceRecord) {
	m.Days++
	switch rec.Status {
	case StatusPresent:
		m.PresentCount++
	case StatusLate:
		m.PresentCount++
		m.LateCount++
	case StatusAbsent:
		m.AbsentCount++
	case StatusWeekend:
		m.WeekendCount++
	case StatusHoliday:
		m.HolidayCount++
	}
	if rec.WorkDuration != nil {
		m.TotalWorkHours += rec.WorkDuration.DecimalHours
	}
}

// Report is the result of a range aggregation, records ordered by ascending date.
type Report struct {
	UserID  string
	From    time.Time
	To      time.Time
	Records []AttendanceRecord
	Summary MonthlySummary
}

// TodayStatus tells a caller which clock action is currently allowed.
type TodayStatus struct {
	Date        time.Time
	Session     *Session
	CanClockIn  bool
	CanClockOut bool
	Message     string
}

// SessionPatch is a manual correction of a stored session. Nil fields are left unchanged.
type SessionPatch struct {
	ClockIn     *time.Time
	ClockOut    *time.Time
	Status      *Status
	HolidayName *string
	ClearStatus bool
}
