package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

// ========================================
// REQUEST DTOs
// ========================================

// EditSessionRequest corrects the clock times or the status of one day.
// Clock times accept RFC3339 instants or HH:MM[:SS] wall-clock times of that day.
type EditSessionRequest struct {
	UserID       string  `json:"-"`
	Date         string  `json:"-"`                        // YYYY-MM-DD, from the URL
	ClockInTime  *string `json:"clock_in_time,omitempty"`  // RFC3339 or HH:MM[:SS]
	ClockOutTime *string `json:"clock_out_time,omitempty"` // RFC3339 or HH:MM[:SS]
	Status       *string `json:"status,omitempty"`
	HolidayName  *string `json:"holiday_name,omitempty"`
	ClearStatus  bool    `json:"clear_status,omitempty"`
}

var validStatuses = []string{"present", "late", "absent", "weekend", "holiday"}

func (r *EditSessionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.ClockInTime != nil && !isValidClockValue(*r.ClockInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: "clock_in_time must be RFC3339 or HH:MM[:SS]",
		})
	}

	if r.ClockOutTime != nil && !isValidClockValue(*r.ClockOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: "clock_out_time must be RFC3339 or HH:MM[:SS]",
		})
	}

	if r.Status != nil {
		if !validator.IsInSlice(strings.ToLower(*r.Status), validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, late, absent, weekend, holiday",
			})
		}
		if r.ClearStatus {
			errs = append(errs, validator.ValidationError{
				Field:   "clear_status",
				Message: "clear_status cannot be combined with status",
			})
		}
	}

	if r.HolidayName != nil && (r.Status == nil || strings.ToLower(*r.Status) != string(StatusHoliday)) {
		errs = append(errs, validator.ValidationError{
			Field:   "holiday_name",
			Message: "holiday_name is only allowed with status holiday",
		})
	}

	if r.ClockInTime == nil && r.ClockOutTime == nil && r.Status == nil && !r.ClearStatus {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of clock_in_time, clock_out_time, status, clear_status is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ChangesStatus reports whether the request touches the status override.
func (r *EditSessionRequest) ChangesStatus() bool {
	return r.Status != nil || r.HolidayName != nil || r.ClearStatus
}

// ToPatch converts the request into a domain patch. Wall-clock times are
// interpreted on the request date in loc. Call Validate first.
func (r *EditSessionRequest) ToPatch(loc *time.Location) (time.Time, SessionPatch) {
	date, _ := dateutil.ParseDay(r.Date)
	patch := SessionPatch{ClearStatus: r.ClearStatus}

	if r.ClockInTime != nil {
		t := parseClockValue(*r.ClockInTime, date, loc)
		patch.ClockIn = &t
	}
	if r.ClockOutTime != nil {
		t := parseClockValue(*r.ClockOutTime, date, loc)
		patch.ClockOut = &t
	}
	if r.Status != nil {
		s := Status(strings.ToLower(*r.Status))
		patch.Status = &s
		if r.HolidayName != nil {
			name := strings.TrimSpace(*r.HolidayName)
			patch.HolidayName = &name
		}
	}

	return date, patch
}

var wallClockLayouts = []string{"15:04:05", "15:04"}

func isValidClockValue(v string) bool {
	if _, ok := validator.IsValidDateTime(v); ok {
		return true
	}
	for _, layout := range wallClockLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}

func parseClockValue(v string, date time.Time, loc *time.Location) time.Time {
	if t, ok := validator.IsValidDateTime(v); ok {
		return t.UTC()
	}
	for _, layout := range wallClockLayouts {
		if wc, err := time.Parse(layout, v); err == nil {
			return time.Date(date.Year(), date.Month(), date.Day(),
				wc.Hour(), wc.Minute(), wc.Second(), 0, loc).UTC()
		}
	}
	return time.Time{}
}

// ReportFilter selects a monthly report.
type ReportFilter struct {
	UserID  string `json:"user_id"`
	Month   int    `json:"month"`
	Year    int    `json:"year"`
	Country string `json:"country,omitempty"`
}

func (f *ReportFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if f.Month < 1 || f.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}

	if f.Year < 1970 || f.Year > 9999 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 1970 and 9999",
		})
	}

	if f.Country != "" && !validator.IsCountryCode(f.Country) {
		errs = append(errs, validator.ValidationError{
			Field:   "country",
			Message: "country must be an ISO 3166-1 alpha-2 code",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type WorkDurationResponse struct {
	Hours        int     `json:"hours"`
	Minutes      int     `json:"minutes"`
	Seconds      int     `json:"seconds"`
	DecimalHours float64 `json:"decimal_hours"`
	Milliseconds int64   `json:"milliseconds"`
}

type SessionResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	Date           string                `json:"date"`
	State          SessionState          `json:"state"`
	ClockInTime    *string               `json:"clock_in_time,omitempty"`
	ClockOutTime   *string               `json:"clock_out_time,omitempty"`
	WorkDuration   *WorkDurationResponse `json:"work_duration,omitempty"`
	StatusOverride *string               `json:"status_override,omitempty"`
	Version        int64                 `json:"version"`
	UpdatedAt      string                `json:"updated_at"`
}

type AttendanceRecordResponse struct {
	UserID       string                `json:"user_id"`
	Date         string                `json:"date"`
	Weekday      string                `json:"weekday"`
	ClockInTime  *string               `json:"clock_in_time"`
	ClockOutTime *string               `json:"clock_out_time"`
	WorkDuration *WorkDurationResponse `json:"work_duration"`
	Status       Status                `json:"status"`
	HolidayName  string                `json:"holiday_name,omitempty"`
	Overridden   bool                  `json:"overridden"`
	Synthesized  bool                  `json:"synthesized"`
}

type SummaryResponse struct {
	Days           int     `json:"days"`
	PresentCount   int     `json:"present_count"`
	LateCount      int     `json:"late_count"`
	AbsentCount    int     `json:"absent_count"`
	WeekendCount   int     `json:"weekend_count"`
	HolidayCount   int     `json:"holiday_count"`
	TotalWorkHours float64 `json:"total_work_hours"`
}

type ReportResponse struct {
	UserID  string                     `json:"user_id"`
	From    string                     `json:"from"`
	To      string                     `json:"to"`
	Records []AttendanceRecordResponse `json:"records"`
	Summary SummaryResponse            `json:"summary"`
}

type TodayStatusResponse struct {
	Date        string           `json:"date"`
	Session     *SessionResponse `json:"session,omitempty"`
	CanClockIn  bool             `json:"can_clock_in"`
	CanClockOut bool             `json:"can_clock_out"`
	Message     string           `json:"message"`
}

// timePtrToString safely converts a *time.Time to an RFC3339 UTC string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

func NewWorkDurationResponse(d *WorkDuration) *WorkDurationResponse {
	if d == nil {
		return nil
	}
	return &WorkDurationResponse{
		Hours:        d.Hours,
		Minutes:      d.Minutes,
		Seconds:      d.Seconds,
		DecimalHours: d.DecimalHours,
		Milliseconds: d.Milliseconds,
	}
}

func NewSessionResponse(s Session) SessionResponse {
	var override *string
	if s.StatusOverride != nil {
		v := string(*s.StatusOverride)
		override = &v
	}
	return SessionResponse{
		ID:             s.ID,
		UserID:         s.UserID,
		Date:           dateutil.FormatDay(s.Date),
		State:          s.State(),
		ClockInTime:    timePtrToString(s.ClockIn),
		ClockOutTime:   timePtrToString(s.ClockOut),
		WorkDuration:   NewWorkDurationResponse(s.WorkDuration),
		StatusOverride: override,
		Version:        s.Version,
		UpdatedAt:      s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewRecordResponse(rec AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		UserID:       rec.UserID,
		Date:         dateutil.FormatDay(rec.Date),
		Weekday:      rec.Date.Weekday().String(),
		ClockInTime:  timePtrToString(rec.ClockIn),
		ClockOutTime: timePtrToString(rec.ClockOut),
		WorkDuration: NewWorkDurationResponse(rec.WorkDuration),
		Status:       rec.Status,
		HolidayName:  rec.HolidayName,
		Overridden:   rec.Overridden,
		Synthesized:  rec.Synthesized,
	}
}

func NewReportResponse(r Report) ReportResponse {
	records := make([]AttendanceRecordResponse, 0, len(r.Records))
	for _, rec := range r.Records {
		records = append(records, NewRecordResponse(rec))
	}
	return ReportResponse{
		UserID:  r.UserID,
		From:    dateutil.FormatDay(r.From),
		To:      dateutil.FormatDay(r.To),
		Records: records,
		Summary: SummaryResponse{
			Days:           r.Summary.Days,
			PresentCount:   r.Summary.PresentCount,
			LateCount:      r.Summary.LateCount,
			AbsentCount:    r.Summary.AbsentCount,
			WeekendCount:   r.Summary.WeekendCount,
			HolidayCount:   r.Summary.HolidayCount,
			TotalWorkHours: r.Summary.TotalWorkHours,
		},
	}
}

func NewTodayStatusResponse(s TodayStatus) TodayStatusResponse {
	var session *SessionResponse
	if s.Session != nil {
		resp := NewSessionResponse(*s.Session)
		session = &resp
	}
	return TodayStatusResponse{
		Date:        dateutil.FormatDay(s.Date),
		Session:     session,
		CanClockIn:  s.CanClockIn,
		CanClockOut: s.CanClockOut,
		Message:     s.Message,
	}
}
