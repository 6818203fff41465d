package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	GetTodayStatus(w http.ResponseWriter, r *http.Request)
	GetDaily(w http.ResponseWriter, r *http.Request)
	GetWeekly(w http.ResponseWriter, r *http.Request)
	GetMyMonthly(w http.ResponseWriter, r *http.Request)
	EditMyDay(w http.ResponseWriter, r *http.Request)

	// Manager / admin
	GetUserMonthly(w http.ResponseWriter, r *http.Request)
	EditUserDay(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	location          *time.Location
	logger            *zap.Logger
}

// NewAttendanceHandler creates the attendance handler. loc interprets
// wall-clock times sent in edit requests.
func NewAttendanceHandler(attendanceService attendance.AttendanceService, loc *time.Location, logger *zap.Logger) AttendanceHandler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		location:          loc,
		logger:            logger,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	session, err := h.attendanceService.ClockIn(r.Context(), userID)
	if err != nil {
		h.handleError(w, "clock in", userID, err)
		return
	}

	response.Created(w, "Clock in successful", attendance.NewSessionResponse(session))
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	session, err := h.attendanceService.ClockOut(r.Context(), userID)
	if err != nil {
		h.handleError(w, "clock out", userID, err)
		return
	}

	response.SuccessWithMessage(w, "Clock out successful", attendance.NewSessionResponse(session))
}

// GetTodayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetTodayStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	status, err := h.attendanceService.GetTodayStatus(r.Context(), userID)
	if err != nil {
		h.handleError(w, "today status", userID, err)
		return
	}

	response.Success(w, attendance.NewTodayStatusResponse(status))
}

// GetDaily implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetDaily(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rec, err := h.attendanceService.GetDailyRecord(r.Context(), userID, date)
	if err != nil {
		h.handleError(w, "daily record", userID, err)
		return
	}

	response.Success(w, attendance.NewRecordResponse(rec))
}

// GetWeekly implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetWeekly(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	date, err := parseDateParam(r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.attendanceService.GetWeeklyReport(r.Context(), userID, date)
	if err != nil {
		h.handleError(w, "weekly report", userID, err)
		return
	}

	response.Success(w, attendance.NewReportResponse(report))
}

// GetMyMonthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyMonthly(w http.ResponseWriter, r *http.Request) {
	h.monthly(w, r, middleware.UserIDFromContext(r.Context()))
}

// GetUserMonthly implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetUserMonthly(w http.ResponseWriter, r *http.Request) {
	h.monthly(w, r, chi.URLParam(r, "userID"))
}

func (h *attendanceHandlerImpl) monthly(w http.ResponseWriter, r *http.Request, userID string) {
	query := r.URL.Query()
	filter := attendance.ReportFilter{
		UserID:  userID,
		Month:   atoiOrZero(query.Get("month")),
		Year:    atoiOrZero(query.Get("year")),
		Country: query.Get("country"),
	}

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.attendanceService.GetMonthlyReport(r.Context(), filter.UserID, time.Month(filter.Month), filter.Year, filter.Country)
	if err != nil {
		h.handleError(w, "monthly report", userID, err)
		return
	}

	response.Success(w, attendance.NewReportResponse(report))
}

// EditMyDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) EditMyDay(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, middleware.UserIDFromContext(r.Context()), true)
}

// EditUserDay implements AttendanceHandler.
func (h *attendanceHandlerImpl) EditUserDay(w http.ResponseWriter, r *http.Request) {
	h.edit(w, r, chi.URLParam(r, "userID"), false)
}

// edit applies a correction to one day. Self-service edits may only move clock times.
func (h *attendanceHandlerImpl) edit(w http.ResponseWriter, r *http.Request, userID string, selfService bool) {
	var req attendance.EditSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = userID
	req.Date = chi.URLParam(r, "date")

	if selfService && req.ChangesStatus() {
		response.HandleError(w, attendance.ErrStatusEditForbidden)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	date, patch := req.ToPatch(h.location)

	rec, err := h.attendanceService.EditSession(r.Context(), userID, date, patch)
	if err != nil {
		h.handleError(w, "edit session", userID, err)
		return
	}

	h.logger.Info("Attendance edited",
		zap.String("user_id", userID),
		zap.String("date", req.Date),
		zap.String("editor_id", middleware.UserIDFromContext(r.Context())))

	response.SuccessWithMessage(w, "Attendance updated", attendance.NewRecordResponse(rec))
}

// handleError logs unexpected failures before mapping the error to a response.
func (h *attendanceHandlerImpl) handleError(w http.ResponseWriter, op, userID string, err error) {
	if isUnexpected(err) {
		h.logger.Error("Attendance request failed",
			zap.String("operation", op),
			zap.String("user_id", userID),
			zap.Error(err))
	}
	response.HandleError(w, err)
}

func parseDateParam(value string) (time.Time, error) {
	date, err := dateutil.ParseDay(value)
	if err != nil {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return date, nil
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
