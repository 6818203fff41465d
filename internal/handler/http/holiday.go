package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"go.uber.org/zap"
)

type HolidayHandler interface {
	List(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService calendar.HolidayService
	now            func() time.Time
	logger         *zap.Logger
}

func NewHolidayHandler(holidayService calendar.HolidayService, logger *zap.Logger) HolidayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &holidayHandlerImpl{
		holidayService: holidayService,
		now:            time.Now,
		logger:         logger,
	}
}

// List implements HolidayHandler.
func (h *holidayHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := calendar.ParseHolidayFilter(query.Get("year"), query.Get("month"), query.Get("country"), h.now().Year())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	holidays, err := h.holidayService.ListHolidays(r.Context(), filter.Country, filter.Year, time.Month(filter.Month))
	if err != nil {
		if isUnexpected(err) {
			h.logger.Error("Failed to list holidays", zap.Int("year", filter.Year), zap.Error(err))
		}
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar.NewHolidayResponses(holidays))
}
