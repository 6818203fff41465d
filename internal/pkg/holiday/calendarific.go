// Package holiday implements public-holiday providers for the calendar overlay.
package holiday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/dateutil"
	"go.uber.org/zap"
)

const (
	DefaultCalendarificBaseURL = "https://calendarific.com/api/v2"
	defaultHTTPTimeout         = 10 * time.Second
)

// CalendarificProvider fetches holidays from the Calendarific v2 API.
type CalendarificProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

type calendarificResponse struct {
	Meta struct {
		Code        int    `json:"code"`
		ErrorType   string `json:"error_type"`
		ErrorDetail string `json:"error_detail"`
	} `json:"meta"`
	Response json.RawMessage `json:"response"`
}

type calendarificHolidays struct {
	Holidays []struct {
		Name string `json:"name"`
		Date struct {
			ISO string `json:"iso"` // "2025-08-15" or "2025-03-20T14:31:30+05:30"
		} `json:"date"`
	} `json:"holidays"`
}

// NewCalendarificProvider creates a provider. An empty baseURL uses the public API.
func NewCalendarificProvider(baseURL, apiKey string, logger *zap.Logger) *CalendarificProvider {
	if baseURL == "" {
		baseURL = DefaultCalendarificBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarificProvider{
		httpClient: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// ListHolidays implements calendar.HolidayProvider.
func (p *CalendarificProvider) ListHolidays(ctx context.Context, country string, year int) ([]calendar.PublicHoliday, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("calendarific api key is not configured")
	}

	query := url.Values{}
	query.Set("api_key", p.apiKey)
	query.Set("country", country)
	query.Set("year", strconv.Itoa(year))
	endpoint := p.baseURL + "/holidays?" + query.Encode()

	p.logger.Debug("Fetching holidays from Calendarific",
		zap.String("country", country),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build calendarific request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("calendarific returned status %d", resp.StatusCode)
	}

	var body calendarificResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse calendarific response: %w", err)
	}

	if body.Meta.Code != http.StatusOK {
		return nil, fmt.Errorf("calendarific error %d: %s %s", body.Meta.Code, body.Meta.ErrorType, body.Meta.ErrorDetail)
	}

	// The API sends "response": [] instead of an object when there is nothing to return.
	raw := bytes.TrimSpace(body.Response)
	if len(raw) == 0 || raw[0] == '[' {
		return []calendar.PublicHoliday{}, nil
	}

	var payload calendarificHolidays
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse calendarific holidays: %w", err)
	}

	holidays := make([]calendar.PublicHoliday, 0, len(payload.Holidays))
	for _, h := range payload.Holidays {
		iso := h.Date.ISO
		if len(iso) > len(dateutil.DayLayout) {
			iso = iso[:len(dateutil.DayLayout)]
		}
		day, err := dateutil.ParseDay(iso)
		if err != nil {
			p.logger.Warn("Skipping holiday with invalid date",
				zap.String("name", h.Name),
				zap.String("date", h.Date.ISO))
			continue
		}
		holidays = append(holidays, calendar.PublicHoliday{
			Date:    day,
			Name:    h.Name,
			Country: country,
		})
	}

	p.logger.Info("Holidays fetched from Calendarific",
		zap.String("country", country),
		zap.Int("year", year),
		zap.Int("count", len(holidays)))

	return holidays, nil
}
