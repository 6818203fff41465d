package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/sse"
	"go.uber.org/zap"
)

const keepaliveInterval = 30 * time.Second

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

type EventsHandler interface {
	GetSSEToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type eventsHandlerImpl struct {
	hub        *sse.Hub
	jwtService jwt.Service
	logger     *zap.Logger
}

func NewEventsHandler(hub *sse.Hub, jwtService jwt.Service, logger *zap.Logger) EventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &eventsHandlerImpl{
		hub:        hub,
		jwtService: jwtService,
		logger:     logger,
	}
}

// GetSSEToken generates a short-lived token for the event stream
func (h *eventsHandlerImpl) GetSSEToken(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	token, expiresIn, err := h.jwtService.GenerateSSEToken(userID)
	if err != nil {
		h.logger.Error("Failed to generate SSE token", zap.String("user_id", userID), zap.Error(err))
		response.InternalServerError(w, "Failed to generate SSE token")
		return
	}

	response.Success(w, SSETokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes the user's reconciled records as server-sent events.
// EventSource cannot send headers, so the SSE token comes as a query parameter.
func (h *eventsHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(userID)
	defer cleanup()

	h.logger.Debug("SSE subscriber connected",
		zap.String("user_id", userID),
		zap.Int("subscribers", h.hub.SubscriberCount(userID)))

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	flusher.Flush()

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := event.WriteTo(w); err != nil {
				h.logger.Warn("Failed to write SSE event", zap.String("user_id", userID), zap.Error(err))
				return
			}
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, ": ping %d\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
