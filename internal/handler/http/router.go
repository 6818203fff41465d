package http

import (
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-ledger/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	AllowedOrigins []string
	Env            string
	Version        string
	// LogOutput receives request logs; nil means stdout.
	LogOutput io.Writer
}

func NewRouter(
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	holidayHandler HolidayHandler,
	eventsHandler EventsHandler,
	opts RouterOptions,
) *chi.Mux {
	r := chi.NewRouter()

	if opts.LogOutput == nil {
		opts.LogOutput = os.Stdout
	}
	logFormat := httplog.SchemaECS.Concise(opts.Env != "production")
	logger := slog.New(slog.NewJSONHandler(opts.LogOutput, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-ledger"),
		slog.String("version", opts.Version),
		slog.String("env", opts.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/attendance", func(r chi.Router) {
			// SSE token travels in the query string
			r.Get("/events", eventsHandler.Stream)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired)

				r.Post("/clock-in", attendanceHandler.ClockIn)
				r.Post("/clock-out", attendanceHandler.ClockOut)
				r.Get("/status", attendanceHandler.GetTodayStatus)
				r.Get("/daily", attendanceHandler.GetDaily)
				r.Get("/weekly", attendanceHandler.GetWeekly)
				r.Get("/monthly", attendanceHandler.GetMyMonthly)
				r.Post("/events/token", eventsHandler.GetSSEToken)
				r.Put("/{date}", attendanceHandler.EditMyDay)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Get("/holidays", holidayHandler.List)

			// Manager or admin only
			r.Route("/admin/users/{userID}/attendance", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/monthly", attendanceHandler.GetUserMonthly)
				r.Put("/{date}", attendanceHandler.EditUserDay)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found")
	})

	return r
}
