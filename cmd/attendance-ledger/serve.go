package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	appHTTP "github.com/cmlabs-hris/attendance-ledger/internal/handler/http"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/cron"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/sse"
	calendarService "github.com/cmlabs-hris/attendance-ledger/internal/service/calendar"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg, logger, autoMigrate)
			if err != nil {
				return err
			}
			defer a.Close()

			jwtSvc, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
			if err != nil {
				return err
			}

			hub := sse.NewHub(sse.DefaultBufferSize)
			svc := a.newAttendanceService(cfg, hub, logger.Named("attendance"))
			holidaySvc := calendarService.NewHolidayService(a.holidays, cfg.Calendar.Country, cfg.Calendar.Timeout, logger.Named("holidays"))

			router := appHTTP.NewRouter(jwtSvc,
				appHTTP.NewAttendanceHandler(svc, a.location, logger.Named("http")),
				appHTTP.NewHolidayHandler(holidaySvc, logger.Named("http")),
				appHTTP.NewEventsHandler(hub, jwtSvc, logger.Named("sse")),
				appHTTP.RouterOptions{
					AllowedOrigins: cfg.App.CORSAllowedOrigins,
					Env:            cfg.App.Env,
					Version:        version,
				},
			)

			scheduler := cron.NewScheduler(logger)
			cron.NewAttendanceJobs(a.store, a.location, logger.Named("jobs")).
				RegisterJobs(scheduler, cfg.Attendance.StaleSessionCheckInterval)
			scheduler.Start(ctx)
			defer func() {
				scheduler.Stop()
				for _, st := range scheduler.Stats() {
					logger.Info("Cron job summary",
						zap.String("name", st.Name),
						zap.Int("runs", st.Runs),
						zap.Int("failures", st.Failures))
				}
			}()

			server := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.App.Port),
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting",
					zap.Int("port", cfg.App.Port),
					zap.String("env", cfg.App.Env),
					zap.String("storage", cfg.Storage.Type),
					zap.String("calendar_provider", cfg.Calendar.Provider),
					zap.String("timezone", a.location.String()))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "migrate", false, "Apply the database schema before serving")

	return cmd
}
