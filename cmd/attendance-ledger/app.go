package main

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/config"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/calendar"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/memory"
	"github.com/cmlabs-hris/attendance-ledger/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/attendance-ledger/internal/service/attendance"
	"go.uber.org/zap"
)

// app holds the wiring shared by the subcommands.
type app struct {
	store    attendance.LedgerStore
	holidays calendar.HolidayProvider
	location *time.Location
	db       *database.DB
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger, autoMigrate bool) (*app, error) {
	loc, err := cfg.Attendance.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	a := &app{
		holidays: newHolidayProvider(cfg.Calendar, logger),
		location: loc,
	}

	switch cfg.Storage.Type {
	case config.StorageMemory:
		logger.Warn("Using in-memory ledger store, sessions are lost on restart")
		a.store = memory.NewSessionRepository()
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), poolOptions(cfg.Database))
		if err != nil {
			return nil, fmt.Errorf("connect database: %w", err)
		}
		if autoMigrate {
			if _, err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}
		a.db = db
		a.store = postgresql.NewSessionRepository(db)
	}

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

func (a *app) newAttendanceService(cfg *config.Config, publisher attendanceService.RecordPublisher, logger *zap.Logger) *attendanceService.AttendanceServiceImpl {
	threshold, _ := cfg.Attendance.LateThresholdOffset()
	return attendanceService.NewAttendanceService(a.store, a.holidays, publisher, attendanceService.Options{
		Location:        a.location,
		LateThreshold:   threshold,
		DefaultCountry:  cfg.Calendar.Country,
		CalendarTimeout: cfg.Calendar.Timeout,
	}, logger)
}

func newHolidayProvider(c config.CalendarConfig, logger *zap.Logger) calendar.HolidayProvider {
	switch c.Provider {
	case config.CalendarProviderCalendarific:
		return holiday.NewCalendarificProvider(c.CalendarificBaseURL, c.CalendarificAPIKey, logger)
	case config.CalendarProviderFile:
		return holiday.NewFileProvider(c.File, logger)
	case config.CalendarProviderComposite:
		return holiday.NewCompositeProvider(
			holiday.NewCalendarificProvider(c.CalendarificBaseURL, c.CalendarificAPIKey, logger),
			holiday.NewFileProvider(c.File, logger),
			logger,
		)
	default:
		return holiday.NoopProvider{}
	}
}

func poolOptions(db config.DatabaseConfig) database.PoolOptions {
	return database.PoolOptions{
		MaxConns:    int32(db.MaxConns),
		MinConns:    int32(db.MinConns),
		MaxIdleTime: 5 * time.Minute,
	}
}
