package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	CalendarProviderCalendarific = "calendarific"
	CalendarProviderFile         = "file"
	CalendarProviderComposite    = "composite"
	CalendarProviderNone         = "none"
)

type Config struct {
	App        AppConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Attendance AttendanceConfig
	Calendar   CalendarConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	LogFile            string
	CORSAllowedOrigins []string
}

type StorageConfig struct {
	Type string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type AttendanceConfig struct {
	Timezone                  string
	LateThreshold             string // HH:MM local time
	StaleSessionCheckInterval time.Duration
}

type CalendarConfig struct {
	Provider            string
	Country             string
	CalendarificAPIKey  string
	CalendarificBaseURL string
	File                string
	Timeout             time.Duration
}

var defaults = map[string]any{
	"APP_PORT":                     8080,
	"APP_ENV":                      "development",
	"LOG_LEVEL":                    "info",
	"LOG_FILE":                     "",
	"CORS_ALLOWED_ORIGINS":         "http://localhost:3000",
	"STORAGE_TYPE":                 StoragePostgres,
	"DB_HOST":                      "localhost",
	"DB_PORT":                      5432,
	"DB_USER":                      "postgres",
	"DB_PASSWORD":                  "",
	"DB_NAME":                      "attendance_ledger",
	"DB_SSL_MODE":                  "disable",
	"DB_MAX_CONNS":                 25,
	"DB_MIN_CONNS":                 2,
	"JWT_SECRET_KEY":               "",
	"JWT_ACCESS_EXPIRATION_TIME":   "1h",
	"ATTENDANCE_TIMEZONE":          "Asia/Kolkata",
	"ATTENDANCE_LATE_THRESHOLD":    "09:30",
	"CALENDAR_PROVIDER":            CalendarProviderCalendarific,
	"CALENDAR_COUNTRY":             "IN",
	"CALENDARIFIC_API_KEY":         "",
	"CALENDARIFIC_BASE_URL":        "https://calendarific.com/api/v2",
	"CALENDAR_FILE":                "",
	"CALENDAR_TIMEOUT":             "5s",
	"STALE_SESSION_CHECK_INTERVAL": "1h",
}

// Load reads an optional .env file, then resolves every key from the
// environment, the optional YAML file at configPath, and the defaults.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	config := FromViper(v)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FromViper maps resolved keys onto a Config without validating it.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Port:               v.GetInt("APP_PORT"),
			Env:                v.GetString("APP_ENV"),
			LogLevel:           v.GetString("LOG_LEVEL"),
			LogFile:            v.GetString("LOG_FILE"),
			CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Storage: StorageConfig{
			Type: strings.ToLower(v.GetString("STORAGE_TYPE")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
			MaxConns: v.GetInt("DB_MAX_CONNS"),
			MinConns: v.GetInt("DB_MIN_CONNS"),
		},
		JWT: JWTConfig{
			Secret:           v.GetString("JWT_SECRET_KEY"),
			AccessExpiration: v.GetString("JWT_ACCESS_EXPIRATION_TIME"),
		},
		Attendance: AttendanceConfig{
			Timezone:                  v.GetString("ATTENDANCE_TIMEZONE"),
			LateThreshold:             v.GetString("ATTENDANCE_LATE_THRESHOLD"),
			StaleSessionCheckInterval: v.GetDuration("STALE_SESSION_CHECK_INTERVAL"),
		},
		Calendar: CalendarConfig{
			Provider:            strings.ToLower(v.GetString("CALENDAR_PROVIDER")),
			Country:             strings.ToUpper(v.GetString("CALENDAR_COUNTRY")),
			CalendarificAPIKey:  v.GetString("CALENDARIFIC_API_KEY"),
			CalendarificBaseURL: v.GetString("CALENDARIFIC_BASE_URL"),
			File:                v.GetString("CALENDAR_FILE"),
			Timeout:             v.GetDuration("CALENDAR_TIMEOUT"),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if d, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil || d <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be a positive duration")
	}

	switch c.Storage.Type {
	case StorageMemory:
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
		if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("DB_MIN_CONNS and DB_MAX_CONNS must satisfy 0 <= min <= max, max >= 1")
		}
	default:
		return fmt.Errorf("STORAGE_TYPE must be 'postgres' or 'memory', got '%s'", c.Storage.Type)
	}

	if _, err := c.Attendance.Location(); err != nil {
		return fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
	}
	if _, err := c.Attendance.LateThresholdOffset(); err != nil {
		return err
	}
	if c.Attendance.StaleSessionCheckInterval <= 0 {
		return fmt.Errorf("STALE_SESSION_CHECK_INTERVAL must be positive")
	}

	if !validator.IsCountryCode(c.Calendar.Country) {
		return fmt.Errorf("CALENDAR_COUNTRY must be an ISO 3166-1 alpha-2 code")
	}
	if c.Calendar.Timeout <= 0 {
		return fmt.Errorf("CALENDAR_TIMEOUT must be positive")
	}

	switch c.Calendar.Provider {
	case CalendarProviderNone:
	case CalendarProviderCalendarific:
		if c.Calendar.CalendarificAPIKey == "" {
			return fmt.Errorf("CALENDARIFIC_API_KEY is required for calendarific provider")
		}
	case CalendarProviderFile:
		if c.Calendar.File == "" {
			return fmt.Errorf("CALENDAR_FILE is required for file provider")
		}
	case CalendarProviderComposite:
		if c.Calendar.CalendarificAPIKey == "" {
			return fmt.Errorf("CALENDARIFIC_API_KEY is required for composite provider")
		}
		if c.Calendar.File == "" {
			return fmt.Errorf("CALENDAR_FILE is required for composite provider")
		}
	default:
		return fmt.Errorf("CALENDAR_PROVIDER must be one of calendarific, file, composite, none, got '%s'", c.Calendar.Provider)
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

func (a AttendanceConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.Timezone)
}

// LateThresholdOffset returns the threshold as an offset from local midnight.
func (a AttendanceConfig) LateThresholdOffset() (time.Duration, error) {
	t, ok := validator.IsValidClockTime(a.LateThreshold)
	if !ok {
		return 0, fmt.Errorf("ATTENDANCE_LATE_THRESHOLD must be HH:MM, got '%s'", a.LateThreshold)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func splitList(value string) []string {
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
