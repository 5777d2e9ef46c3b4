package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"fleetwise/internal/adapters/out/notification"
	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/application/usecases/queries"
	"fleetwise/internal/jobs"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// RedisAddr empty disables driver notifications.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	NotifyChannel string

	DisplayTimezone *time.Location

	MonitorCycleTimeout      time.Duration
	AlertRetention           time.Duration
	AlertPurgeSchedule       string
	TransitionMaxAttempts    int
	TransitionInitialBackoff time.Duration

	LogLevel  slog.Level
	LogFormat string
}

// LoadConfig reads .env when present, then the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return configFromEnv()
}

func configFromEnv() (Config, error) {
	loc, err := time.LoadLocation(getEnv("DISPLAY_TIMEZONE", "Asia/Singapore"))
	if err != nil {
		return Config{}, fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "fleetwise"),
		DBSslMode:          getEnv("DB_SSLMODE", "disable"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		NotifyChannel:      getEnv("NOTIFY_CHANNEL", notification.DefaultChannel),
		DisplayTimezone:    loc,
		AlertPurgeSchedule: getEnv("ALERT_PURGE_SCHEDULE", jobs.DefaultPurgeSchedule),
		LogLevel:           level,
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	parsers := []error{
		parseInt("REDIS_DB", 0, &cfg.RedisDB),
		parseInt("TRANSITION_MAX_ATTEMPTS", commands.DefaultMaxAttempts, &cfg.TransitionMaxAttempts),
		parseDuration("MONITOR_CYCLE_TIMEOUT", commands.DefaultCycleTimeout, &cfg.MonitorCycleTimeout),
		parseDuration("ALERT_RETENTION", queries.DefaultAlertRetention, &cfg.AlertRetention),
		parseDuration("TRANSITION_INITIAL_BACKOFF", commands.DefaultInitialBackoff, &cfg.TransitionInitialBackoff),
	}
	if err := errors.Join(parsers...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DSN is the libpq connection string for both gorm and the lock pool.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) RetryPolicy() commands.RetryPolicy {
	return commands.RetryPolicy{
		MaxAttempts:    c.TransitionMaxAttempts,
		InitialBackoff: c.TransitionInitialBackoff,
	}
}

// NewLogger builds the process logger: JSON when LOG_FORMAT=json, text otherwise.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(key string, def int, dst *int) error {
	*dst = def
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func parseDuration(key string, def time.Duration, dst *time.Duration) error {
	*dst = def
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", key, v)
	}
	*dst = d
	return nil
}
