package cmd

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"HTTP_PORT", "DB_HOST", "DISPLAY_TIMEZONE", "MONITOR_CYCLE_TIMEOUT", "ALERT_RETENTION",
		"ALERT_PURGE_SCHEDULE", "TRANSITION_MAX_ATTEMPTS", "TRANSITION_INITIAL_BACKOFF",
		"NOTIFY_CHANNEL", "REDIS_ADDR", "REDIS_DB", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := configFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "Asia/Singapore", cfg.DisplayTimezone.String())
	assert.Equal(t, 30*time.Second, cfg.MonitorCycleTimeout)
	assert.Equal(t, 24*time.Hour, cfg.AlertRetention)
	assert.Equal(t, "0 0 2 * * *", cfg.AlertPurgeSchedule)
	assert.Equal(t, 4, cfg.RetryPolicy().MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.RetryPolicy().InitialBackoff)
	assert.Equal(t, "fleetwise:notifications", cfg.NotifyChannel)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "fleet")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "dispatch")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_SSLMODE", "require")
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("TRANSITION_MAX_ATTEMPTS", "6")
	t.Setenv("MONITOR_CYCLE_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := configFromEnv()

	require.NoError(t, err)
	assert.Equal(t, "host=db port=6432 user=fleet password=secret dbname=dispatch sslmode=require", cfg.DSN())
	assert.Equal(t, time.UTC, cfg.DisplayTimezone)
	assert.Equal(t, 6, cfg.TransitionMaxAttempts)
	assert.Equal(t, 45*time.Second, cfg.MonitorCycleTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfigFromEnv_RejectsBadValues(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "UTC")
	t.Setenv("REDIS_DB", "one")
	t.Setenv("ALERT_RETENTION", "-1h")

	_, err := configFromEnv()

	require.Error(t, err)
	assert.ErrorContains(t, err, "REDIS_DB")
	assert.ErrorContains(t, err, "ALERT_RETENTION")
}

func TestConfigFromEnv_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("DISPLAY_TIMEZONE", "Mars/Olympus")

	_, err := configFromEnv()

	assert.ErrorContains(t, err, "DISPLAY_TIMEZONE")
}
