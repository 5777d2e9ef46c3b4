package monitoring_test

import (
	"testing"
	"time"

	"fleetwise/internal/core/domain/model/monitoring"
	"fleetwise/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDefaults(t *testing.T) {
	cfg := monitoring.Defaults()

	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Threshold())
	assert.Equal(t, 10*time.Minute, cfg.ReminderInterval())
	assert.Equal(t, 3, cfg.MaxReminders)
	assert.Equal(t, time.Minute, cfg.TriggerFrequency())
}

func TestConfig_Validate(t *testing.T) {
	t.Run("should accept the bounds themselves", func(t *testing.T) {
		low := monitoring.Config{ThresholdMinutes: 1, ReminderIntervalMinutes: 1, MaxReminders: 1, TriggerFrequencyMinutes: 1}
		high := monitoring.Config{ThresholdMinutes: 240, ReminderIntervalMinutes: 240, MaxReminders: 20, TriggerFrequencyMinutes: 60}

		require.NoError(t, low.Validate())
		require.NoError(t, high.Validate())
	})

	t.Run("should name every field out of range", func(t *testing.T) {
		cfg := monitoring.Config{ThresholdMinutes: 0, ReminderIntervalMinutes: 241, MaxReminders: 21, TriggerFrequencyMinutes: 61}

		err := cfg.Validate()

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		for _, field := range []string{"threshold_minutes", "reminder_interval_minutes", "max_reminders", "trigger_frequency_minutes"} {
			assert.Contains(t, err.Error(), field)
		}
		assert.Contains(t, err.Error(), "max value is 60")
	})
}

func TestConfig_Apply(t *testing.T) {
	base := monitoring.Defaults()

	t.Run("should keep omitted fields", func(t *testing.T) {
		next, err := base.Apply(monitoring.Update{ThresholdMinutes: ptr(30), Enabled: ptr(false)})

		require.NoError(t, err)
		assert.Equal(t, 30, next.ThresholdMinutes)
		assert.False(t, next.Enabled)
		assert.Equal(t, base.ReminderIntervalMinutes, next.ReminderIntervalMinutes)
		assert.Equal(t, base.MaxReminders, next.MaxReminders)
		assert.Equal(t, 15, base.ThresholdMinutes)
	})

	t.Run("should reject an invalid merge and return the original", func(t *testing.T) {
		next, err := base.Apply(monitoring.Update{MaxReminders: ptr(0)})

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, base, next)
	})

	t.Run("should detect empty updates", func(t *testing.T) {
		assert.True(t, monitoring.Update{}.IsEmpty())
		assert.False(t, monitoring.Update{TriggerFrequencyMinutes: ptr(5)}.IsEmpty())
	})
}
