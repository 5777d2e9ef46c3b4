// Package monitoring holds the hot-reloadable settings of the overdue-job
// monitor.
package monitoring

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"fleetwise/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultThresholdMinutes        = 15
	DefaultReminderIntervalMinutes = 10
	DefaultMaxReminders            = 3
	DefaultTriggerFrequencyMinutes = 1
)

// Config is the live monitor configuration. It is written by operators at
// any time and read fresh by every scheduler cycle.
type Config struct {
	// Enabled switches detection off without stopping the scheduler.
	Enabled bool `json:"enabled"`

	// ThresholdMinutes is the lead time before pickup at which a job alerts.
	ThresholdMinutes int `json:"threshold_minutes" validate:"gte=1,lte=240"`

	// ReminderIntervalMinutes is the minimum gap between two reminders.
	ReminderIntervalMinutes int `json:"reminder_interval_minutes" validate:"gte=1,lte=240"`

	// MaxReminders caps the reminder counter of a single alert.
	MaxReminders int `json:"max_reminders" validate:"gte=1,lte=20"`

	// TriggerFrequencyMinutes is the scheduler interval.
	TriggerFrequencyMinutes int `json:"trigger_frequency_minutes" validate:"gte=1,lte=60"`
}

// Update is a partial change; nil fields keep their current value.
type Update struct {
	Enabled                 *bool `json:"enabled"`
	ThresholdMinutes        *int  `json:"threshold_minutes"`
	ReminderIntervalMinutes *int  `json:"reminder_interval_minutes"`
	MaxReminders            *int  `json:"max_reminders"`
	TriggerFrequencyMinutes *int  `json:"trigger_frequency_minutes"`
}

var configValidate *validator.Validate

func init() {
	configValidate = validator.New(validator.WithRequiredStructEnabled())
	configValidate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
}

// Defaults returns the configuration used until an operator saves one.
func Defaults() Config {
	return Config{
		Enabled:                 true,
		ThresholdMinutes:        DefaultThresholdMinutes,
		ReminderIntervalMinutes: DefaultReminderIntervalMinutes,
		MaxReminders:            DefaultMaxReminders,
		TriggerFrequencyMinutes: DefaultTriggerFrequencyMinutes,
	}
}

// Validate checks every bound and reports each violated field.
func (c Config) Validate() error {
	err := configValidate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate monitoring config: %w", err)
	}

	var out []error
	for _, fe := range fieldErrs {
		out = append(out, toRangeError(fe))
	}
	return errors.Join(out...)
}

// Apply merges u into c and validates the result. c is left untouched.
func (c Config) Apply(u Update) (Config, error) {
	next := c
	if u.Enabled != nil {
		next.Enabled = *u.Enabled
	}
	if u.ThresholdMinutes != nil {
		next.ThresholdMinutes = *u.ThresholdMinutes
	}
	if u.ReminderIntervalMinutes != nil {
		next.ReminderIntervalMinutes = *u.ReminderIntervalMinutes
	}
	if u.MaxReminders != nil {
		next.MaxReminders = *u.MaxReminders
	}
	if u.TriggerFrequencyMinutes != nil {
		next.TriggerFrequencyMinutes = *u.TriggerFrequencyMinutes
	}

	if err := next.Validate(); err != nil {
		return c, err
	}
	return next, nil
}

// IsEmpty reports whether u changes nothing.
func (u Update) IsEmpty() bool {
	return u.Enabled == nil && u.ThresholdMinutes == nil && u.ReminderIntervalMinutes == nil &&
		u.MaxReminders == nil && u.TriggerFrequencyMinutes == nil
}

func (c Config) Threshold() time.Duration {
	return time.Duration(c.ThresholdMinutes) * time.Minute
}

func (c Config) ReminderInterval() time.Duration {
	return time.Duration(c.ReminderIntervalMinutes) * time.Minute
}

func (c Config) TriggerFrequency() time.Duration {
	return time.Duration(c.TriggerFrequencyMinutes) * time.Minute
}

// bounds mirrors the validate tags so range errors can name both ends.
var bounds = map[string][2]int{
	"threshold_minutes":         {1, 240},
	"reminder_interval_minutes": {1, 240},
	"max_reminders":             {1, 20},
	"trigger_frequency_minutes": {1, 60},
}

func toRangeError(fe validator.FieldError) error {
	b, ok := bounds[fe.Field()]
	if !ok {
		return errs.NewValueIsInvalidErrorWithCause(fe.Field(), fe)
	}
	return errs.NewValueIsOutOfRangeErrorWithCause(
		fe.Field(), fe.Value(), b[0], b[1],
		fmt.Errorf("failed %q constraint", fe.Tag()),
	)
}
