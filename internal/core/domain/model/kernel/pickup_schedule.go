package kernel

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fleetwise/internal/pkg/errs"
)

const (
	// PickupDateLayout is the stored calendar date format.
	PickupDateLayout = "2006-01-02"
)

// pickupTimeLayouts are the accepted time-of-day formats, most specific last.
var pickupTimeLayouts = []string{"15:04", "15:04:05"}

var (
	ErrPickupDateIsRequired = errs.NewValueIsRequiredError("pickup_date")
	ErrPickupTimeIsRequired = errs.NewValueIsRequiredError("pickup_time")
	ErrLocationIsRequired   = errors.New("display timezone is required to resolve a pickup schedule")
)

// PickupSchedule is the booked pickup moment as stored: a local calendar
// date and a time-of-day, both interpreted in the configured display
// timezone. It is converted to an absolute instant exactly once, through
// Instant, so deadline arithmetic never mixes local and UTC values.
//
// Schedules restored from storage are not validated up front; a malformed
// value surfaces as an error from Instant for that job alone.
type PickupSchedule struct {
	date  string
	clock string
}

// NewPickupSchedule validates and builds a schedule from its date
// ("2006-01-02") and time-of-day ("15:04" or "15:04:05").
func NewPickupSchedule(date, clock string) (PickupSchedule, error) {
	s := RestorePickupSchedule(date, clock)
	if s.date == "" {
		return PickupSchedule{}, ErrPickupDateIsRequired
	}
	if s.clock == "" {
		return PickupSchedule{}, ErrPickupTimeIsRequired
	}
	if _, err := s.Instant(time.UTC); err != nil {
		return PickupSchedule{}, err
	}
	return s, nil
}

// RestorePickupSchedule rebuilds a schedule from persisted columns without
// validating it.
func RestorePickupSchedule(date, clock string) PickupSchedule {
	return PickupSchedule{
		date:  strings.TrimSpace(date),
		clock: strings.TrimSpace(clock),
	}
}

// Date returns the stored calendar date.
func (s PickupSchedule) Date() string {
	return s.date
}

// Time returns the stored time-of-day.
func (s PickupSchedule) Time() string {
	return s.clock
}

// IsSet reports whether both the date and the time-of-day are present.
func (s PickupSchedule) IsSet() bool {
	return s.date != "" && s.clock != ""
}

// Instant resolves the schedule in loc and returns the pickup instant in UTC.
// Wall-clock times that fall into a DST gap or overlap are normalised the way
// time.Date does.
func (s PickupSchedule) Instant(loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, ErrLocationIsRequired
	}
	if !s.IsSet() {
		return time.Time{}, errs.NewValueIsRequiredError("pickup schedule")
	}

	day, err := time.Parse(PickupDateLayout, s.date)
	if err != nil {
		return time.Time{}, errs.NewValueIsInvalidErrorWithCause(
			"pickup_date",
			fmt.Errorf("%q is not a %s date", s.date, PickupDateLayout),
		)
	}

	clock, err := parseClock(s.clock)
	if err != nil {
		return time.Time{}, err
	}

	local := time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc)
	return local.UTC(), nil
}

func parseClock(value string) (time.Time, error) {
	for _, layout := range pickupTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errs.NewValueIsInvalidErrorWithCause(
		"pickup_time",
		fmt.Errorf("%q is not a HH:MM time", value),
	)
}
