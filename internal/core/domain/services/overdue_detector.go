package services

import (
	"errors"
	"math"
	"time"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
)

// ErrLocationIsRequired is returned when the detector has no display timezone.
var ErrLocationIsRequired = errors.New("display timezone is required")

// DueJob is a job whose alert window is open.
type DueJob struct {
	Job      *job.Job
	Pickup   time.Time
	Deadline time.Time
}

// ScheduleFailure records a job whose stored pickup could not be resolved.
type ScheduleFailure struct {
	JobID kernel.UUID
	Err   error
}

// Detection is the result of one scan.
type Detection struct {
	Due      []DueJob
	Failures []ScheduleFailure
}

// OverdueDetector finds confirmed jobs approaching pickup without having
// started.
//
// A job's alert deadline is its pickup instant minus the configured
// threshold. The window is the half-open interval [deadline, pickup): it
// opens at the deadline and closes the moment pickup is reached, so a job
// whose pickup has already passed is not reported even if it never started.
//
// Stored pickups are local date and time pairs in the display timezone and
// are converted to an absolute instant exactly once per job. Every job is
// evaluated independently; one malformed schedule becomes a ScheduleFailure
// and does not affect the rest of the scan.
type OverdueDetector struct {
	location *time.Location
}

// NewOverdueDetector creates a detector resolving pickups in loc.
func NewOverdueDetector(loc *time.Location) (OverdueDetector, error) {
	if loc == nil {
		return OverdueDetector{}, ErrLocationIsRequired
	}
	return OverdueDetector{location: loc}, nil
}

// Location returns the display timezone.
func (d OverdueDetector) Location() *time.Location {
	return d.location
}

// Detect scans candidates at now. Jobs that are not CONFIRMED, are
// soft-deleted or have no pickup schedule are ignored silently.
func (d OverdueDetector) Detect(candidates []*job.Job, threshold time.Duration, now time.Time) Detection {
	var result Detection
	for _, j := range candidates {
		if j == nil || j.Status() != job.Confirmed || j.IsDeleted() || !j.Pickup().IsSet() {
			continue
		}

		pickup, err := j.Pickup().Instant(d.location)
		if err != nil {
			result.Failures = append(result.Failures, ScheduleFailure{JobID: j.ID(), Err: err})
			continue
		}

		deadline := pickup.Add(-threshold)
		if InWindow(deadline, pickup, now) {
			result.Due = append(result.Due, DueJob{Job: j, Pickup: pickup, Deadline: deadline})
		}
	}
	return result
}

// PickupInstant resolves a stored schedule in the display timezone.
func (d OverdueDetector) PickupInstant(s kernel.PickupSchedule) (time.Time, error) {
	return s.Instant(d.location)
}

// InWindow reports deadline <= now < pickup.
func InWindow(deadline, pickup, now time.Time) bool {
	return !now.Before(deadline) && now.Before(pickup)
}

// ElapsedMinutes returns whole minutes from pickup to now, rounded down.
// It is negative before pickup.
func ElapsedMinutes(pickup, now time.Time) int {
	return int(math.Floor(now.Sub(pickup).Minutes()))
}
