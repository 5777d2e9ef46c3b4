package job

import (
	"errors"
	"fmt"
	"time"

	"fleetwise/internal/core/domain/model/kernel"
)

var (
	// ErrJobIsNotConstructed is returned when a Job was not built through
	// NewJob or RestoreJob.
	ErrJobIsNotConstructed = errors.New("Job must be created via NewJob or RestoreJob")

	// ErrTransitionNotAllowed is returned when the graph has no edge for the move.
	ErrTransitionNotAllowed = errors.New("status transition is not allowed")

	// ErrStatusIsTerminal is returned when the job can no longer change status.
	ErrStatusIsTerminal = errors.New("job status is terminal")
)

// Job is the aggregate root for a single trip. Its status changes only
// through Transition and Cancel, which apply the state machine and maintain
// the start and end markers.
type Job struct {
	id       kernel.UUID
	status   Status
	pickup   kernel.PickupSchedule
	driverID *kernel.UUID

	startedAt *time.Time
	endedAt   *time.Time
	deleted   bool

	isConstructed bool
}

// TransitionOutcome describes what Transition or Cancel did to a job.
type TransitionOutcome struct {
	From    Status
	To      Status
	Changed bool
}

// HasStarted reports whether the job moved into a status that retires its
// overdue alert.
func (o TransitionOutcome) HasStarted() bool {
	return o.Changed && o.To.HasStarted()
}

// NewJob creates a job in the NEW status.
func NewJob(id kernel.UUID, pickup kernel.PickupSchedule, driverID *kernel.UUID) (*Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Job{
		id:            id,
		status:        New,
		pickup:        pickup,
		driverID:      driverID,
		isConstructed: true,
	}, nil
}

// RestoreJob rebuilds a job from storage. The pickup schedule is not
// validated here; see kernel.PickupSchedule.
func RestoreJob(
	id kernel.UUID,
	status Status,
	pickup kernel.PickupSchedule,
	driverID *kernel.UUID,
	startedAt, endedAt *time.Time,
	deleted bool,
) *Job {
	return &Job{
		id:            id,
		status:        status,
		pickup:        pickup,
		driverID:      driverID,
		startedAt:     startedAt,
		endedAt:       endedAt,
		deleted:       deleted,
		isConstructed: true,
	}
}

// Validate ensures the job was built through one of the constructors.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// ID returns the job identifier.
func (j *Job) ID() kernel.UUID {
	return j.id
}

// Status returns the current status.
func (j *Job) Status() Status {
	return j.status
}

// Pickup returns the scheduled pickup as stored.
func (j *Job) Pickup() kernel.PickupSchedule {
	return j.pickup
}

// DriverID returns the assigned driver, or nil.
func (j *Job) DriverID() *kernel.UUID {
	return j.driverID
}

// StartedAt returns when the job first went en route, or nil.
func (j *Job) StartedAt() *time.Time {
	return j.startedAt
}

// EndedAt returns when the job first completed or was stood down, or nil.
func (j *Job) EndedAt() *time.Time {
	return j.endedAt
}

func (j *Job) IsDeleted() bool {
	return j.deleted
}

// IsEqual compares jobs by identity.
func (j *Job) IsEqual(other *Job) bool {
	return other != nil && j.id.IsEqual(other.id)
}

// Transition moves the job to next.
//
// A terminal job rejects every request, including a repeat of its own
// status. Otherwise requesting the current status returns an unchanged
// outcome and no error, so repeated confirmations from flaky clients are
// harmless. Any other move must be an edge of the graph. The first move into
// an en-route status stamps the start marker and the first move into a
// completion status stamps the end marker; neither is overwritten later.
func (j *Job) Transition(next Status, now time.Time) (TransitionOutcome, error) {
	if err := next.Validate(); err != nil {
		return TransitionOutcome{}, err
	}

	if j.status.IsTerminal() {
		return TransitionOutcome{}, fmt.Errorf("%w: %s is terminal", ErrStatusIsTerminal, j.status)
	}

	outcome := TransitionOutcome{From: j.status, To: next}
	if next == j.status {
		return outcome, nil
	}

	if err := j.status.ValidateTransition(next); err != nil {
		return TransitionOutcome{}, err
	}

	j.status = next
	j.stamp(next, now)
	outcome.Changed = true
	return outcome, nil
}

// Cancel moves any non-terminal job to CANCELED.
func (j *Job) Cancel() (TransitionOutcome, error) {
	if j.status.IsTerminal() {
		return TransitionOutcome{}, fmt.Errorf("%w: %s is terminal", ErrStatusIsTerminal, j.status)
	}

	outcome := TransitionOutcome{From: j.status, To: Canceled, Changed: true}
	j.status = Canceled
	return outcome, nil
}

func (j *Job) stamp(next Status, now time.Time) {
	at := now.UTC()
	if next.MarksStart() && j.startedAt == nil {
		j.startedAt = &at
	}
	if next.MarksEnd() && j.endedAt == nil {
		j.endedAt = &at
	}
}
