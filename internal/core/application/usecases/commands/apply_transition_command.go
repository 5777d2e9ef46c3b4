package commands

import (
	"errors"
	"fmt"
	"strings"

	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/guard"
)

var ErrApplyTransitionCommandIsNotConstructed = errors.New(
	"ApplyTransitionCommand must be created via NewApplyTransitionCommand constructor",
)

// ApplyTransitionCommand requests that a job move to a new status.
//
// The requested status is parsed and checked against the graph before any
// lock is taken: unknown names fail with errs.ErrValueIsInvalid and statuses
// no edge leads to (NEW, CANCELED) fail with ErrInvalidTransition.
//
// Example:
//
//	cmd, err := NewApplyTransitionCommand(jobID, "EN_ROUTE", &driverID, "")
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type ApplyTransitionCommand struct {
	jobID     kernel.UUID
	requested job.Status
	actorID   *kernel.UUID
	note      string

	guard guard.ConstructorGuard
}

// NewApplyTransitionCommand validates a transition request. actorID is nil
// for system-driven changes; note is optional.
func NewApplyTransitionCommand(
	jobID kernel.UUID,
	requested string,
	actorID *kernel.UUID,
	note string,
) (ApplyTransitionCommand, error) {
	if err := jobID.Validate(); err != nil {
		return ApplyTransitionCommand{}, err
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return ApplyTransitionCommand{}, err
		}
	}

	status, err := job.ParseStatus(requested)
	if err != nil {
		return ApplyTransitionCommand{}, err
	}
	if !status.IsReachable() {
		return ApplyTransitionCommand{}, fmt.Errorf("%w: no job can be moved to %s", ErrInvalidTransition, status)
	}

	note = strings.TrimSpace(note)
	if len([]rune(note)) > audit.MaxReasonLength {
		note = string([]rune(note)[:audit.MaxReasonLength])
	}

	return ApplyTransitionCommand{
		jobID:     jobID,
		requested: status,
		actorID:   actorID,
		note:      note,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyTransitionCommand) JobID() kernel.UUID {
	return c.jobID
}

func (c ApplyTransitionCommand) Requested() job.Status {
	return c.requested
}

func (c ApplyTransitionCommand) ActorID() *kernel.UUID {
	return c.actorID
}

func (c ApplyTransitionCommand) Note() string {
	return c.note
}

// Validate ensures the command was created through the constructor.
func (c ApplyTransitionCommand) Validate() error {
	return c.guard.Validate(ErrApplyTransitionCommandIsNotConstructed)
}
