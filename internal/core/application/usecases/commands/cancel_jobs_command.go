package commands

import (
	"errors"
	"strings"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/errs"
	"fleetwise/internal/pkg/guard"
)

// MaxBulkCancel bounds the number of jobs one cancel request may name.
const MaxBulkCancel = 200

var ErrCancelJobsCommandIsNotConstructed = errors.New(
	"CancelJobsCommand must be created via NewCancelJobCommand or NewCancelJobsCommand constructor",
)

// CancelJobsCommand cancels one or more jobs with a mandatory reason. A bulk
// request is all-or-nothing.
type CancelJobsCommand struct {
	jobIDs  []kernel.UUID
	actorID *kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewCancelJobCommand cancels a single job.
func NewCancelJobCommand(jobID kernel.UUID, actorID *kernel.UUID, reason string) (CancelJobsCommand, error) {
	return NewCancelJobsCommand([]kernel.UUID{jobID}, actorID, reason)
}

// NewCancelJobsCommand cancels every listed job. Duplicate ids are folded.
func NewCancelJobsCommand(jobIDs []kernel.UUID, actorID *kernel.UUID, reason string) (CancelJobsCommand, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return CancelJobsCommand{}, errs.NewValueIsRequiredError("reason")
	}
	if len(jobIDs) == 0 {
		return CancelJobsCommand{}, errs.NewValueIsRequiredError("job_ids")
	}
	if actorID != nil {
		if err := actorID.Validate(); err != nil {
			return CancelJobsCommand{}, err
		}
	}

	seen := make(map[kernel.UUID]struct{}, len(jobIDs))
	unique := make([]kernel.UUID, 0, len(jobIDs))
	for _, id := range jobIDs {
		if err := id.Validate(); err != nil {
			return CancelJobsCommand{}, err
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) > MaxBulkCancel {
		return CancelJobsCommand{}, errs.NewValueIsOutOfRangeError("job_ids", len(unique), 1, MaxBulkCancel)
	}

	return CancelJobsCommand{
		jobIDs:  unique,
		actorID: actorID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelJobsCommand) JobIDs() []kernel.UUID {
	return c.jobIDs
}

func (c CancelJobsCommand) ActorID() *kernel.UUID {
	return c.actorID
}

func (c CancelJobsCommand) Reason() string {
	return c.reason
}

// Validate ensures the command was created through a constructor.
func (c CancelJobsCommand) Validate() error {
	return c.guard.Validate(ErrCancelJobsCommandIsNotConstructed)
}
