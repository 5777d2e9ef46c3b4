package queries

import (
	"errors"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/guard"
)

var ErrCheckTransitionQueryIsNotConstructed = errors.New(
	"CheckTransitionQuery must be created via NewCheckTransitionQuery constructor",
)

// CheckTransitionQuery asks whether a job could move to a status now,
// without changing anything.
type CheckTransitionQuery struct {
	jobID     kernel.UUID
	requested job.Status

	guard guard.ConstructorGuard
}

func NewCheckTransitionQuery(jobID kernel.UUID, requested string) (CheckTransitionQuery, error) {
	if err := jobID.Validate(); err != nil {
		return CheckTransitionQuery{}, err
	}
	status, err := job.ParseStatus(requested)
	if err != nil {
		return CheckTransitionQuery{}, err
	}
	return CheckTransitionQuery{jobID: jobID, requested: status, guard: guard.NewConstructorGuard()}, nil
}

func (q CheckTransitionQuery) JobID() kernel.UUID {
	return q.jobID
}

func (q CheckTransitionQuery) Requested() job.Status {
	return q.requested
}

func (q CheckTransitionQuery) Validate() error {
	return q.guard.Validate(ErrCheckTransitionQueryIsNotConstructed)
}

// CheckTransitionQueryResponse mirrors what ApplyTransition would decide.
// A repeat of a non-terminal current status is allowed and changes nothing.
type CheckTransitionQueryResponse struct {
	Current     job.Status
	Requested   job.Status
	Allowed     bool
	AllowedNext []job.Status
}
