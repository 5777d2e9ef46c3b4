package ports

import (
	"context"
	"errors"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
)

// ErrJobLocked is returned by the locking reads when another transaction
// holds the job row. Callers may retry.
var ErrJobLocked = errors.New("job row is locked by another transaction")

// JobRepository persists Job aggregates. Soft-deleted jobs are invisible to
// every method except Add.
type JobRepository interface {
	// Add persists a new job.
	Add(ctx context.Context, aggregate *job.Job) error

	// Get reads a job without locking it.
	// Returns errs.ErrObjectNotFound if the job does not exist.
	Get(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetForUpdate reads a job and locks its row until the transaction ends.
	// It never waits: a held lock surfaces as ErrJobLocked.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error)

	// GetManyForUpdate locks every listed job in id order.
	// Returns errs.ErrObjectNotFound naming the first missing id.
	GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*job.Job, error)

	// Update writes the status and the start/end markers.
	Update(ctx context.Context, aggregate *job.Job) error

	// ListMonitorCandidates returns CONFIRMED jobs with a pickup schedule,
	// ordered by pickup.
	ListMonitorCandidates(ctx context.Context) ([]*job.Job, error)
}
