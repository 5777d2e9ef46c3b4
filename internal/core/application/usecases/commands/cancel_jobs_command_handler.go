package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/clock"
)

// CanceledJob reports one canceled job.
type CanceledJob struct {
	JobID          kernel.UUID
	PreviousStatus job.Status
	AuditID        kernel.UUID
	AlertCleared   bool

	driverID *kernel.UUID
}

// CancelJobsCommandHandler moves jobs to CANCELED. Every listed job is
// locked, canceled, audited and has its active alert cleared inside one
// transaction; an unknown or terminal job aborts the whole request.
type CancelJobsCommandHandler struct {
	uowFactory TransitionUoWFactory
	clock      clock.Clock
	notifier   ports.Notifier
	logger     *slog.Logger
	retry      RetryPolicy
}

func NewCancelJobsCommandHandler(
	uowFactory TransitionUoWFactory,
	clk clock.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
	retry RetryPolicy,
) CancelJobsCommandHandler {
	return CancelJobsCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		notifier:   notifier,
		logger:     loggerOrDefault(logger).With("component", "cancel_jobs"),
		retry:      retry,
	}
}

// Handle processes the cancel command.
func (h CancelJobsCommandHandler) Handle(ctx context.Context, command CancelJobsCommand) ([]CanceledJob, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	var canceled []CanceledJob
	err := retryOnLock(ctx, h.retry, func() error {
		var attemptErr error
		canceled, attemptErr = h.attempt(ctx, command)
		return attemptErr
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "jobs canceled", "count", len(canceled), "reason", command.Reason())

	for _, c := range canceled {
		if c.driverID != nil {
			notifyDriver(ctx, h.notifier, h.logger,
				statusChangedNotification(*c.driverID, c.JobID, c.PreviousStatus, job.Canceled))
		}
	}
	return canceled, nil
}

func (h CancelJobsCommandHandler) attempt(ctx context.Context, command CancelJobsCommand) ([]CanceledJob, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()
	auditRepo := uow.AuditRepository()
	alertRepo := uow.AlertRepository()

	jobs, err := jobRepo.GetManyForUpdate(ctx, command.JobIDs())
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	canceled := make([]CanceledJob, 0, len(jobs))
	for _, aggregate := range jobs {
		outcome, err := aggregate.Cancel()
		if err != nil {
			return nil, fmt.Errorf("job %s: %w", aggregate.ID(), translateTransitionError(err))
		}

		if err := jobRepo.Update(ctx, aggregate); err != nil {
			return nil, fmt.Errorf("update job %s: %w", aggregate.ID(), err)
		}

		record, err := audit.NewRecord(aggregate.ID(), outcome.From, outcome.To, command.ActorID(), command.Reason(), now)
		if err != nil {
			return nil, err
		}
		if err := auditRepo.Append(ctx, record); err != nil {
			return nil, fmt.Errorf("append audit record: %w", err)
		}

		cleared, err := clearActiveAlert(ctx, alertRepo, aggregate.ID(), now)
		if err != nil {
			return nil, err
		}

		canceled = append(canceled, CanceledJob{
			JobID:          aggregate.ID(),
			PreviousStatus: outcome.From,
			AuditID:        record.ID(),
			AlertCleared:   cleared,
			driverID:       aggregate.DriverID(),
		})
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, err
	}
	return canceled, nil
}
