package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/clock"
	"fleetwise/internal/pkg/errs"
	"fleetwise/internal/telemetry"
)

// ApplyTransitionResult reports what a transition request did.
type ApplyTransitionResult struct {
	JobID          kernel.UUID
	PreviousStatus job.Status
	NewStatus      job.Status

	// AuditID is nil when nothing was written: a repeat without a note.
	AuditID *kernel.UUID

	// Changed is false for repeats of the current status.
	Changed bool

	// AlertCleared is true when the job's active alert was retired.
	AlertCleared bool
}

// ApplyTransitionCommandHandler applies one status transition as a single
// unit: lock the job row, validate the move under the lock, write the new
// status with its markers, append the audit record and clear the job's
// active alert when the job has started.
//
// The row lock never waits. On contention the whole attempt is rolled back
// and retried with exponential backoff; once the attempts are used up the
// caller gets ErrJobBusy. The driver notification is sent after commit and
// cannot undo it.
//
// Example:
//
//	handler := NewApplyTransitionCommandHandler(uowFactory, clock.System{}, notifier, logger, DefaultRetryPolicy())
//	result, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrJobBusy):
//	    // retry later
//	case errors.Is(err, ErrInvalidTransition):
//	    // tell the caller why
//	}
type ApplyTransitionCommandHandler struct {
	uowFactory TransitionUoWFactory
	clock      clock.Clock
	notifier   ports.Notifier
	logger     *slog.Logger
	retry      RetryPolicy
}

// NewApplyTransitionCommandHandler creates the handler. notifier may be nil.
func NewApplyTransitionCommandHandler(
	uowFactory TransitionUoWFactory,
	clk clock.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
	retry RetryPolicy,
) ApplyTransitionCommandHandler {
	return ApplyTransitionCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		notifier:   notifier,
		logger:     loggerOrDefault(logger).With("component", "apply_transition"),
		retry:      retry,
	}
}

// Handle processes the transition command.
func (h ApplyTransitionCommandHandler) Handle(ctx context.Context, command ApplyTransitionCommand) (ApplyTransitionResult, error) {
	if err := command.Validate(); err != nil {
		return ApplyTransitionResult{}, err
	}

	var (
		result   ApplyTransitionResult
		driverID *kernel.UUID
	)
	err := retryOnLock(ctx, h.retry, func() error {
		var attemptErr error
		result, driverID, attemptErr = h.attempt(ctx, command)
		return attemptErr
	})
	h.count(result, err)
	if err != nil {
		return ApplyTransitionResult{}, err
	}

	h.logger.InfoContext(ctx, "job status transition handled",
		"job_id", command.JobID().String(),
		"from", result.PreviousStatus.String(),
		"to", result.NewStatus.String(),
		"changed", result.Changed,
		"alert_cleared", result.AlertCleared,
	)

	if result.Changed && driverID != nil {
		notifyDriver(ctx, h.notifier, h.logger,
			statusChangedNotification(*driverID, result.JobID, result.PreviousStatus, result.NewStatus))
	}

	return result, nil
}

func (h ApplyTransitionCommandHandler) attempt(
	ctx context.Context,
	command ApplyTransitionCommand,
) (ApplyTransitionResult, *kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ApplyTransitionResult{}, nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	jobRepo := uow.JobRepository()

	aggregate, err := jobRepo.GetForUpdate(ctx, command.JobID())
	if err != nil {
		return ApplyTransitionResult{}, nil, err
	}

	now := h.clock.Now()
	outcome, err := aggregate.Transition(command.Requested(), now)
	if err != nil {
		return ApplyTransitionResult{}, nil, translateTransitionError(err)
	}

	result := ApplyTransitionResult{
		JobID:          aggregate.ID(),
		PreviousStatus: outcome.From,
		NewStatus:      outcome.To,
		Changed:        outcome.Changed,
	}

	if !outcome.Changed && command.Note() == "" {
		return result, aggregate.DriverID(), nil
	}

	if outcome.Changed {
		if err := jobRepo.Update(ctx, aggregate); err != nil {
			return ApplyTransitionResult{}, nil, fmt.Errorf("update job: %w", err)
		}
	}

	record, err := audit.NewRecord(aggregate.ID(), outcome.From, outcome.To, command.ActorID(), command.Note(), now)
	if err != nil {
		return ApplyTransitionResult{}, nil, err
	}
	if err := uow.AuditRepository().Append(ctx, record); err != nil {
		return ApplyTransitionResult{}, nil, fmt.Errorf("append audit record: %w", err)
	}
	auditID := record.ID()
	result.AuditID = &auditID

	if outcome.HasStarted() {
		cleared, err := clearActiveAlert(ctx, uow.AlertRepository(), aggregate.ID(), now)
		if err != nil {
			return ApplyTransitionResult{}, nil, err
		}
		result.AlertCleared = cleared
	}

	if err := uow.Commit(ctx); err != nil {
		return ApplyTransitionResult{}, nil, err
	}

	return result, aggregate.DriverID(), nil
}

func (h ApplyTransitionCommandHandler) count(result ApplyTransitionResult, err error) {
	label := telemetry.ResultApplied
	switch {
	case errors.Is(err, ErrJobBusy):
		label = telemetry.ResultBusy
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, errs.ErrObjectNotFound):
		label = telemetry.ResultRejected
	case err != nil:
		label = telemetry.ResultFailed
	case !result.Changed:
		label = telemetry.ResultRepeated
	}
	telemetry.Transitions.WithLabelValues(label).Inc()
}

// translateTransitionError maps state machine refusals onto the command
// error taxonomy.
func translateTransitionError(err error) error {
	switch {
	case errors.Is(err, job.ErrStatusIsTerminal):
		return fmt.Errorf("%w: %w", ErrJobIsTerminal, err)
	case errors.Is(err, job.ErrTransitionNotAllowed):
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	default:
		return err
	}
}
