package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/domain/model/monitoring"
	"fleetwise/internal/core/domain/services"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/clock"
	"fleetwise/internal/pkg/guard"
	"fleetwise/internal/telemetry"
)

// MonitorLockKey is the advisory lock key held for the duration of a cycle.
const MonitorLockKey int64 = 0x666c6d6f6e // "flmon"

// DefaultCycleTimeout bounds a monitor cycle when none is configured.
const DefaultCycleTimeout = 30 * time.Second

var ErrRunMonitorCycleCommandIsNotConstructed = errors.New(
	"RunMonitorCycleCommand must be created via NewRunMonitorCycleCommand constructor",
)

// RunMonitorCycleCommand runs one overdue-job scan.
type RunMonitorCycleCommand struct {
	guard guard.ConstructorGuard
}

func NewRunMonitorCycleCommand() RunMonitorCycleCommand {
	return RunMonitorCycleCommand{guard: guard.NewConstructorGuard()}
}

func (c RunMonitorCycleCommand) Validate() error {
	return c.guard.Validate(ErrRunMonitorCycleCommandIsNotConstructed)
}

// JobAction is what a cycle did for one job.
type JobAction string

const (
	JobAlertCreated  JobAction = "created"
	JobAlertReminded JobAction = "reminded"
	JobAlertSkipped  JobAction = "skipped"
	JobFailed        JobAction = "failed"
	JobAbandoned     JobAction = "abandoned"
)

// JobOutcome records the result for one job in a cycle.
type JobOutcome struct {
	JobID         kernel.UUID
	Action        JobAction
	AlertID       *kernel.UUID
	ReminderCount int
	Err           error
}

// CycleSkip explains why a cycle did not scan.
type CycleSkip string

const (
	CycleNotSkipped CycleSkip = ""
	CycleDisabled   CycleSkip = "disabled"
	CycleLocked     CycleSkip = "locked_by_other_instance"
)

// CycleResult is the batch result of one cycle.
type CycleResult struct {
	StartedAt time.Time
	Duration  time.Duration
	Config    monitoring.Config
	Skipped   CycleSkip
	TimedOut  bool
	Outcomes  []JobOutcome
}

// Count returns how many jobs ended with action.
func (r CycleResult) Count(action JobAction) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == action {
			n++
		}
	}
	return n
}

// RunMonitorCycleCommandHandler drives one monitor cycle: read the live
// configuration, detect due jobs, then raise or escalate their alerts one
// job at a time, each in its own transaction.
//
// Each due job is re-read under its row lock first; a job that is locked
// or no longer CONFIRMED is skipped. A job that already has an active alert
// only gets another reminder when it is below the reminder cap and the
// reminder interval has elapsed. Per-job
// failures become JobFailed outcomes and the scan moves on. When the cycle
// deadline passes, the remaining jobs are recorded as JobAbandoned and left
// for the next tick.
type RunMonitorCycleCommandHandler struct {
	uowFactory MonitorUoWFactory
	detector   services.OverdueDetector
	clock      clock.Clock
	notifier   ports.Notifier
	locker     ports.CycleLocker
	timeout    time.Duration
	logger     *slog.Logger
}

// NewRunMonitorCycleCommandHandler creates the handler. notifier and locker
// may be nil; without a locker every instance scans.
func NewRunMonitorCycleCommandHandler(
	uowFactory MonitorUoWFactory,
	detector services.OverdueDetector,
	clk clock.Clock,
	notifier ports.Notifier,
	locker ports.CycleLocker,
	timeout time.Duration,
	logger *slog.Logger,
) RunMonitorCycleCommandHandler {
	if timeout <= 0 {
		timeout = DefaultCycleTimeout
	}
	return RunMonitorCycleCommandHandler{
		uowFactory: uowFactory,
		detector:   detector,
		clock:      clk,
		notifier:   notifier,
		locker:     locker,
		timeout:    timeout,
		logger:     loggerOrDefault(logger).With("component", "monitor_cycle"),
	}
}

// Handle runs the cycle. An error means the cycle could not start at all
// (configuration or candidate read failed); per-job problems are reported
// in the result instead.
func (h RunMonitorCycleCommandHandler) Handle(ctx context.Context, command RunMonitorCycleCommand) (CycleResult, error) {
	if err := command.Validate(); err != nil {
		return CycleResult{}, err
	}

	started := time.Now()
	result, err := h.run(ctx)
	result.Duration = time.Since(started)

	telemetry.MonitorCycleDuration.Observe(result.Duration.Seconds())
	telemetry.MonitorCycles.WithLabelValues(cycleLabel(result, err)).Inc()

	if err != nil {
		h.logger.ErrorContext(ctx, "monitor cycle failed", "error", err)
		return result, err
	}

	h.logger.InfoContext(ctx, "monitor cycle finished",
		"skipped", string(result.Skipped),
		"created", result.Count(JobAlertCreated),
		"reminded", result.Count(JobAlertReminded),
		"unchanged", result.Count(JobAlertSkipped),
		"failed", result.Count(JobFailed),
		"abandoned", result.Count(JobAbandoned),
		"duration", result.Duration,
	)
	return result, nil
}

func (h RunMonitorCycleCommandHandler) run(ctx context.Context) (CycleResult, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	now := h.clock.Now()
	result := CycleResult{StartedAt: now}

	if h.locker != nil {
		lock, acquired, err := h.locker.TryAcquire(ctx, MonitorLockKey)
		if err != nil {
			return result, fmt.Errorf("acquire monitor lock: %w", err)
		}
		if !acquired {
			result.Skipped = CycleLocked
			return result, nil
		}
		defer func() {
			// The cycle context may be spent; release on a fresh one.
			releaseCtx, releaseCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer releaseCancel()
			if err := lock.Release(releaseCtx); err != nil {
				h.logger.WarnContext(ctx, "release monitor lock failed", "error", err)
			}
		}()
	}

	reader := h.uowFactory.Create()

	cfg, err := reader.SettingsRepository().Get(ctx)
	if err != nil {
		return result, fmt.Errorf("read monitoring config: %w", err)
	}
	result.Config = cfg

	if !cfg.Enabled {
		result.Skipped = CycleDisabled
		return result, nil
	}

	candidates, err := reader.JobRepository().ListMonitorCandidates(ctx)
	if err != nil {
		return result, fmt.Errorf("list monitor candidates: %w", err)
	}

	detection := h.detector.Detect(candidates, cfg.Threshold(), now)
	for _, failure := range detection.Failures {
		h.logger.WarnContext(ctx, "skipping job with unreadable pickup schedule",
			"job_id", failure.JobID.String(), "error", failure.Err)
		result.Outcomes = append(result.Outcomes, JobOutcome{
			JobID:  failure.JobID,
			Action: JobFailed,
			Err:    failure.Err,
		})
	}

	for i, due := range detection.Due {
		if ctx.Err() != nil {
			abandoned := detection.Due[i:]
			h.logger.WarnContext(context.WithoutCancel(ctx), "monitor cycle deadline exceeded, abandoning remaining jobs",
				"abandoned", len(abandoned), "timeout", h.timeout)
			for _, rest := range abandoned {
				result.Outcomes = append(result.Outcomes, JobOutcome{
					JobID:  rest.Job.ID(),
					Action: JobAbandoned,
					Err:    ctx.Err(),
				})
			}
			result.TimedOut = true
			break
		}

		outcome := h.processJob(ctx, due, cfg, now)
		if outcome.Err != nil {
			h.logger.ErrorContext(context.WithoutCancel(ctx), "monitor cycle job failed",
				"job_id", outcome.JobID.String(), "error", outcome.Err)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

func (h RunMonitorCycleCommandHandler) processJob(
	ctx context.Context,
	due services.DueJob,
	cfg monitoring.Config,
	now time.Time,
) (outcome JobOutcome) {
	outcome = JobOutcome{JobID: due.Job.ID()}

	defer func() {
		if r := recover(); r != nil {
			outcome.Action = JobFailed
			outcome.Err = fmt.Errorf("panic while processing job: %v", r)
		}
	}()

	a, action, err := h.upsert(ctx, due, cfg, now)
	if err != nil {
		outcome.Action = JobFailed
		outcome.Err = err
		return outcome
	}
	if a == nil {
		outcome.Action = JobAlertSkipped
		return outcome
	}

	id := a.ID()
	outcome.AlertID = &id
	outcome.ReminderCount = a.ReminderCount()

	switch action {
	case AlertCreated:
		outcome.Action = JobAlertCreated
	case AlertReminded:
		outcome.Action = JobAlertReminded
	default:
		outcome.Action = JobAlertSkipped
		return outcome
	}

	if a.DriverID() != nil {
		notifyDriver(ctx, h.notifier, h.logger, alertNotification(a, action))
	}
	return outcome
}

func (h RunMonitorCycleCommandHandler) upsert(
	ctx context.Context,
	due services.DueJob,
	cfg monitoring.Config,
	now time.Time,
) (*alert.Alert, AlertAction, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// The candidate list was read without locks. A job that a concurrent
	// transition holds or has already moved on is left alone.
	current, err := uow.JobRepository().GetForUpdate(ctx, due.Job.ID())
	if errors.Is(err, ports.ErrJobLocked) {
		return nil, AlertSkipped, nil
	}
	if err != nil {
		return nil, "", err
	}
	if current.Status() != job.Confirmed {
		return nil, AlertSkipped, nil
	}

	a, action, err := upsertActiveAlert(ctx, uow.AlertRepository(), current.ID(), current.DriverID(), now,
		func(existing *alert.Alert) bool {
			return existing.ReminderDue(cfg, now)
		})
	if err != nil {
		return nil, "", err
	}

	if action == AlertSkipped {
		return a, action, nil
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, "", err
	}
	return a, action, nil
}

func cycleLabel(result CycleResult, err error) string {
	switch {
	case err != nil:
		return telemetry.ResultFailed
	case result.Skipped == CycleDisabled:
		return telemetry.ResultDisabled
	case result.Skipped != CycleNotSkipped:
		return telemetry.ResultSkipped
	case result.TimedOut:
		return telemetry.ResultTimedOut
	default:
		return telemetry.ResultApplied
	}
}
