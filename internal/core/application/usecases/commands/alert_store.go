package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/telemetry"
)

// AlertAction names what an upsert did to a job's active alert.
type AlertAction string

const (
	AlertCreated  AlertAction = "created"
	AlertReminded AlertAction = "reminded"
	AlertSkipped  AlertAction = "skipped"
)

// remindPolicy decides whether an existing active alert gets another reminder.
// A nil policy always reminds.
type remindPolicy func(existing *alert.Alert) bool

// upsertActiveAlert raises an alert for jobID or escalates the active one.
//
// The active alert is read under a row lock. When there is none a new one is
// inserted; if a concurrent transaction inserted first, the storage-level
// uniqueness violation comes back as ports.ErrActiveAlertExists and the
// winner's alert is locked and escalated instead.
func upsertActiveAlert(
	ctx context.Context,
	repo ports.AlertRepository,
	jobID kernel.UUID,
	driverID *kernel.UUID,
	now time.Time,
	shouldRemind remindPolicy,
) (*alert.Alert, AlertAction, error) {
	existing, err := repo.FindActiveForUpdate(ctx, jobID)
	if err != nil {
		return nil, "", fmt.Errorf("find active alert: %w", err)
	}

	if existing == nil {
		created, err := alert.NewAlert(jobID, driverID, now)
		if err != nil {
			return nil, "", err
		}

		err = repo.AddActive(ctx, created)
		if err == nil {
			telemetry.Alerts.WithLabelValues(telemetry.ActionCreated).Inc()
			return created, AlertCreated, nil
		}
		if !errors.Is(err, ports.ErrActiveAlertExists) {
			return nil, "", fmt.Errorf("add alert: %w", err)
		}

		existing, err = repo.FindActiveForUpdate(ctx, jobID)
		if err != nil {
			return nil, "", fmt.Errorf("find active alert after conflict: %w", err)
		}
		if existing == nil {
			return nil, "", fmt.Errorf("active alert for job %s vanished after conflict", jobID)
		}
	}

	if shouldRemind != nil && !shouldRemind(existing) {
		return existing, AlertSkipped, nil
	}

	if err := existing.Remind(now); err != nil {
		return nil, "", err
	}
	if err := repo.Update(ctx, existing); err != nil {
		return nil, "", fmt.Errorf("update alert: %w", err)
	}

	telemetry.Alerts.WithLabelValues(telemetry.ActionReminded).Inc()
	return existing, AlertReminded, nil
}

// clearActiveAlert retires the active alert of jobID. It reports false and
// no error when there is nothing to clear.
func clearActiveAlert(ctx context.Context, repo ports.AlertRepository, jobID kernel.UUID, now time.Time) (bool, error) {
	active, err := repo.FindActiveForUpdate(ctx, jobID)
	if err != nil {
		return false, fmt.Errorf("find active alert: %w", err)
	}
	if active == nil || !active.Clear(now) {
		return false, nil
	}

	if err := repo.Update(ctx, active); err != nil {
		return false, fmt.Errorf("clear alert: %w", err)
	}

	telemetry.Alerts.WithLabelValues(telemetry.ActionCleared).Inc()
	return true, nil
}
