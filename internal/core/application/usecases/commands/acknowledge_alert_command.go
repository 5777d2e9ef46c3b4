package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/clock"
	"fleetwise/internal/pkg/errs"
	"fleetwise/internal/pkg/guard"
	"fleetwise/internal/telemetry"
)

var ErrAcknowledgeAlertCommandIsNotConstructed = errors.New(
	"AcknowledgeAlertCommand must be created via NewAcknowledgeAlertCommand constructor",
)

// AcknowledgeAlertCommand closes an active alert.
type AcknowledgeAlertCommand struct {
	alertID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcknowledgeAlertCommand(alertID kernel.UUID) (AcknowledgeAlertCommand, error) {
	if err := alertID.Validate(); err != nil {
		return AcknowledgeAlertCommand{}, err
	}
	return AcknowledgeAlertCommand{alertID: alertID, guard: guard.NewConstructorGuard()}, nil
}

func (c AcknowledgeAlertCommand) Validate() error {
	return c.guard.Validate(ErrAcknowledgeAlertCommandIsNotConstructed)
}

// AcknowledgeAlertCommandHandler acknowledges alerts. It is idempotent: an
// alert that is already acknowledged or cleared yields false and is left
// exactly as it was.
type AcknowledgeAlertCommandHandler struct {
	uowFactory AlertUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewAcknowledgeAlertCommandHandler(uowFactory AlertUoWFactory, clk clock.Clock, logger *slog.Logger) AcknowledgeAlertCommandHandler {
	return AcknowledgeAlertCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     loggerOrDefault(logger).With("component", "alert_store"),
	}
}

// Handle reports whether the alert moved from active to acknowledged.
func (h AcknowledgeAlertCommandHandler) Handle(ctx context.Context, command AcknowledgeAlertCommand) (bool, error) {
	if err := command.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.AlertRepository()
	a, err := repo.GetForUpdate(ctx, command.alertID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, fmt.Errorf("%w: %w", ErrAlertNotFound, err)
	}
	if err != nil {
		return false, err
	}

	if !a.Acknowledge(h.clock.Now()) {
		return false, nil
	}

	if err := repo.Update(ctx, a); err != nil {
		return false, fmt.Errorf("acknowledge alert: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return false, err
	}

	telemetry.Alerts.WithLabelValues(telemetry.ActionAcknowledged).Inc()
	h.logger.InfoContext(ctx, "alert acknowledged", "alert_id", a.ID().String(), "job_id", a.JobID().String())
	return true, nil
}
