package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fleetwise/internal/pkg/clock"
	"fleetwise/internal/pkg/errs"
	"fleetwise/internal/pkg/guard"
	"fleetwise/internal/telemetry"
)

var ErrPurgeExpiredAlertsCommandIsNotConstructed = errors.New(
	"PurgeExpiredAlertsCommand must be created via NewPurgeExpiredAlertsCommand constructor",
)

// PurgeExpiredAlertsCommand deletes alerts that closed more than the
// retention window ago. Active alerts are never purged.
type PurgeExpiredAlertsCommand struct {
	retention time.Duration

	guard guard.ConstructorGuard
}

func NewPurgeExpiredAlertsCommand(retention time.Duration) (PurgeExpiredAlertsCommand, error) {
	if retention <= 0 {
		return PurgeExpiredAlertsCommand{}, errs.NewValueIsOutOfRangeError("retention", retention, "1ns", "unbounded")
	}
	return PurgeExpiredAlertsCommand{retention: retention, guard: guard.NewConstructorGuard()}, nil
}

func (c PurgeExpiredAlertsCommand) Validate() error {
	return c.guard.Validate(ErrPurgeExpiredAlertsCommandIsNotConstructed)
}

type PurgeExpiredAlertsCommandHandler struct {
	uowFactory AlertUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewPurgeExpiredAlertsCommandHandler(uowFactory AlertUoWFactory, clk clock.Clock, logger *slog.Logger) PurgeExpiredAlertsCommandHandler {
	return PurgeExpiredAlertsCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		logger:     loggerOrDefault(logger).With("component", "alert_purge"),
	}
}

// Handle returns the number of deleted alerts.
func (h PurgeExpiredAlertsCommandHandler) Handle(ctx context.Context, command PurgeExpiredAlertsCommand) (int64, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cutoff := h.clock.Now().Add(-command.retention)
	purged, err := uow.AlertRepository().PurgeClosedBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	telemetry.Alerts.WithLabelValues(telemetry.ActionPurged).Add(float64(purged))
	h.logger.InfoContext(ctx, "expired alerts purged", "count", purged, "cutoff", cutoff)
	return purged, nil
}
