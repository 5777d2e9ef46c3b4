package commands

import (
	"context"
	"errors"
	"log/slog"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/clock"
	"fleetwise/internal/pkg/guard"
)

var ErrCreateOrUpdateAlertCommandIsNotConstructed = errors.New(
	"CreateOrUpdateAlertCommand must be created via NewCreateOrUpdateAlertCommand constructor",
)

// CreateOrUpdateAlertCommand raises an alert for a job, or adds a reminder
// to its active one unconditionally.
type CreateOrUpdateAlertCommand struct {
	jobID    kernel.UUID
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateOrUpdateAlertCommand(jobID kernel.UUID, driverID *kernel.UUID) (CreateOrUpdateAlertCommand, error) {
	if err := jobID.Validate(); err != nil {
		return CreateOrUpdateAlertCommand{}, err
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return CreateOrUpdateAlertCommand{}, err
		}
	}
	return CreateOrUpdateAlertCommand{jobID: jobID, driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateOrUpdateAlertCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrUpdateAlertCommandIsNotConstructed)
}

// CreateOrUpdateAlertCommandHandler is the idempotent alert upsert. Calling
// it twice for one job leaves a single active alert with reminder count 2,
// including when both calls race: the loser of the insert falls back to the
// update path.
type CreateOrUpdateAlertCommandHandler struct {
	uowFactory AlertUoWFactory
	clock      clock.Clock
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCreateOrUpdateAlertCommandHandler(
	uowFactory AlertUoWFactory,
	clk clock.Clock,
	notifier ports.Notifier,
	logger *slog.Logger,
) CreateOrUpdateAlertCommandHandler {
	return CreateOrUpdateAlertCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
		notifier:   notifier,
		logger:     loggerOrDefault(logger).With("component", "alert_store"),
	}
}

// Handle returns the active alert and whether it was created or reminded.
func (h CreateOrUpdateAlertCommandHandler) Handle(
	ctx context.Context,
	command CreateOrUpdateAlertCommand,
) (*alert.Alert, AlertAction, error) {
	if err := command.Validate(); err != nil {
		return nil, "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	a, action, err := upsertActiveAlert(ctx, uow.AlertRepository(), command.jobID, command.driverID, h.clock.Now(), nil)
	if err != nil {
		return nil, "", err
	}

	if err := uow.Commit(ctx); err != nil {
		return nil, "", err
	}

	if a.DriverID() != nil {
		notifyDriver(ctx, h.notifier, h.logger, alertNotification(a, action))
	}
	return a, action, nil
}
