package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fleetwise/internal/core/domain/model/monitoring"
	"fleetwise/internal/pkg/guard"
)

var ErrUpdateMonitoringConfigCommandIsNotConstructed = errors.New(
	"UpdateMonitoringConfigCommand must be created via NewUpdateMonitoringConfigCommand constructor",
)

// UpdateMonitoringConfigCommand changes some or all monitoring settings.
type UpdateMonitoringConfigCommand struct {
	update monitoring.Update

	guard guard.ConstructorGuard
}

func NewUpdateMonitoringConfigCommand(update monitoring.Update) UpdateMonitoringConfigCommand {
	return UpdateMonitoringConfigCommand{update: update, guard: guard.NewConstructorGuard()}
}

func (c UpdateMonitoringConfigCommand) Validate() error {
	return c.guard.Validate(ErrUpdateMonitoringConfigCommandIsNotConstructed)
}

// UpdateMonitoringConfigCommandHandler merges the update into the stored
// configuration and saves it only when the merged value is valid. The
// scheduler picks the change up on its next tick.
type UpdateMonitoringConfigCommandHandler struct {
	uowFactory SettingsUoWFactory
	logger     *slog.Logger
}

func NewUpdateMonitoringConfigCommandHandler(uowFactory SettingsUoWFactory, logger *slog.Logger) UpdateMonitoringConfigCommandHandler {
	return UpdateMonitoringConfigCommandHandler{
		uowFactory: uowFactory,
		logger:     loggerOrDefault(logger).With("component", "monitoring_config"),
	}
}

// Handle returns the configuration now in effect.
func (h UpdateMonitoringConfigCommandHandler) Handle(
	ctx context.Context,
	command UpdateMonitoringConfigCommand,
) (monitoring.Config, error) {
	if err := command.Validate(); err != nil {
		return monitoring.Config{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return monitoring.Config{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettingsRepository()
	current, err := repo.Get(ctx)
	if err != nil {
		return monitoring.Config{}, fmt.Errorf("read monitoring config: %w", err)
	}

	if command.update.IsEmpty() {
		return current, nil
	}

	next, err := current.Apply(command.update)
	if err != nil {
		return monitoring.Config{}, err
	}

	if err := repo.Save(ctx, next); err != nil {
		return monitoring.Config{}, fmt.Errorf("save monitoring config: %w", err)
	}
	if err := uow.Commit(ctx); err != nil {
		return monitoring.Config{}, err
	}

	h.logger.InfoContext(ctx, "monitoring config updated",
		"enabled", next.Enabled,
		"threshold_minutes", next.ThresholdMinutes,
		"reminder_interval_minutes", next.ReminderIntervalMinutes,
		"max_reminders", next.MaxReminders,
		"trigger_frequency_minutes", next.TriggerFrequencyMinutes,
	)
	return next, nil
}
