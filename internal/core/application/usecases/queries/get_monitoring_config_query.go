package queries

import (
	"context"
	"database/sql"
	"errors"

	"fleetwise/internal/core/domain/model/monitoring"
	"fleetwise/internal/pkg/guard"

	"gorm.io/gorm"
)

var ErrGetMonitoringConfigQueryIsNotConstructed = errors.New(
	"GetMonitoringConfigQuery must be created via NewGetMonitoringConfigQuery constructor",
)

// GetMonitoringConfigQuery reads the live monitoring configuration.
type GetMonitoringConfigQuery struct {
	guard guard.ConstructorGuard
}

func NewGetMonitoringConfigQuery() GetMonitoringConfigQuery {
	return GetMonitoringConfigQuery{guard: guard.NewConstructorGuard()}
}

func (q GetMonitoringConfigQuery) Validate() error {
	return q.guard.Validate(ErrGetMonitoringConfigQueryIsNotConstructed)
}

type GetMonitoringConfigQueryHandler struct {
	db *gorm.DB
}

func NewGetMonitoringConfigQueryHandler(db *gorm.DB) GetMonitoringConfigQueryHandler {
	return GetMonitoringConfigQueryHandler{db: db}
}

// Handle returns the stored configuration, or the defaults when none was
// saved yet.
func (h GetMonitoringConfigQueryHandler) Handle(ctx context.Context, query GetMonitoringConfigQuery) (monitoring.Config, error) {
	if err := query.Validate(); err != nil {
		return monitoring.Config{}, err
	}

	var cfg monitoring.Config
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			enabled,
			threshold_minutes,
			reminder_interval_minutes,
			max_reminders,
			trigger_frequency_minutes
		FROM monitoring_settings
		WHERE id = 1
	`).Row().Scan(
		&cfg.Enabled,
		&cfg.ThresholdMinutes,
		&cfg.ReminderIntervalMinutes,
		&cfg.MaxReminders,
		&cfg.TriggerFrequencyMinutes,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return monitoring.Defaults(), nil
	}
	if err != nil {
		return monitoring.Config{}, err
	}
	return cfg, nil
}
