package ports

import (
	"context"

	"fleetwise/internal/core/domain/model/monitoring"
)

// SettingsRepository stores the single live monitoring configuration.
type SettingsRepository interface {
	// Get returns the saved configuration, or monitoring.Defaults when none
	// has been saved yet.
	Get(ctx context.Context) (monitoring.Config, error)

	// Save replaces the configuration. It must already be valid.
	Save(ctx context.Context, cfg monitoring.Config) error
}
