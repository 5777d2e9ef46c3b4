package postgres

import (
	"fmt"

	"fleetwise/internal/adapters/out/postgres/alertrepo"
	"fleetwise/internal/adapters/out/postgres/auditrepo"
	"fleetwise/internal/adapters/out/postgres/jobrepo"
	"fleetwise/internal/adapters/out/postgres/settingsrepo"

	"gorm.io/gorm"
)

// Migrate creates or updates every table this service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&jobrepo.JobDTO{},
		&auditrepo.RecordDTO{},
		&alertrepo.AlertDTO{},
		&settingsrepo.SettingsDTO{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	err = db.Exec(fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (job_id) WHERE status = 'active'",
		alertrepo.ActiveJobIndex, alertrepo.AlertDTO{}.TableName(),
	)).Error
	if err != nil {
		return fmt.Errorf("create active alert index: %w", err)
	}
	return nil
}
