// Package settingsrepo stores the live monitoring configuration as a single
// row.
package settingsrepo

import (
	"context"
	"errors"
	"time"

	"fleetwise/internal/core/domain/model/monitoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const singletonID = 1

// SettingsDTO is the monitoring_settings row.
type SettingsDTO struct {
	ID                      int  `gorm:"primaryKey;autoIncrement:false"`
	Enabled                 bool `gorm:"not null"`
	ThresholdMinutes        int  `gorm:"not null"`
	ReminderIntervalMinutes int  `gorm:"not null"`
	MaxReminders            int  `gorm:"not null"`
	TriggerFrequencyMinutes int  `gorm:"not null"`
	UpdatedAt               time.Time
}

func (SettingsDTO) TableName() string {
	return "monitoring_settings"
}

// GormSettingsRepository implements ports.SettingsRepository using GORM.
type GormSettingsRepository struct {
	db *gorm.DB
}

func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored configuration or the defaults.
func (r *GormSettingsRepository) Get(ctx context.Context) (monitoring.Config, error) {
	var dto SettingsDTO
	err := r.db.WithContext(ctx).Where("id = ?", singletonID).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return monitoring.Defaults(), nil
	}
	if err != nil {
		return monitoring.Config{}, err
	}

	return monitoring.Config{
		Enabled:                 dto.Enabled,
		ThresholdMinutes:        dto.ThresholdMinutes,
		ReminderIntervalMinutes: dto.ReminderIntervalMinutes,
		MaxReminders:            dto.MaxReminders,
		TriggerFrequencyMinutes: dto.TriggerFrequencyMinutes,
	}, nil
}

// Save replaces the stored configuration.
func (r *GormSettingsRepository) Save(ctx context.Context, cfg monitoring.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dto := SettingsDTO{
		ID:                      singletonID,
		Enabled:                 cfg.Enabled,
		ThresholdMinutes:        cfg.ThresholdMinutes,
		ReminderIntervalMinutes: cfg.ReminderIntervalMinutes,
		MaxReminders:            cfg.MaxReminders,
		TriggerFrequencyMinutes: cfg.TriggerFrequencyMinutes,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
}
