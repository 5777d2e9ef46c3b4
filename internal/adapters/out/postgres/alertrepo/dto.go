// Package alertrepo stores monitoring alerts. At most one alert per job may
// be active; the table carries a partial unique index for that, created by
// postgres.Migrate.
package alertrepo

import (
	"time"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ActiveJobIndex is the partial unique index over active alerts.
const ActiveJobIndex = "ux_job_monitoring_alerts_active_job"

// AlertDTO is one job_monitoring_alerts row.
type AlertDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	JobID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID       *uuid.UUID `gorm:"type:uuid;index"`
	Status         string     `gorm:"type:varchar(16);not null;index"`
	ReminderCount  int        `gorm:"not null;default:1"`
	CreatedAt      time.Time  `gorm:"not null"`
	LastReminderAt time.Time  `gorm:"not null"`
	AcknowledgedAt *time.Time
	ClearedAt      *time.Time
}

func (AlertDTO) TableName() string {
	return "job_monitoring_alerts"
}

func fromDomain(a *alert.Alert) AlertDTO {
	return AlertDTO{
		ID:             a.ID().Bytes(),
		JobID:          a.JobID().Bytes(),
		DriverID:       kernel.OptionalBytes(a.DriverID()),
		Status:         a.Status().String(),
		ReminderCount:  a.ReminderCount(),
		CreatedAt:      a.CreatedAt(),
		LastReminderAt: a.LastReminderAt(),
		AcknowledgedAt: a.AcknowledgedAt(),
		ClearedAt:      a.ClearedAt(),
	}
}

func toDomain(dto AlertDTO) (*alert.Alert, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.OptionalUUIDFromBytes(dto.DriverID)
	if err != nil {
		return nil, err
	}
	status, err := alert.ParseLifecycle(dto.Status)
	if err != nil {
		return nil, err
	}

	return alert.RestoreAlert(
		id, jobID, driverID, status, dto.ReminderCount,
		dto.CreatedAt, dto.LastReminderAt,
		utc(dto.AcknowledgedAt), utc(dto.ClearedAt),
	), nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
