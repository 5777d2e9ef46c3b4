// Package jobrepo persists the Job aggregate. Statuses are stored by their
// short wire code so the table stays readable by the dispatch tools that
// share it.
package jobrepo

import (
	"time"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// JobDTO is the jobs table row. Pickup date and time are the operator's
// local calendar values, kept as text and resolved against the display
// timezone on read.
type JobDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Status     string     `gorm:"type:varchar(16);not null;index"`
	PickupDate *string    `gorm:"type:varchar(10)"`
	PickupTime *string    `gorm:"type:varchar(8)"`
	DriverID   *uuid.UUID `gorm:"type:uuid;index"`
	StartTime  *time.Time
	EndTime    *time.Time
	IsDeleted  bool `gorm:"not null;default:false"`
}

func (JobDTO) TableName() string {
	return "jobs"
}

func fromDomain(aggregate *job.Job) JobDTO {
	return JobDTO{
		ID:         aggregate.ID().Bytes(),
		Status:     aggregate.Status().Code(),
		PickupDate: optionalText(aggregate.Pickup().Date()),
		PickupTime: optionalText(aggregate.Pickup().Time()),
		DriverID:   kernel.OptionalBytes(aggregate.DriverID()),
		StartTime:  aggregate.StartedAt(),
		EndTime:    aggregate.EndedAt(),
		IsDeleted:  aggregate.IsDeleted(),
	}
}

func toDomain(dto JobDTO) (*job.Job, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	status, err := job.StatusFromCode(dto.Status)
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.OptionalUUIDFromBytes(dto.DriverID)
	if err != nil {
		return nil, err
	}

	pickup := kernel.RestorePickupSchedule(text(dto.PickupDate), text(dto.PickupTime))
	return job.RestoreJob(id, status, pickup, driverID, utc(dto.StartTime), utc(dto.EndTime), dto.IsDeleted), nil
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
