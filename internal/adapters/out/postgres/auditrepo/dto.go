// Package auditrepo is the append-only job audit log.
package auditrepo

import (
	"time"

	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// RecordDTO is one job_audits row. Seq is assigned by the database and
// orders the records of a job.
type RecordDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq        int64      `gorm:"autoIncrement;not null;uniqueIndex"`
	JobID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromStatus string     `gorm:"type:varchar(16);not null"`
	ToStatus   string     `gorm:"type:varchar(16);not null"`
	ActorID    *uuid.UUID `gorm:"type:uuid"`
	Reason     string     `gorm:"type:text;not null;default:''"`
	ChangedAt  time.Time  `gorm:"not null"`
}

func (RecordDTO) TableName() string {
	return "job_audits"
}

func fromDomain(r *audit.Record) RecordDTO {
	return RecordDTO{
		ID:         r.ID().Bytes(),
		JobID:      r.JobID().Bytes(),
		FromStatus: r.From().Code(),
		ToStatus:   r.To().Code(),
		ActorID:    kernel.OptionalBytes(r.ActorID()),
		Reason:     r.Reason(),
		ChangedAt:  r.ChangedAt(),
	}
}

func toDomain(dto RecordDTO) (*audit.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	jobID, err := kernel.UUIDFromBytes(dto.JobID[:])
	if err != nil {
		return nil, err
	}
	from, err := job.StatusFromCode(dto.FromStatus)
	if err != nil {
		return nil, err
	}
	to, err := job.StatusFromCode(dto.ToStatus)
	if err != nil {
		return nil, err
	}
	actorID, err := kernel.OptionalUUIDFromBytes(dto.ActorID)
	if err != nil {
		return nil, err
	}

	return audit.RestoreRecord(id, jobID, from, to, actorID, dto.Reason, dto.ChangedAt, dto.Seq), nil
}
