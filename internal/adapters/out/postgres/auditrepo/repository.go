package auditrepo

import (
	"context"

	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"

	"gorm.io/gorm"
)

// GormAuditRepository implements ports.AuditRepository using GORM. It only
// ever inserts.
type GormAuditRepository struct {
	db *gorm.DB
}

func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts the record.
func (r *GormAuditRepository) Append(ctx context.Context, record *audit.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByJob returns every record of the job in sequence order.
func (r *GormAuditRepository) ListByJob(ctx context.Context, jobID kernel.UUID, order ports.AuditOrder) ([]*audit.Record, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	direction := "seq DESC"
	if order == ports.OldestFirst {
		direction = "seq ASC"
	}

	var dtos []RecordDTO
	if err := r.db.WithContext(ctx).Where("job_id = ?", jobID.Bytes()).Order(direction).Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*audit.Record, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
