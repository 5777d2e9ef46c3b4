package jobrepo

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockNotAvailable is the SQLSTATE raised by FOR UPDATE NOWAIT on a held row.
const lockNotAvailable = "55P03"

var lockNoWait = clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}

// GormJobRepository implements ports.JobRepository using GORM.
type GormJobRepository struct {
	db *gorm.DB
}

func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

// Add saves a new job.
func (r *GormJobRepository) Add(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes the mutable columns, including cleared markers.
func (r *GormJobRepository) Update(ctx context.Context, aggregate *job.Job) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&JobDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "start_time", "end_time").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("job", aggregate.ID().String())
	}
	return nil
}

// Get reads a live job.
func (r *GormJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate reads a live job and locks its row without waiting.
func (r *GormJobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	return r.get(r.db.WithContext(ctx).Clauses(lockNoWait), id)
}

func (r *GormJobRepository) get(db *gorm.DB, id kernel.UUID) (*job.Job, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto JobDTO
	err := db.Where("id = ? AND is_deleted = ?", id.Bytes(), false).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("job", id.String())
	}
	if err != nil {
		return nil, translateLockError(err)
	}

	return toDomain(dto)
}

// GetManyForUpdate locks the listed jobs in id order, so two bulk requests
// over overlapping sets cannot deadlock, and returns them in request order.
func (r *GormJobRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*job.Job, error) {
	if len(ids) == 0 {
		return []*job.Job{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}
	sort.Slice(raw, func(i, j int) bool { return raw[i].String() < raw[j].String() })

	var dtos []JobDTO
	err := r.db.WithContext(ctx).
		Clauses(lockNoWait).
		Where("id IN ? AND is_deleted = ?", raw, false).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, translateLockError(err)
	}

	byID := make(map[uuid.UUID]JobDTO, len(dtos))
	for _, dto := range dtos {
		byID[dto.ID] = dto
	}

	jobs := make([]*job.Job, 0, len(ids))
	for _, id := range ids {
		dto, ok := byID[id.Bytes()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("job", id.String())
		}
		j, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

// ListMonitorCandidates returns live CONFIRMED jobs with a full pickup
// schedule, earliest pickup first.
func (r *GormJobRepository) ListMonitorCandidates(ctx context.Context) ([]*job.Job, error) {
	var dtos []JobDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_deleted = ?", job.Confirmed.Code(), false).
		Where("pickup_date IS NOT NULL AND pickup_time IS NOT NULL").
		Order("pickup_date, pickup_time").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	jobs := make([]*job.Job, 0, len(dtos))
	for _, dto := range dtos {
		j, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}
	return jobs, nil
}

func translateLockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return fmt.Errorf("%w: %s", ports.ErrJobLocked, pgErr.Message)
	}
	return err
}
