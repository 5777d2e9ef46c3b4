package alertrepo

import (
	"context"
	"errors"
	"time"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

const closedAt = "COALESCE(acknowledged_at, cleared_at)"

var lockForUpdate = clause.Locking{Strength: "UPDATE"}

// GormAlertRepository implements ports.AlertRepository using GORM.
type GormAlertRepository struct {
	db *gorm.DB
}

func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// AddActive inserts an active alert. The insert runs in a nested
// transaction so a uniqueness violation rolls back to a savepoint and the
// caller's transaction stays usable.
func (r *GormAlertRepository) AddActive(ctx context.Context, a *alert.Alert) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if !a.IsActive() {
		return alert.ErrAlertIsNotActive
	}

	dto := fromDomain(a)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dto).Error
	})
	if isUniqueViolation(err) {
		return ports.ErrActiveAlertExists
	}
	return err
}

// Update writes the lifecycle columns of an existing alert.
func (r *GormAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := fromDomain(a)
	result := r.db.WithContext(ctx).
		Model(&AlertDTO{}).
		Where("id = ?", dto.ID).
		Select("status", "reminder_count", "last_reminder_at", "acknowledged_at", "cleared_at").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("alert", a.ID().String())
	}
	return nil
}

// GetForUpdate reads and locks an alert by id.
func (r *GormAlertRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*alert.Alert, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AlertDTO
	err := r.db.WithContext(ctx).Clauses(lockForUpdate).Where("id = ?", id.Bytes()).Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewObjectNotFoundError("alert", id.String())
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

// FindActiveForUpdate reads and locks the active alert of a job, if any.
func (r *GormAlertRepository) FindActiveForUpdate(ctx context.Context, jobID kernel.UUID) (*alert.Alert, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}

	var dtos []AlertDTO
	err := r.db.WithContext(ctx).
		Clauses(lockForUpdate).
		Where("job_id = ? AND status = ?", jobID.Bytes(), alert.Active.String()).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}

// ListActive returns active alerts, newest first.
func (r *GormAlertRepository) ListActive(ctx context.Context, driverID *kernel.UUID) ([]*alert.Alert, error) {
	q := r.db.WithContext(ctx).Where("status = ?", alert.Active.String())
	if driverID != nil {
		q = q.Where("driver_id = ?", driverID.Bytes())
	}

	var dtos []AlertDTO
	if err := q.Order("created_at DESC").Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// ListClosedSince returns the driver's alerts closed at or after since.
func (r *GormAlertRepository) ListClosedSince(
	ctx context.Context,
	driverID kernel.UUID,
	since time.Time,
	limit int,
) ([]*alert.Alert, error) {
	var dtos []AlertDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status <> ?", driverID.Bytes(), alert.Active.String()).
		Where(closedAt+" >= ?", since).
		Order(closedAt + " DESC").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainAll(dtos)
}

// Counts returns the active and total alert counts.
func (r *GormAlertRepository) Counts(ctx context.Context) (ports.AlertCounts, error) {
	var counts ports.AlertCounts
	err := r.db.WithContext(ctx).
		Model(&AlertDTO{}).
		Select("COUNT(*) FILTER (WHERE status = ?) AS active, COUNT(*) AS total", alert.Active.String()).
		Scan(&counts).Error
	return counts, err
}

// PurgeClosedBefore deletes alerts closed before cutoff.
func (r *GormAlertRepository) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status <> ?", alert.Active.String()).
		Where(closedAt+" < ?", cutoff).
		Delete(&AlertDTO{})
	return result.RowsAffected, result.Error
}

func toDomainAll(dtos []AlertDTO) ([]*alert.Alert, error) {
	alerts := make([]*alert.Alert, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
