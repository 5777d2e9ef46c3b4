package ports

import (
	"context"
	"errors"
	"time"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/kernel"
)

// ErrActiveAlertExists is returned by AddActive when the job already has an
// active alert. The surrounding transaction stays usable.
var ErrActiveAlertExists = errors.New("job already has an active alert")

// AlertCounts summarises the alert table for dashboards.
type AlertCounts struct {
	Active int64
	Total  int64
}

// AlertRepository persists monitoring alerts. Storage enforces at most one
// active alert per job.
type AlertRepository interface {
	// AddActive inserts a new active alert, or returns ErrActiveAlertExists.
	AddActive(ctx context.Context, a *alert.Alert) error

	// Update writes the lifecycle, counter and timestamps of an alert.
	Update(ctx context.Context, a *alert.Alert) error

	// GetForUpdate reads and locks an alert by id.
	// Returns errs.ErrObjectNotFound if it does not exist.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*alert.Alert, error)

	// FindActiveForUpdate reads and locks the active alert of a job.
	// Returns nil and no error when the job has none.
	FindActiveForUpdate(ctx context.Context, jobID kernel.UUID) (*alert.Alert, error)

	// ListActive returns active alerts, newest first. A nil driverID lists
	// every driver.
	ListActive(ctx context.Context, driverID *kernel.UUID) ([]*alert.Alert, error)

	// ListClosedSince returns a driver's acknowledged or cleared alerts that
	// closed at or after since, newest first.
	ListClosedSince(ctx context.Context, driverID kernel.UUID, since time.Time, limit int) ([]*alert.Alert, error)

	// Counts returns the number of active and of all stored alerts.
	Counts(ctx context.Context) (AlertCounts, error)

	// PurgeClosedBefore deletes alerts that left the active state before cutoff.
	PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
