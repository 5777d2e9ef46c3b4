package queries

import (
	"database/sql"
	"time"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/domain/services"

	"github.com/google/uuid"
)

const alertColumns = `
	a.id,
	a.job_id,
	a.driver_id,
	a.status,
	a.reminder_count,
	a.created_at,
	a.last_reminder_at,
	a.acknowledged_at,
	a.cleared_at,
	j.pickup_date,
	j.pickup_time`

// scanAlertViews reads rows selected with alertColumns and fills in the
// elapsed minutes against now.
func scanAlertViews(rows *sql.Rows, detector services.OverdueDetector, now time.Time) ([]AlertView, error) {
	views := make([]AlertView, 0)
	for rows.Next() {
		var (
			view                AlertView
			id, jobID           uuid.UUID
			driverID            *uuid.UUID
			pickupDate, pickupT *string
		)

		err := rows.Scan(
			&id,
			&jobID,
			&driverID,
			&view.Status,
			&view.ReminderCount,
			&view.CreatedAt,
			&view.LastReminderAt,
			&view.AcknowledgedAt,
			&view.ClearedAt,
			&pickupDate,
			&pickupT,
		)
		if err != nil {
			return nil, err
		}

		if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if view.JobID, err = kernel.UUIDFromBytes(jobID[:]); err != nil {
			return nil, err
		}
		if view.DriverID, err = kernel.OptionalUUIDFromBytes(driverID); err != nil {
			return nil, err
		}

		view.CreatedAt = view.CreatedAt.UTC()
		view.LastReminderAt = view.LastReminderAt.UTC()
		view.PickupDate = deref(pickupDate)
		view.PickupTime = deref(pickupT)

		schedule := kernel.RestorePickupSchedule(view.PickupDate, view.PickupTime)
		if pickup, pickupErr := detector.PickupInstant(schedule); pickupErr == nil {
			elapsed := services.ElapsedMinutes(pickup, now)
			view.ElapsedMinutes = &elapsed
		}

		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
