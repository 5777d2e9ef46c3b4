package queries

import (
	"errors"
	"time"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/guard"
)

var ErrListActiveAlertsQueryIsNotConstructed = errors.New(
	"ListActiveAlertsQuery must be created via NewListActiveAlertsQuery constructor",
)

// ListActiveAlertsQuery lists active alerts for the dispatcher dashboard, or
// for one driver when DriverID is set.
//
// Example:
//
//	query, _ := NewListActiveAlertsQuery(nil)
//	page, err := handler.Handle(ctx, query)
//	fmt.Printf("%d of %d alerts active\n", page.ActiveCount, page.TotalCount)
type ListActiveAlertsQuery struct {
	driverID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewListActiveAlertsQuery(driverID *kernel.UUID) (ListActiveAlertsQuery, error) {
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return ListActiveAlertsQuery{}, err
		}
	}
	return ListActiveAlertsQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListActiveAlertsQuery) DriverID() *kernel.UUID {
	return q.driverID
}

func (q ListActiveAlertsQuery) Validate() error {
	return q.guard.Validate(ErrListActiveAlertsQueryIsNotConstructed)
}

// AlertView is one alert in a listing.
type AlertView struct {
	ID             kernel.UUID
	JobID          kernel.UUID
	DriverID       *kernel.UUID
	Status         string
	ReminderCount  int
	CreatedAt      time.Time
	LastReminderAt time.Time
	AcknowledgedAt *time.Time
	ClearedAt      *time.Time
	PickupDate     string
	PickupTime     string
	// ElapsedMinutes is whole minutes since the pickup instant, negative
	// before pickup. Nil when the job's schedule cannot be resolved.
	ElapsedMinutes *int
}

// ListActiveAlertsQueryResponse is the dashboard page.
type ListActiveAlertsQueryResponse struct {
	Alerts      []AlertView
	ActiveCount int64
	TotalCount  int64
}
