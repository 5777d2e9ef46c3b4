package queries

import (
	"errors"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/pkg/guard"
)

// MaxAlertHistory caps an alert history page.
const MaxAlertHistory = 50

var ErrListAlertHistoryQueryIsNotConstructed = errors.New(
	"ListAlertHistoryQuery must be created via NewListAlertHistoryQuery constructor",
)

// ListAlertHistoryQuery lists a driver's recently closed alerts.
type ListAlertHistoryQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListAlertHistoryQuery(driverID kernel.UUID) (ListAlertHistoryQuery, error) {
	if err := driverID.Validate(); err != nil {
		return ListAlertHistoryQuery{}, err
	}
	return ListAlertHistoryQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListAlertHistoryQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q ListAlertHistoryQuery) Validate() error {
	return q.guard.Validate(ErrListAlertHistoryQueryIsNotConstructed)
}
