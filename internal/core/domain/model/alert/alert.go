package alert

import (
	"errors"
	"fmt"
	"time"

	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/domain/model/monitoring"
)

var (
	ErrAlertIsNotConstructed = errors.New("Alert must be created via NewAlert or RestoreAlert")

	// ErrAlertIsNotActive is returned when a reminder targets a closed alert.
	ErrAlertIsNotActive = errors.New("alert is not active")
)

// Alert is a time-sensitive warning for one job.
//
// A new alert counts as its own first reminder: reminderCount starts at 1
// and lastReminderAt equals createdAt.
type Alert struct {
	id       kernel.UUID
	jobID    kernel.UUID
	driverID *kernel.UUID
	status   Lifecycle

	reminderCount  int
	createdAt      time.Time
	lastReminderAt time.Time
	acknowledgedAt *time.Time
	clearedAt      *time.Time

	isConstructed bool
}

// NewAlert raises an active alert for jobID at now.
func NewAlert(jobID kernel.UUID, driverID *kernel.UUID, now time.Time) (*Alert, error) {
	if err := jobID.Validate(); err != nil {
		return nil, err
	}
	if driverID != nil {
		if err := driverID.Validate(); err != nil {
			return nil, err
		}
	}

	at := now.UTC()
	return &Alert{
		id:             kernel.NewUUID(),
		jobID:          jobID,
		driverID:       driverID,
		status:         Active,
		reminderCount:  1,
		createdAt:      at,
		lastReminderAt: at,
		isConstructed:  true,
	}, nil
}

// RestoreAlert rebuilds an alert read from storage.
func RestoreAlert(
	id, jobID kernel.UUID,
	driverID *kernel.UUID,
	status Lifecycle,
	reminderCount int,
	createdAt, lastReminderAt time.Time,
	acknowledgedAt, clearedAt *time.Time,
) *Alert {
	return &Alert{
		id:             id,
		jobID:          jobID,
		driverID:       driverID,
		status:         status,
		reminderCount:  reminderCount,
		createdAt:      createdAt.UTC(),
		lastReminderAt: lastReminderAt.UTC(),
		acknowledgedAt: acknowledgedAt,
		clearedAt:      clearedAt,
		isConstructed:  true,
	}
}

func (a *Alert) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAlertIsNotConstructed
	}
	return nil
}

func (a *Alert) ID() kernel.UUID {
	return a.id
}

func (a *Alert) JobID() kernel.UUID {
	return a.jobID
}

func (a *Alert) DriverID() *kernel.UUID {
	return a.driverID
}

func (a *Alert) Status() Lifecycle {
	return a.status
}

func (a *Alert) IsActive() bool {
	return a.status == Active
}

func (a *Alert) ReminderCount() int {
	return a.reminderCount
}

func (a *Alert) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Alert) LastReminderAt() time.Time {
	return a.lastReminderAt
}

func (a *Alert) AcknowledgedAt() *time.Time {
	return a.acknowledgedAt
}

func (a *Alert) ClearedAt() *time.Time {
	return a.clearedAt
}

// ClosedAt returns when the alert left the active state, or nil.
func (a *Alert) ClosedAt() *time.Time {
	if a.acknowledgedAt != nil {
		return a.acknowledgedAt
	}
	return a.clearedAt
}

// ReminderDue reports whether another reminder may be issued at now: the
// alert is active, below the reminder cap, and at least one reminder
// interval has passed since the last one.
func (a *Alert) ReminderDue(cfg monitoring.Config, now time.Time) bool {
	if !a.IsActive() || a.reminderCount >= cfg.MaxReminders {
		return false
	}
	return now.Sub(a.lastReminderAt) >= cfg.ReminderInterval()
}

// Remind records one more reminder. It does not consult the configuration;
// callers decide with ReminderDue.
func (a *Alert) Remind(now time.Time) error {
	if !a.IsActive() {
		return fmt.Errorf("%w: %s is %s", ErrAlertIsNotActive, a.id, a.status)
	}
	a.reminderCount++
	a.lastReminderAt = now.UTC()
	return nil
}

// Acknowledge closes an active alert on behalf of its driver or an operator.
// It returns false and changes nothing when the alert is not active.
func (a *Alert) Acknowledge(now time.Time) bool {
	if !a.IsActive() {
		return false
	}
	at := now.UTC()
	a.status = Acknowledged
	a.acknowledgedAt = &at
	return true
}

// Clear retires an active alert because its job started or was canceled.
// It returns false and changes nothing when the alert is not active.
func (a *Alert) Clear(now time.Time) bool {
	if !a.IsActive() {
		return false
	}
	at := now.UTC()
	a.status = Cleared
	a.clearedAt = &at
	return true
}
