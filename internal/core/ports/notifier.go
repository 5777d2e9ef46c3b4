package ports

import (
	"context"

	"fleetwise/internal/core/domain/model/kernel"
)

// NotificationKind classifies a driver notification.
type NotificationKind string

const (
	NotifyStatusChanged NotificationKind = "job_status_changed"
	NotifyAlertRaised   NotificationKind = "job_alert"
	NotifyAlertReminder NotificationKind = "job_alert_reminder"
)

// Notification is a push message addressed to one driver.
type Notification struct {
	DriverID kernel.UUID
	JobID    kernel.UUID
	Kind     NotificationKind
	Title    string
	Body     string
	Data     map[string]string
}

// Notifier hands a notification to the push delivery system. Delivery is
// best-effort and happens after the triggering change has committed.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
