package commands

import (
	"context"
	"fmt"
	"log/slog"

	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/telemetry"
)

// notifyDriver sends n when a notifier is configured. Failures are logged
// and counted, never returned: the change has already committed.
func notifyDriver(ctx context.Context, notifier ports.Notifier, logger *slog.Logger, n ports.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		telemetry.NotificationFailures.Inc()
		logger.WarnContext(ctx, "driver notification failed",
			"job_id", n.JobID.String(),
			"driver_id", n.DriverID.String(),
			"kind", string(n.Kind),
			"error", err,
		)
	}
}

func statusChangedNotification(driverID, jobID kernel.UUID, from, to job.Status) ports.Notification {
	return ports.Notification{
		DriverID: driverID,
		JobID:    jobID,
		Kind:     ports.NotifyStatusChanged,
		Title:    "Job Status Updated",
		Body:     fmt.Sprintf("Job %s is now %s", jobID, to),
		Data: map[string]string{
			"previous_status": from.String(),
			"new_status":      to.String(),
		},
	}
}

func alertNotification(a *alert.Alert, action AlertAction) ports.Notification {
	kind := ports.NotifyAlertRaised
	if action == AlertReminded {
		kind = ports.NotifyAlertReminder
	}
	return ports.Notification{
		DriverID: *a.DriverID(),
		JobID:    a.JobID(),
		Kind:     kind,
		Title:    "Trip starting soon",
		Body:     fmt.Sprintf("Job %s has not started and its pickup is approaching", a.JobID()),
		Data: map[string]string{
			"alert_id":       a.ID().String(),
			"reminder_count": fmt.Sprint(a.ReminderCount()),
		},
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
