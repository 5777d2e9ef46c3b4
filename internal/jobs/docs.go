// Package jobs provides the scheduled background tasks of the service.
//
// Jobs are built on github.com/robfig/cron/v3 with seconds precision:
//
//   - MonitorScheduler runs the overdue monitor cycle every
//     trigger_frequency_minutes. It re-reads the monitoring configuration
//     on every tick and reschedules itself when the frequency changes, so
//     configuration edits apply without a restart.
//   - AlertPurgeJob deletes alerts that closed longer ago than the
//     retention window, daily by default.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(monitorScheduler, purgeJob)
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Cycle and purge failures are logged and retried on the next tick. Panics
// inside a job are recovered by cron and logged through slog.
package jobs
