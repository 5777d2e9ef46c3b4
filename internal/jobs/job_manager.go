package jobs

import (
	"context"
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	monitor *MonitorScheduler
	purge   *AlertPurgeJob
}

func NewJobManager(monitor *MonitorScheduler, purge *AlertPurgeJob) *JobManager {
	return &JobManager{monitor: monitor, purge: purge}
}

// StartAll starts all scheduled jobs. When one fails, the ones already
// started are stopped again.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.monitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start monitor scheduler: %w", err)
	}

	if err := jm.purge.Start(); err != nil {
		jm.monitor.Stop()
		return fmt.Errorf("failed to start alert purge job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.purge.Stop()
	jm.monitor.Stop()
}
