package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fleetwise/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the purge daily at 02:00.
const DefaultPurgeSchedule = "0 0 2 * * *"

const purgeTimeout = time.Minute

// AlertPurger deletes closed alerts older than a retention window.
type AlertPurger interface {
	Handle(ctx context.Context, command commands.PurgeExpiredAlertsCommand) (int64, error)
}

// AlertPurgeJob deletes expired alerts on a cron schedule.
type AlertPurgeJob struct {
	purger    AlertPurger
	retention time.Duration
	spec      string
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewAlertPurgeJob creates the job. spec is a six-field cron expression
// evaluated in loc; an empty spec means DefaultPurgeSchedule.
func NewAlertPurgeJob(
	purger AlertPurger,
	retention time.Duration,
	spec string,
	loc *time.Location,
	logger *slog.Logger,
) *AlertPurgeJob {
	if spec == "" {
		spec = DefaultPurgeSchedule
	}
	if loc == nil {
		loc = time.UTC
	}
	logger = logger.With("component", "alert_purge_job")

	return &AlertPurgeJob{
		purger:    purger,
		retention: retention,
		spec:      spec,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(newCronLogger(logger))),
		),
		logger: logger,
	}
}

func (j *AlertPurgeJob) Start() error {
	command, err := commands.NewPurgeExpiredAlertsCommand(j.retention)
	if err != nil {
		return err
	}

	_, err = j.cron.AddFunc(j.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()

		if _, err := j.purger.Handle(ctx, command); err != nil {
			j.logger.ErrorContext(ctx, "Alert purge job failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", j.spec, err)
	}

	j.cron.Start()
	j.logger.Info("Alert purge job started", "schedule", j.spec, "retention", j.retention)
	return nil
}

func (j *AlertPurgeJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Alert purge job stopped")
}
