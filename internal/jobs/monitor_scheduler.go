package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/application/usecases/queries"
	"fleetwise/internal/core/domain/model/monitoring"

	"github.com/robfig/cron/v3"
)

const configReadTimeout = 5 * time.Second

// CycleRunner runs one monitor cycle.
type CycleRunner interface {
	Handle(ctx context.Context, command commands.RunMonitorCycleCommand) (commands.CycleResult, error)
}

// ConfigReader returns the live monitoring configuration.
type ConfigReader interface {
	Handle(ctx context.Context, query queries.GetMonitoringConfigQuery) (monitoring.Config, error)
}

// MonitorScheduler runs the overdue monitor on a fixed interval taken from
// the live configuration. Every tick first re-reads the configuration and,
// when the trigger frequency changed, moves itself to the new interval
// before running the cycle. A tick that is still running when the next one
// is due makes the next one a no-op.
type MonitorScheduler struct {
	cycle  CycleRunner
	config ConfigReader
	cron   *cron.Cron
	tick   cron.Job
	logger *slog.Logger

	mu       sync.Mutex
	interval time.Duration
	entry    cron.EntryID
}

func NewMonitorScheduler(cycle CycleRunner, config ConfigReader, logger *slog.Logger) *MonitorScheduler {
	logger = logger.With("component", "monitor_scheduler")
	cronLogger := newCronLogger(logger)

	s := &MonitorScheduler{
		cycle:  cycle,
		config: config,
		cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(cronLogger))),
		logger: logger,
	}
	// Wrapped once so the overlap guard survives rescheduling.
	s.tick = cron.NewChain(cron.SkipIfStillRunning(cronLogger)).Then(cron.FuncJob(func() {
		_, _ = s.RunCycle(context.Background())
	}))
	return s
}

// Start schedules the monitor at the configured frequency. When the
// configuration cannot be read it starts at the default frequency.
func (s *MonitorScheduler) Start(ctx context.Context) error {
	interval := monitoring.Defaults().TriggerFrequency()
	if cfg, err := s.readConfig(ctx); err != nil {
		s.logger.WarnContext(ctx, "monitoring config unavailable, using default frequency",
			"error", err, "interval", interval)
	} else {
		interval = cfg.TriggerFrequency()
	}

	s.mu.Lock()
	s.entry = s.cron.Schedule(cron.Every(interval), s.tick)
	s.interval = interval
	s.mu.Unlock()

	s.cron.Start()
	s.logger.InfoContext(ctx, "Monitor scheduler started", "interval", interval)
	return nil
}

// Stop halts scheduling and waits for a running cycle to finish.
func (s *MonitorScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Monitor scheduler stopped")
}

// Interval returns the interval the monitor is currently scheduled at.
func (s *MonitorScheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// RunCycle reconciles the schedule with the live configuration and then
// runs one cycle. It is what every tick does.
func (s *MonitorScheduler) RunCycle(ctx context.Context) (commands.CycleResult, error) {
	if cfg, err := s.readConfig(ctx); err != nil {
		s.logger.WarnContext(ctx, "monitoring config unavailable, keeping current interval", "error", err)
	} else {
		s.reschedule(ctx, cfg.TriggerFrequency())
	}

	result, err := s.cycle.Handle(ctx, commands.NewRunMonitorCycleCommand())
	if err != nil {
		return result, fmt.Errorf("monitor cycle: %w", err)
	}
	return result, nil
}

func (s *MonitorScheduler) reschedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if interval == s.interval {
		return
	}

	previous := s.interval
	if s.entry != 0 {
		s.cron.Remove(s.entry)
	}
	s.entry = s.cron.Schedule(cron.Every(interval), s.tick)
	s.interval = interval
	s.logger.InfoContext(ctx, "monitor interval changed", "from", previous, "to", interval)
}

func (s *MonitorScheduler) readConfig(ctx context.Context) (monitoring.Config, error) {
	ctx, cancel := context.WithTimeout(ctx, configReadTimeout)
	defer cancel()
	return s.config.Handle(ctx, queries.NewGetMonitoringConfigQuery())
}
