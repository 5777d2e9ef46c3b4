package postgres_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/services"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/pkg/clock"
)

func (s *postgresSuite) applyHandler(clk clock.Clock) commands.ApplyTransitionCommandHandler {
	return commands.NewApplyTransitionCommandHandler(transitionFactory{s.factory}, clk, nil, nil, commands.DefaultRetryPolicy())
}

func (s *postgresSuite) TestCreateOrUpdateAlert_TwiceGivesOneAlertWithTwoReminders() {
	ctx := context.Background()
	j := s.seedJob(job.Confirmed, "2026-03-01", "01:10")
	handler := commands.NewCreateOrUpdateAlertCommandHandler(alertFactory{s.factory}, clock.NewFixed(base), nil, nil)
	cmd, err := commands.NewCreateOrUpdateAlertCommand(j.ID(), j.DriverID())
	s.Require().NoError(err)

	_, action, err := handler.Handle(ctx, cmd)
	s.Require().NoError(err)
	s.Equal(commands.AlertCreated, action)

	a, action, err := handler.Handle(ctx, cmd)
	s.Require().NoError(err)
	s.Equal(commands.AlertReminded, action)
	s.Equal(2, a.ReminderCount())

	active, err := s.factory.Create().AlertRepository().ListActive(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(2, active[0].ReminderCount())
}

func (s *postgresSuite) TestCreateOrUpdateAlert_ConcurrentCallersShareOneAlert() {
	ctx := context.Background()
	j := s.seedJob(job.Confirmed, "2026-03-01", "01:10")
	handler := commands.NewCreateOrUpdateAlertCommandHandler(alertFactory{s.factory}, clock.NewFixed(base), nil, nil)
	cmd, err := commands.NewCreateOrUpdateAlertCommand(j.ID(), j.DriverID())
	s.Require().NoError(err)

	const callers = 6
	var wg sync.WaitGroup
	errCh := make(chan error, callers)
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, _, err := handler.Handle(ctx, cmd)
			errCh <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errCh)

	for err := range errCh {
		s.Require().NoError(err)
	}

	active, err := s.factory.Create().AlertRepository().ListActive(ctx, nil)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(callers, active[0].ReminderCount())
}

func (s *postgresSuite) TestApplyTransition_ConcurrentRequestsPersistOnce() {
	ctx := context.Background()
	j := s.seedJob(job.Pending, "2026-03-01", "09:00")
	handler := s.applyHandler(clock.NewFixed(base))
	cmd, err := commands.NewApplyTransitionCommand(j.ID(), "CONFIRMED", nil, "")
	s.Require().NoError(err)

	const callers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changed int
	)
	start := make(chan struct{})
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			result, err := handler.Handle(ctx, cmd)
			if errors.Is(err, commands.ErrJobBusy) {
				return
			}
			s.NoError(err)
			if result.Changed {
				mu.Lock()
				changed++
				mu.Unlock()
			}
		}()
	}
	close(start)
	wg.Wait()

	s.Equal(1, changed)

	records, err := s.factory.Create().AuditRepository().ListByJob(ctx, j.ID(), ports.OldestFirst)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(job.Confirmed, records[0].To())
}

func (s *postgresSuite) TestMonitorLifecycle_EndToEnd() {
	ctx := context.Background()
	clk := clock.NewFixed(base)
	j := s.seedJob(job.Pending, "2026-03-01", "01:10")

	confirm, err := commands.NewApplyTransitionCommand(j.ID(), "CONFIRMED", nil, "")
	s.Require().NoError(err)
	_, err = s.applyHandler(clk).Handle(ctx, confirm)
	s.Require().NoError(err)

	detector, err := services.NewOverdueDetector(time.UTC)
	s.Require().NoError(err)
	cycle := commands.NewRunMonitorCycleCommandHandler(monitorFactory{s.factory}, detector, clk, nil, nil, 10*time.Second, nil)

	result, err := cycle.Handle(ctx, commands.NewRunMonitorCycleCommand())
	s.Require().NoError(err)
	s.Equal(1, result.Count(commands.JobAlertCreated))

	// Within the reminder interval the next cycle leaves the alert alone.
	clk.Advance(3 * time.Minute)
	result, err = cycle.Handle(ctx, commands.NewRunMonitorCycleCommand())
	s.Require().NoError(err)
	s.Equal(1, result.Count(commands.JobAlertSkipped))

	enRoute, err := commands.NewApplyTransitionCommand(j.ID(), "EN_ROUTE", nil, "")
	s.Require().NoError(err)
	applied, err := s.applyHandler(clk).Handle(ctx, enRoute)
	s.Require().NoError(err)
	s.True(applied.AlertCleared)

	records, err := s.factory.Create().AuditRepository().ListByJob(ctx, j.ID(), ports.OldestFirst)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(job.Confirmed, records[0].To())
	s.Equal(job.EnRoute, records[1].To())

	counts, err := s.factory.Create().AlertRepository().Counts(ctx)
	s.Require().NoError(err)
	s.Equal(int64(0), counts.Active)
	s.Equal(int64(1), counts.Total)

	stored, err := s.factory.Create().JobRepository().Get(ctx, j.ID())
	s.Require().NoError(err)
	s.NotNil(stored.StartedAt())
}
