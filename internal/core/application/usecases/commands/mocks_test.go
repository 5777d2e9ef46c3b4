package commands_test

import (
	"context"
	"time"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/domain/model/alert"
	"fleetwise/internal/core/domain/model/audit"
	"fleetwise/internal/core/domain/model/job"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/domain/model/monitoring"
	"fleetwise/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockJobRepository struct{ mock.Mock }

func (m *MockJobRepository) Add(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockJobRepository) Get(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*job.Job, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.Job), args.Error(1)
}

func (m *MockJobRepository) GetManyForUpdate(ctx context.Context, ids []kernel.UUID) ([]*job.Job, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

func (m *MockJobRepository) Update(ctx context.Context, j *job.Job) error {
	return m.Called(ctx, j).Error(0)
}

func (m *MockJobRepository) ListMonitorCandidates(ctx context.Context) ([]*job.Job, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*job.Job), args.Error(1)
}

type MockAuditRepository struct{ mock.Mock }

func (m *MockAuditRepository) Append(ctx context.Context, r *audit.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockAuditRepository) ListByJob(ctx context.Context, jobID kernel.UUID, order ports.AuditOrder) ([]*audit.Record, error) {
	args := m.Called(ctx, jobID, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.Record), args.Error(1)
}

type MockAlertRepository struct{ mock.Mock }

func (m *MockAlertRepository) AddActive(ctx context.Context, a *alert.Alert) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAlertRepository) Update(ctx context.Context, a *alert.Alert) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAlertRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*alert.Alert, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Alert), args.Error(1)
}

func (m *MockAlertRepository) FindActiveForUpdate(ctx context.Context, jobID kernel.UUID) (*alert.Alert, error) {
	args := m.Called(ctx, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListActive(ctx context.Context, driverID *kernel.UUID) ([]*alert.Alert, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alert.Alert), args.Error(1)
}

func (m *MockAlertRepository) ListClosedSince(ctx context.Context, driverID kernel.UUID, since time.Time, limit int) ([]*alert.Alert, error) {
	args := m.Called(ctx, driverID, since, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*alert.Alert), args.Error(1)
}

func (m *MockAlertRepository) Counts(ctx context.Context) (ports.AlertCounts, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.AlertCounts), args.Error(1)
}

func (m *MockAlertRepository) PurgeClosedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsRepository struct{ mock.Mock }

func (m *MockSettingsRepository) Get(ctx context.Context) (monitoring.Config, error) {
	args := m.Called(ctx)
	return args.Get(0).(monitoring.Config), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, cfg monitoring.Config) error {
	return m.Called(ctx, cfg).Error(0)
}

// MockUoW satisfies every unit of work interface the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockUoW) JobRepository() ports.JobRepository {
	return m.Called().Get(0).(ports.JobRepository)
}

func (m *MockUoW) AuditRepository() ports.AuditRepository {
	return m.Called().Get(0).(ports.AuditRepository)
}

func (m *MockUoW) AlertRepository() ports.AlertRepository {
	return m.Called().Get(0).(ports.AlertRepository)
}

func (m *MockUoW) SettingsRepository() ports.SettingsRepository {
	return m.Called().Get(0).(ports.SettingsRepository)
}

type MockTransitionUoWFactory struct{ mock.Mock }

func (m *MockTransitionUoWFactory) Create() commands.TransitionUoW {
	return m.Called().Get(0).(commands.TransitionUoW)
}

type MockAlertUoWFactory struct{ mock.Mock }

func (m *MockAlertUoWFactory) Create() commands.AlertUoW {
	return m.Called().Get(0).(commands.AlertUoW)
}

type MockMonitorUoWFactory struct{ mock.Mock }

func (m *MockMonitorUoWFactory) Create() commands.MonitorUoW {
	return m.Called().Get(0).(commands.MonitorUoW)
}

type MockSettingsUoWFactory struct{ mock.Mock }

func (m *MockSettingsUoWFactory) Create() commands.SettingsUoW {
	return m.Called().Get(0).(commands.SettingsUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockCycleLocker struct{ mock.Mock }

func (m *MockCycleLocker) TryAcquire(ctx context.Context, key int64) (ports.CycleLock, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(ports.CycleLock), args.Bool(1), args.Error(2)
}

type MockCycleLock struct{ mock.Mock }

func (m *MockCycleLock) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// uowWith wires a MockUoW to the given repositories. Begin, Commit and
// Rollback are left for each test to expect.
func uowWith(jobs *MockJobRepository, audits *MockAuditRepository, alerts *MockAlertRepository, settings *MockSettingsRepository) *MockUoW {
	uow := new(MockUoW)
	if jobs != nil {
		uow.On("JobRepository").Return(jobs).Maybe()
	}
	if audits != nil {
		uow.On("AuditRepository").Return(audits).Maybe()
	}
	if alerts != nil {
		uow.On("AlertRepository").Return(alerts).Maybe()
	}
	if settings != nil {
		uow.On("SettingsRepository").Return(settings).Maybe()
	}
	return uow
}

func fastRetry() commands.RetryPolicy {
	return commands.RetryPolicy{MaxAttempts: 3, InitialBackoff: time.Millisecond}
}
