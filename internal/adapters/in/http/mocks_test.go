package http_test

import (
	"context"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/application/usecases/queries"
	"fleetwise/internal/core/domain/model/monitoring"

	"github.com/stretchr/testify/mock"
)

type MockTransitionApplier struct{ mock.Mock }

func (m *MockTransitionApplier) Handle(ctx context.Context, c commands.ApplyTransitionCommand) (commands.ApplyTransitionResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(commands.ApplyTransitionResult), args.Error(1)
}

type MockJobCanceler struct{ mock.Mock }

func (m *MockJobCanceler) Handle(ctx context.Context, c commands.CancelJobsCommand) ([]commands.CanceledJob, error) {
	args := m.Called(ctx, c)
	canceled, _ := args.Get(0).([]commands.CanceledJob)
	return canceled, args.Error(1)
}

type MockAlertAcknowledger struct{ mock.Mock }

func (m *MockAlertAcknowledger) Handle(ctx context.Context, c commands.AcknowledgeAlertCommand) (bool, error) {
	args := m.Called(ctx, c)
	return args.Bool(0), args.Error(1)
}

type MockConfigUpdater struct{ mock.Mock }

func (m *MockConfigUpdater) Handle(ctx context.Context, c commands.UpdateMonitoringConfigCommand) (monitoring.Config, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(monitoring.Config), args.Error(1)
}

type MockCycleRunner struct{ mock.Mock }

func (m *MockCycleRunner) Handle(ctx context.Context, c commands.RunMonitorCycleCommand) (commands.CycleResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(commands.CycleResult), args.Error(1)
}

type MockActiveAlertsReader struct{ mock.Mock }

func (m *MockActiveAlertsReader) Handle(ctx context.Context, q queries.ListActiveAlertsQuery) (queries.ListActiveAlertsQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.ListActiveAlertsQueryResponse), args.Error(1)
}

type MockAlertHistoryReader struct{ mock.Mock }

func (m *MockAlertHistoryReader) Handle(ctx context.Context, q queries.ListAlertHistoryQuery) ([]queries.AlertView, error) {
	args := m.Called(ctx, q)
	views, _ := args.Get(0).([]queries.AlertView)
	return views, args.Error(1)
}

type MockAuditReader struct{ mock.Mock }

func (m *MockAuditReader) Handle(ctx context.Context, q queries.ListAuditQuery) ([]queries.AuditEntry, error) {
	args := m.Called(ctx, q)
	entries, _ := args.Get(0).([]queries.AuditEntry)
	return entries, args.Error(1)
}

type MockTransitionChecker struct{ mock.Mock }

func (m *MockTransitionChecker) Handle(ctx context.Context, q queries.CheckTransitionQuery) (queries.CheckTransitionQueryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(queries.CheckTransitionQueryResponse), args.Error(1)
}

type MockConfigReader struct{ mock.Mock }

func (m *MockConfigReader) Handle(ctx context.Context, q queries.GetMonitoringConfigQuery) (monitoring.Config, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(monitoring.Config), args.Error(1)
}
