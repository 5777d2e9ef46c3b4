package cmd

import (
	"log/slog"

	"fleetwise/api"
	httpadapter "fleetwise/internal/adapters/in/http"
	"fleetwise/internal/adapters/out/postgres"
	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/application/usecases/queries"
	"fleetwise/internal/core/domain/services"
	"fleetwise/internal/core/ports"
	"fleetwise/internal/jobs"
	"fleetwise/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	detector   services.OverdueDetector
	clock      clock.Clock
	notifier   ports.Notifier
	locker     ports.CycleLocker
	logger     *slog.Logger
}

// NewCompositionRoot wires the application. notifier and locker may be nil.
func NewCompositionRoot(
	cfg Config,
	gormDB *gorm.DB,
	notifier ports.Notifier,
	locker ports.CycleLocker,
	logger *slog.Logger,
) (CompositionRoot, error) {
	detector, err := services.NewOverdueDetector(cfg.DisplayTimezone)
	if err != nil {
		return CompositionRoot{}, err
	}
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		detector:   detector,
		clock:      clock.System{},
		notifier:   notifier,
		locker:     locker,
		logger:     logger,
	}, nil
}

func (c *CompositionRoot) transitionUoWFactory() commands.TransitionUoWFactory {
	return FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) alertUoWFactory() commands.AlertUoWFactory {
	return FuncAlertUoWFactory(func() commands.AlertUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() commands.ApplyTransitionCommandHandler {
	return commands.NewApplyTransitionCommandHandler(c.transitionUoWFactory(), c.clock, c.notifier, c.logger, c.cfg.RetryPolicy())
}

func (c *CompositionRoot) CreateCancelJobsCommandHandler() commands.CancelJobsCommandHandler {
	return commands.NewCancelJobsCommandHandler(c.transitionUoWFactory(), c.clock, c.notifier, c.logger, c.cfg.RetryPolicy())
}

func (c *CompositionRoot) CreateAcknowledgeAlertCommandHandler() commands.AcknowledgeAlertCommandHandler {
	return commands.NewAcknowledgeAlertCommandHandler(c.alertUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreatePurgeExpiredAlertsCommandHandler() commands.PurgeExpiredAlertsCommandHandler {
	return commands.NewPurgeExpiredAlertsCommandHandler(c.alertUoWFactory(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateUpdateMonitoringConfigCommandHandler() commands.UpdateMonitoringConfigCommandHandler {
	var f commands.SettingsUoWFactory = FuncSettingsUoWFactory(func() commands.SettingsUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateMonitoringConfigCommandHandler(f, c.logger)
}

func (c *CompositionRoot) CreateRunMonitorCycleCommandHandler() commands.RunMonitorCycleCommandHandler {
	var f commands.MonitorUoWFactory = FuncMonitorUoWFactory(func() commands.MonitorUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRunMonitorCycleCommandHandler(
		f, c.detector, c.clock, c.notifier, c.locker, c.cfg.MonitorCycleTimeout, c.logger,
	)
}

func (c *CompositionRoot) CreateListActiveAlertsQueryHandler() queries.ListActiveAlertsQueryHandler {
	return queries.NewListActiveAlertsQueryHandler(c.gormDB, c.detector, c.clock)
}

func (c *CompositionRoot) CreateListAlertHistoryQueryHandler() queries.ListAlertHistoryQueryHandler {
	return queries.NewListAlertHistoryQueryHandler(c.gormDB, c.detector, c.clock, c.cfg.AlertRetention)
}

func (c *CompositionRoot) CreateListAuditQueryHandler() queries.ListAuditQueryHandler {
	return queries.NewListAuditQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateCheckTransitionQueryHandler() queries.CheckTransitionQueryHandler {
	return queries.NewCheckTransitionQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMonitoringConfigQueryHandler() queries.GetMonitoringConfigQueryHandler {
	return queries.NewGetMonitoringConfigQueryHandler(c.gormDB)
}

// CreateJobManager builds the monitor scheduler and the daily alert purge.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	monitor := jobs.NewMonitorScheduler(
		c.CreateRunMonitorCycleCommandHandler(),
		c.CreateGetMonitoringConfigQueryHandler(),
		c.logger,
	)
	purge := jobs.NewAlertPurgeJob(
		c.CreatePurgeExpiredAlertsCommandHandler(),
		c.cfg.AlertRetention,
		c.cfg.AlertPurgeSchedule,
		c.cfg.DisplayTimezone,
		c.logger,
	)
	return jobs.NewJobManager(monitor, purge)
}

// CreateRouter builds the HTTP surface.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := httpadapter.NewServer(httpadapter.Handlers{
		ApplyTransition:  c.CreateApplyTransitionCommandHandler(),
		CancelJobs:       c.CreateCancelJobsCommandHandler(),
		AcknowledgeAlert: c.CreateAcknowledgeAlertCommandHandler(),
		UpdateConfig:     c.CreateUpdateMonitoringConfigCommandHandler(),
		RunMonitorCycle:  c.CreateRunMonitorCycleCommandHandler(),
		ListActiveAlerts: c.CreateListActiveAlertsQueryHandler(),
		ListAlertHistory: c.CreateListAlertHistoryQueryHandler(),
		ListAudit:        c.CreateListAuditQueryHandler(),
		CheckTransition:  c.CreateCheckTransitionQueryHandler(),
		GetConfig:        c.CreateGetMonitoringConfigQueryHandler(),
	}, c.logger)
	return httpadapter.NewRouter(server, api.OpenAPI, c.logger)
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncAlertUoWFactory func() commands.AlertUoW

func (f FuncAlertUoWFactory) Create() commands.AlertUoW {
	return f()
}

type FuncMonitorUoWFactory func() commands.MonitorUoW

func (f FuncMonitorUoWFactory) Create() commands.MonitorUoW {
	return f()
}

type FuncSettingsUoWFactory func() commands.SettingsUoW

func (f FuncSettingsUoWFactory) Create() commands.SettingsUoW {
	return f()
}
