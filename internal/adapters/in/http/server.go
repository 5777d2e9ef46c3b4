package http

import (
	"context"
	"log/slog"
	"net/http"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/core/application/usecases/queries"
	"fleetwise/internal/core/domain/model/kernel"
	"fleetwise/internal/core/domain/model/monitoring"

	"github.com/labstack/echo/v4"
)

// Use-case ports of the HTTP adapter. The command and query handlers
// satisfy them directly.
type (
	TransitionApplier interface {
		Handle(ctx context.Context, command commands.ApplyTransitionCommand) (commands.ApplyTransitionResult, error)
	}
	JobCanceler interface {
		Handle(ctx context.Context, command commands.CancelJobsCommand) ([]commands.CanceledJob, error)
	}
	AlertAcknowledger interface {
		Handle(ctx context.Context, command commands.AcknowledgeAlertCommand) (bool, error)
	}
	ConfigUpdater interface {
		Handle(ctx context.Context, command commands.UpdateMonitoringConfigCommand) (monitoring.Config, error)
	}
	CycleRunner interface {
		Handle(ctx context.Context, command commands.RunMonitorCycleCommand) (commands.CycleResult, error)
	}
	ActiveAlertsReader interface {
		Handle(ctx context.Context, query queries.ListActiveAlertsQuery) (queries.ListActiveAlertsQueryResponse, error)
	}
	AlertHistoryReader interface {
		Handle(ctx context.Context, query queries.ListAlertHistoryQuery) ([]queries.AlertView, error)
	}
	AuditReader interface {
		Handle(ctx context.Context, query queries.ListAuditQuery) ([]queries.AuditEntry, error)
	}
	TransitionChecker interface {
		Handle(ctx context.Context, query queries.CheckTransitionQuery) (queries.CheckTransitionQueryResponse, error)
	}
	ConfigReader interface {
		Handle(ctx context.Context, query queries.GetMonitoringConfigQuery) (monitoring.Config, error)
	}
)

// Handlers groups the use cases the server delegates to.
type Handlers struct {
	ApplyTransition  TransitionApplier
	CancelJobs       JobCanceler
	AcknowledgeAlert AlertAcknowledger
	UpdateConfig     ConfigUpdater
	RunMonitorCycle  CycleRunner

	ListActiveAlerts ActiveAlertsReader
	ListAlertHistory AlertHistoryReader
	ListAudit        AuditReader
	CheckTransition  TransitionChecker
	GetConfig        ConfigReader
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h      Handlers
	logger *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{h: handlers, logger: logger.With("component", "http")}
}

// ApplyTransition handles POST /api/v1/jobs/{jobId}/status.
func (s *Server) ApplyTransition(ctx echo.Context) error {
	jobID, err := pathUUID(ctx, "jobId")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req TransitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actorID, err := kernel.OptionalUUIDFromBytes(req.ActorID)
	if err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewApplyTransitionCommand(jobID, req.Status, actorID, req.Note)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.ApplyTransition.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toTransitionResult(result))
}

// ListAudit handles GET /api/v1/jobs/{jobId}/audit.
func (s *Server) ListAudit(ctx echo.Context) error {
	jobID, err := pathUUID(ctx, "jobId")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewListAuditQuery(jobID, ctx.QueryParam("order"))
	if err != nil {
		return s.fail(ctx, err)
	}

	entries, err := s.h.ListAudit.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toAuditEntries(entries))
}

// CheckTransition handles GET /api/v1/jobs/{jobId}/transitions/{status}.
func (s *Server) CheckTransition(ctx echo.Context) error {
	jobID, err := pathUUID(ctx, "jobId")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewCheckTransitionQuery(jobID, ctx.Param("status"))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.h.CheckTransition.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toTransitionCheck(result))
}

// CancelJob handles POST /api/v1/jobs/{jobId}/cancel.
func (s *Server) CancelJob(ctx echo.Context) error {
	jobID, err := pathUUID(ctx, "jobId")
	if err != nil {
		return s.fail(ctx, err)
	}

	var req CancelRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actorID, err := kernel.OptionalUUIDFromBytes(req.ActorID)
	if err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewCancelJobCommand(jobID, actorID, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.cancel(ctx, command)
}

// CancelJobs handles POST /api/v1/jobs/cancel.
func (s *Server) CancelJobs(ctx echo.Context) error {
	var req BulkCancelRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	actorID, err := kernel.OptionalUUIDFromBytes(req.ActorID)
	if err != nil {
		return s.fail(ctx, err)
	}

	jobIDs := make([]kernel.UUID, len(req.JobIDs))
	for i, raw := range req.JobIDs {
		if jobIDs[i], err = kernel.UUIDFromBytes(raw[:]); err != nil {
			return s.fail(ctx, err)
		}
	}

	command, err := commands.NewCancelJobsCommand(jobIDs, actorID, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.cancel(ctx, command)
}

func (s *Server) cancel(ctx echo.Context, command commands.CancelJobsCommand) error {
	canceled, err := s.h.CancelJobs.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toCanceledJobs(canceled))
}

// ListActiveAlerts handles GET /api/v1/alerts.
func (s *Server) ListActiveAlerts(ctx echo.Context) error {
	return s.listActive(ctx, nil)
}

// ListDriverAlerts handles GET /api/v1/drivers/{driverId}/alerts.
func (s *Server) ListDriverAlerts(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.listActive(ctx, &driverID)
}

func (s *Server) listActive(ctx echo.Context, driverID *kernel.UUID) error {
	query, err := queries.NewListActiveAlertsQuery(driverID)
	if err != nil {
		return s.fail(ctx, err)
	}

	page, err := s.h.ListActiveAlerts.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toAlertPage(page))
}

// ListDriverAlertHistory handles GET /api/v1/drivers/{driverId}/alerts/history.
func (s *Server) ListDriverAlertHistory(ctx echo.Context) error {
	driverID, err := pathUUID(ctx, "driverId")
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewListAlertHistoryQuery(driverID)
	if err != nil {
		return s.fail(ctx, err)
	}

	history, err := s.h.ListAlertHistory.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toAlerts(history))
}

// AcknowledgeAlert handles POST /api/v1/alerts/{alertId}/acknowledge.
func (s *Server) AcknowledgeAlert(ctx echo.Context) error {
	alertID, err := pathUUID(ctx, "alertId")
	if err != nil {
		return s.fail(ctx, err)
	}

	command, err := commands.NewAcknowledgeAlertCommand(alertID)
	if err != nil {
		return s.fail(ctx, err)
	}

	acknowledged, err := s.h.AcknowledgeAlert.Handle(ctx.Request().Context(), command)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, AcknowledgeResult{Acknowledged: acknowledged})
}

// GetMonitoringConfig handles GET /api/v1/monitoring/config.
func (s *Server) GetMonitoringConfig(ctx echo.Context) error {
	cfg, err := s.h.GetConfig.Handle(ctx.Request().Context(), queries.NewGetMonitoringConfigQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, cfg)
}

// UpdateMonitoringConfig handles PUT /api/v1/monitoring/config. Omitted
// fields keep their current value.
func (s *Server) UpdateMonitoringConfig(ctx echo.Context) error {
	var update monitoring.Update
	if err := ctx.Bind(&update); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cfg, err := s.h.UpdateConfig.Handle(ctx.Request().Context(), commands.NewUpdateMonitoringConfigCommand(update))
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, cfg)
}

// RunMonitorCycle handles POST /api/v1/monitoring/run.
func (s *Server) RunMonitorCycle(ctx echo.Context) error {
	result, err := s.h.RunMonitorCycle.Handle(ctx.Request().Context(), commands.NewRunMonitorCycleCommand())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toCycleResult(result))
}
