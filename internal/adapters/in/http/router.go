package http

import (
	"log/slog"
	"net/http"

	"fleetwise/internal/telemetry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const openAPIPath = "/api/openapi.yml"

// NewRouter builds the echo instance with every route of the service.
// Requests under /api/v1 are validated against document, the OpenAPI
// contract, before they reach s.
func NewRouter(s *Server, document []byte, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(document)
	if err != nil {
		return nil, err
	}
	validator, err := OpenAPIValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(telemetry.Handler()))
	e.GET(openAPIPath, func(c echo.Context) error {
		return c.Blob(http.StatusOK, "application/yaml", document)
	})
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL(openAPIPath)))

	v1 := e.Group("/api/v1", validator)

	v1.POST("/jobs/cancel", s.CancelJobs)
	v1.POST("/jobs/:jobId/status", s.ApplyTransition)
	v1.GET("/jobs/:jobId/audit", s.ListAudit)
	v1.GET("/jobs/:jobId/transitions/:status", s.CheckTransition)
	v1.POST("/jobs/:jobId/cancel", s.CancelJob)

	v1.GET("/alerts", s.ListActiveAlerts)
	v1.POST("/alerts/:alertId/acknowledge", s.AcknowledgeAlert)
	v1.GET("/drivers/:driverId/alerts", s.ListDriverAlerts)
	v1.GET("/drivers/:driverId/alerts/history", s.ListDriverAlertHistory)

	v1.GET("/monitoring/config", s.GetMonitoringConfig)
	v1.PUT("/monitoring/config", s.UpdateMonitoringConfig)
	v1.POST("/monitoring/run", s.RunMonitorCycle)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				logger.WarnContext(c.Request().Context(), "request", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "request", attrs...)
			return nil
		},
	})
}
