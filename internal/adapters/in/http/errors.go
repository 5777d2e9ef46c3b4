package http

import (
	"errors"
	"net/http"

	"fleetwise/internal/core/application/usecases/commands"
	"fleetwise/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusFor classifies an application error into an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, commands.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, commands.ErrJobBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err. Internal errors are logged and
// answered with a generic message.
func (s *Server) fail(ctx echo.Context, err error) error {
	code := statusFor(err)

	message := err.Error()
	switch code {
	case http.StatusInternalServerError:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		message = "Internal server error"
	case http.StatusServiceUnavailable:
		ctx.Response().Header().Set("Retry-After", "1")
	}

	return ctx.JSON(code, Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
