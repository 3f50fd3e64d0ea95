package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/application/dispatcher"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps application errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrInvalidStateTransition):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, dispatcher.ErrQueueFull), errors.Is(err, dispatcher.ErrStopped):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as an Error body. Internal errors are logged, not exposed.
func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("%s %s: %v", ctx.Request().Method, ctx.Path(), err)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}

// ErrorHandler renders errors returned by handlers and middleware, echo's own
// HTTPError included, in the Error shape.
func ErrorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if ctx.Request().Method == http.MethodHead {
			_ = ctx.NoContent(he.Code)
			return
		}
		_ = ctx.JSON(he.Code, Error{Code: he.Code, Message: message})
		return
	}
	_ = writeError(ctx, err)
}
