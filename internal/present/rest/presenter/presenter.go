package presenter

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func Accepted(c echo.Context, payload any) error {
	return c.JSON(http.StatusAccepted, payload)
}

func BadRequest(c echo.Context, err error) error {
	logClientError(c, "Bad request", err.Error())
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// Invalid reports a rejected field.
func Invalid(c echo.Context, field string, err error) error {
	logClientError(c, "Validation failed", err.Error())
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Field: field})
}

func BadRequestMessage(c echo.Context, msg string) error {
	logClientError(c, "Bad request", msg)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(c echo.Context, msg string) error {
	logClientError(c, "Not found", msg)
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(c echo.Context, err error) error {
	logClientError(c, "Conflict", err.Error())
	return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
}

func Unavailable(c echo.Context, err error) error {
	logClientError(c, "Unavailable", err.Error())
	return c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
}

func InternalError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	slog.ErrorContext(
		ctx, "Internal error",
		slog.String("error", err.Error()),
		slog.String("path", c.Path()),
		slog.String("traceID", trace.SpanContextFromContext(ctx).TraceID().String()),
		slog.String("module", "presenter"),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func logClientError(c echo.Context, kind, msg string) {
	slog.DebugContext(
		c.Request().Context(), kind,
		slog.String("error", msg),
		slog.String("path", c.Path()),
		slog.String("module", "presenter"),
	)
}
