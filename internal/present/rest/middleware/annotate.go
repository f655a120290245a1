package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nagarik-sahayak/sahayak"
)

var tracer = otel.Tracer("rest")

// Annotate opens a span per request and tags it with the complaint or form session
// addressed by the :id path parameter.
func Annotate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Rest.Middleware.Annotate")
		defer span.End()

		span.SetAttributes(attribute.String("Route", c.Path()))

		if id := c.Param("id"); id != "" {
			switch {
			case sahayak.IsComplaintID(id):
				span.SetAttributes(attribute.String("ComplaintId", id))
			case strings.HasPrefix(c.Path(), "/sessions/"):
				span.SetAttributes(attribute.String("SessionId", id))
			}
		}

		c.SetRequest(c.Request().WithContext(ctx))
		err := next(c)
		if err != nil {
			span.RecordError(err)
		}
		span.SetAttributes(attribute.Int("Status", c.Response().Status))
		return err
	}
}
