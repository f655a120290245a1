package rest

import (
	"github.com/labstack/echo/v4"

	"github.com/nagarik-sahayak/sahayak/internal/domain"
)

type requestValidator struct{}

// NewValidator returns an echo.Validator that reports the first failing field as a
// domain.ValidationError.
func NewValidator() echo.Validator {
	return requestValidator{}
}

func (requestValidator) Validate(i any) error {
	return domain.Validate(i)
}
