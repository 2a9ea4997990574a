package handler

import (
	"github.com/aishop/storefront/internal/pkg/validate"
)

// echoValidator adapts the shared input validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validate.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{v: validate.New()}
}

// Validate satisfies the echo.Validator interface. Failures are domain
// validation errors, rendered as 400 by the central error handler.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
