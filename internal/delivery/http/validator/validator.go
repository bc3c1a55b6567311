// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type echoValidator struct {
	validate *playground.Validate
}

// New builds the validator installed on the Echo server.
func New() echo.Validator {
	return &echoValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate checks the bound request struct against its `validate` tags.
// The raw validation error is returned; handlers translate it into the
// domain's validation error so the response envelope stays uniform.
func (v *echoValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
