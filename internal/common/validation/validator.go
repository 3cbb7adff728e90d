package validation

import (
	"github.com/go-playground/validator/v10"
)

// EchoValidator plugs go-playground/validator into echo's c.Validate.
type EchoValidator struct {
	validate *validator.Validate
}

func New() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

func (v *EchoValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
