package httpserver

import (
	"github.com/go-playground/validator/v10"

	"github.com/ardhiansyah/toko-api/internal/apperr"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate satisfies echo.Validator; tag failures become ValidationErrors
// so the central error handler answers 400.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}
