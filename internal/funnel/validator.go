package funnel

import (
	"signup-funnel-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ValidationResult maps a field (json key) to its error message. An empty
// result means the form is valid.
type ValidationResult map[string]string

// Valid reports whether no field carries an error.
func (r ValidationResult) Valid() bool {
	for _, msg := range r {
		if msg != "" {
			return false
		}
	}
	return true
}

// Validator checks a SignupForm snapshot. Every field rule runs, so several
// errors can surface at once. The honeypot is not validated here.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validation.New()}
}

func (v *Validator) Validate(form SignupForm) ValidationResult {
	err := v.validate.Struct(form)
	if err == nil {
		return ValidationResult{}
	}
	return ValidationResult(validation.FormatFieldErrors(err))
}
