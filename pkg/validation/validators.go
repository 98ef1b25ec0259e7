package validation

import (
	"reflect"
	"strings"

	"signup-funnel-backend/pkg/phone"

	"github.com/go-playground/validator/v10"
)

// MinNameTokens is how many whitespace-separated words a full name needs.
const MinNameTokens = 2

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("full_name", FullName)
	_ = v.RegisterValidation("uk_phone", UKPhone)
	_ = v.RegisterValidation("uk_e164", UKInternationalPhone)
	_ = v.RegisterValidation("accepted", Accepted)
}

// New returns a validator with the custom tags registered and field names
// reported by their json key.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// FullName requires at least first and last name.
func FullName(fl validator.FieldLevel) bool {
	return len(strings.Fields(fl.Field().String())) >= MinNameTokens
}

// UKPhone validates a UK number in national form (spaces allowed)
func UKPhone(fl validator.FieldLevel) bool {
	return phone.IsValidUK(fl.Field().String())
}

// UKInternationalPhone validates a UK number in +44 form
func UKInternationalPhone(fl validator.FieldLevel) bool {
	return phone.IsInternationalUK(fl.Field().String())
}

// Accepted requires a boolean field to be true
func Accepted(fl validator.FieldLevel) bool {
	return fl.Field().Bool()
}
