package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldMessages maps a field (json key) and a failed tag to the message shown
// next to that field. "*" is the fallback for any other tag on the field.
var FieldMessages = map[string]map[string]string{
	"fullName": {
		"required": "Full name is required",
		"*":        "Please enter your full name (first and last name)",
	},
	"email": {
		"required": "Email is required",
		"*":        "Please enter a valid email address",
	},
	"phone": {
		"required": "Phone number is required",
		"*":        "Please enter a valid UK phone number",
	},
	"termsAccepted": {
		"*": "You must accept the terms and conditions",
	},
}

// FormatFieldErrors converts validator.ValidationErrors to one message per
// field. Only the first failure of a field is kept, the way a form shows it.
func FormatFieldErrors(err error) map[string]string {
	result := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return result
	}

	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := result[field]; seen {
			continue
		}
		result[field] = formatFieldMessage(e)
	}
	return result
}

func formatFieldMessage(e validator.FieldError) string {
	if byTag, ok := FieldMessages[e.Field()]; ok {
		if msg, ok := byTag[e.Tag()]; ok {
			return msg
		}
		if msg, ok := byTag["*"]; ok {
			return msg
		}
	}
	return formatSingleError(e)
}

// formatSingleError builds a message for fields without an entry in
// FieldMessages, labelled by their json key.
func formatSingleError(e validator.FieldError) string {
	label := e.Field()
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "min":
		return fmt.Sprintf("%s must be at least %s", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, param)
	case "full_name":
		return fmt.Sprintf("%s must contain first and last name", label)
	case "uk_phone", "uk_e164":
		return fmt.Sprintf("%s must be a valid UK phone number", label)
	case "accepted":
		return fmt.Sprintf("%s must be accepted", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}
