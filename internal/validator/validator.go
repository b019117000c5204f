package validator

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var pinCodeRgx = regexp.MustCompile(`^\d{6}$`)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("pincode", validatePinCode)

	return validator
}

func validatePinCode(fl validator.FieldLevel) bool {
	return pinCodeRgx.MatchString(fl.Field().String())
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "pincode":
		return "must be a 6-digit postal code"
	default:
		return "is invalid"
	}
}
