package serverutils

import (
	"strings"

	"synaptiq-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags and converts violations into a
// client-facing validation error.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperror.NewValidation("invalid request payload")
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, fieldError.Field()+" failed on "+fieldError.Tag())
	}
	return apperror.NewValidation("validation failed: %s", strings.Join(details, ", "))
}
