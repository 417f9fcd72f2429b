package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/mindforge/forge_api/shared"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("stat_range", validateStatRange)
	validate.RegisterValidation("not_blank", validateNotBlank)
}

// Validate runs struct validation and wraps failures as a 400 AppError with
// per-field messages.
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return shared.NewValidationError(FormatValidationErrors(err))
	}
	return nil
}

func validateStatRange(fl validator.FieldLevel) bool {
	v := fl.Field().Int()
	return v >= shared.MinStat && v <= shared.MaxStat
}

func validateNotBlank(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func FormatValidationErrors(err error) []ValidationError {
	var out []ValidationError

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return out
	}

	for _, fieldError := range validationErrors {
		var message string

		switch fieldError.Tag() {
		case "required":
			message = fieldError.Field() + " is required"
		case "email":
			message = "Invalid email format"
		case "uuid":
			message = fieldError.Field() + " must be a valid id"
		case "min":
			message = fieldError.Field() + " must be at least " + fieldError.Param()
		case "max":
			message = fieldError.Field() + " must be at most " + fieldError.Param()
		case "stat_range":
			message = fieldError.Field() + " must be between 10 and 100"
		case "not_blank":
			message = fieldError.Field() + " must not be blank"
		case "oneof":
			message = fieldError.Field() + " must be one of: " + fieldError.Param()
		default:
			message = fieldError.Field() + " is invalid"
		}

		out = append(out, ValidationError{
			Field:   fieldError.Field(),
			Message: message,
		})
	}

	return out
}
