package shared

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is an error that knows which HTTP status it maps to.
type AppError struct {
	StatusCode int
	Message    string
	Data       interface{}
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(statusCode int, err error, message string) *AppError {
	return &AppError{StatusCode: statusCode, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return NewAppError(fiber.StatusBadRequest, err, message)
}

func NewValidationError(data interface{}) *AppError {
	return &AppError{StatusCode: fiber.StatusBadRequest, Message: "Validation failed", Data: data}
}

func NewUnauthorizedError(err error, message string) *AppError {
	return NewAppError(fiber.StatusUnauthorized, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return NewAppError(fiber.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return NewAppError(fiber.StatusConflict, err, message)
}

func NewTooManyRequestsError(err error, message string) *AppError {
	return NewAppError(fiber.StatusTooManyRequests, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return NewAppError(fiber.StatusInternalServerError, err, message)
}

// GetAppError unwraps err into an AppError, treating anything unknown as a 500.
func GetAppError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewAppError(fiberErr.Code, err, fiberErr.Message)
	}

	return NewInternalError(err, "Internal Server Error")
}
