package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// AppError is the application error type carried from services to handlers.
// StatusCode drives the HTTP translation; Code is a stable machine tag.
type AppError struct {
	Code       string
	StatusCode int
	Message    string
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

// Predefined error constructors, one per taxonomy entry.

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:       "BAD_REQUEST",
		StatusCode: fiber.StatusBadRequest,
		Message:    message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		StatusCode: fiber.StatusUnauthorized,
		Message:    message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		StatusCode: fiber.StatusForbidden,
		Message:    message,
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		StatusCode: fiber.StatusNotFound,
		Message:    fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		StatusCode: fiber.StatusConflict,
		Message:    message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		StatusCode: fiber.StatusInternalServerError,
		Message:    "Internal server error",
		Err:        err,
	}
}
