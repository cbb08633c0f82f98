// Package apperror defines the domain error taxonomy. Services return these;
// the handler layer maps them to HTTP status codes in one place.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrOperationFailed = errors.New("operation failed")
)

type AppError struct {
	Err     error  // sentinel classifying the error
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int64) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

// NotFoundMessage is NotFound with a caller-supplied message, for lookups
// that aren't keyed by a numeric id.
func NotFoundMessage(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// InvalidCredential is the single externally-visible authentication failure.
// Bad login, expired token, forged signature and wrong signing key all
// collapse to this one value so a caller can never tell which check failed.
func InvalidCredential() *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: "Could not validate credentials",
	}
}

// OperationFailed reports a mutation that unexpectedly affected zero rows.
// Handlers map it to a generic 500 with no internal detail.
func OperationFailed() *AppError {
	return &AppError{
		Err:     ErrOperationFailed,
		Message: "Could not complete request",
	}
}
