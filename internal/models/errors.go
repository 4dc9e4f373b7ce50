package models

import (
	"errors"
	"fmt"
)

// Error codes shared by repositories, services and handlers
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateConnection = "DUPLICATE_CONNECTION"
	CodeUnauthenticated     = "UNAUTHENTICATED"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeInternal            = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Any *AppError with the same code matches.
var (
	ErrNotFound            = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrDuplicateConnection = &AppError{Code: CodeDuplicateConnection, Message: "connection request already exists"}
	ErrUnauthenticated     = &AppError{Code: CodeUnauthenticated, Message: "user not authenticated"}
	ErrValidation          = &AppError{Code: CodeValidation, Message: "validation failed"}
	ErrInvalidTransition   = &AppError{Code: CodeInvalidTransition, Message: "invalid status transition"}
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
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

// Is reports whether target is an *AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewDuplicateConnectionError(a, b string) *AppError {
	return &AppError{
		Code:    CodeDuplicateConnection,
		Message: fmt.Sprintf("a connection between %s and %s already exists", a, b),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewInvalidTransitionError(from, to ConnectionStatus) *AppError {
	return &AppError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot move connection from %s to %s", from, to),
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// ErrorCode extracts the AppError code, or CodeInternal for foreign errors.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
