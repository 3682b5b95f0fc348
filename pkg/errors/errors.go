package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeForbidden indicates the caller lacks ownership or the required role
	ErrorTypeForbidden ErrorType = "FORBIDDEN"

	// ErrorTypeShopClosed indicates the requested day is not an open day for the shop
	ErrorTypeShopClosed ErrorType = "SHOP_CLOSED"

	// ErrorTypeSlotUnavailable indicates the requested interval overlaps an existing
	// booking, including overlaps detected at write time
	ErrorTypeSlotUnavailable ErrorType = "SLOT_UNAVAILABLE"

	// ErrorTypeAlreadyLiked indicates the caller already liked the review
	ErrorTypeAlreadyLiked ErrorType = "ALREADY_LIKED"

	// ErrorTypeInvalidTransition indicates a booking status transition that the
	// state machine does not permit
	ErrorTypeInvalidTransition ErrorType = "INVALID_TRANSITION"

	// ErrorTypeInvalidHours indicates business hours with closing <= opening
	ErrorTypeInvalidHours ErrorType = "INVALID_HOURS"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeForbidden,
		Message: message,
	}
}

// NewShopClosedError creates a new shop closed error
func NewShopClosedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeShopClosed,
		Message: message,
	}
}

// NewSlotUnavailableError creates a new slot unavailable error
func NewSlotUnavailableError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeSlotUnavailable,
		Message: message,
	}
}

// NewAlreadyLikedError creates a new already liked error
func NewAlreadyLikedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeAlreadyLiked,
		Message: message,
	}
}

// NewInvalidTransitionError creates a new invalid transition error
func NewInvalidTransitionError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidTransition,
		Message: message,
	}
}

// NewInvalidHoursError creates a new invalid hours error
func NewInvalidHoursError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidHours,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}
