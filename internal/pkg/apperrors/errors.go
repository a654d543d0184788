package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error independently of its message
type Kind string

const (
	// KindValidation marks malformed or missing input
	KindValidation Kind = "VALIDATION"
	// KindConflict marks a uniqueness violation (duplicate title)
	KindConflict Kind = "CONFLICT"
	// KindNotFound marks a referenced id that does not resolve to a record
	KindNotFound Kind = "NOT_FOUND"
	// KindPersistence marks any failure surfaced by the store
	KindPersistence Kind = "PERSISTENCE"
)

// Common errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
	ErrValidationFailed = errors.New("validation failed")
	ErrPersistence      = errors.New("persistence failure")
)

// sentinel returns the exported sentinel matching the kind
func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidationFailed
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrResourceNotFound
	default:
		return ErrPersistence
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Kind    Kind
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.sentinel().Error()
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel of the error's kind, e.g.
// errors.Is(err, ErrConflict) for any conflict error regardless of its cause.
func (e *CustomError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// NewCustomError creates a CustomError of the given kind with an underlying cause
func NewCustomError(kind Kind, message string, cause error) *CustomError {
	return &CustomError{
		Kind:    kind,
		Err:     cause,
		Message: message,
	}
}

// WithCode sets the error code and returns the error
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithDetails sets the error details and returns the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return NewCustomError(KindValidation, message, ErrValidationFailed)
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return NewCustomError(KindConflict, message, ErrConflict)
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return NewCustomError(KindNotFound, message, ErrResourceNotFound)
}

// KindOf reports the kind of err. Errors that carry no kind are treated as
// persistence failures.
func KindOf(err error) Kind {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindPersistence
}

// Wrap prefixes err with an operation message, keeps err as the cause and
// inherits its kind. Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &CustomError{
		Kind:    KindOf(err),
		Err:     err,
		Message: fmt.Sprintf("%s: %s", message, err.Error()),
	}
}
