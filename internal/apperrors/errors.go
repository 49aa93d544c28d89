package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConcurrency indicates a lock wait timeout, deadlock or serialization failure.
// The operation left no partial state behind and may be retried.
var ErrConcurrency = errors.New("concurrent modification, retry the operation")

// ErrStorage indicates the storage layer failed while applying changes.
var ErrStorage = errors.New("storage failure")

// ErrInternal indicates a broken internal invariant such as an illegal state transition.
var ErrInternal = errors.New("internal error")

// ErrUnauthorized indicates the caller could not be identified.
var ErrUnauthorized = errors.New("unauthorized")

// AppError carries an HTTP-ish code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewNotFoundError wraps ErrNotFound with the kind and id of the missing resource.
func NewNotFoundError(kind, id string) error {
	return NewAppError(http.StatusNotFound, fmt.Sprintf("%s %s not found", kind, id), ErrNotFound)
}

// NewStorageError wraps err so that it matches ErrStorage.
func NewStorageError(message string, err error) error {
	return NewAppError(http.StatusInternalServerError, message, fmt.Errorf("%w: %w", ErrStorage, err))
}

// NewConcurrencyError wraps err so that it matches ErrConcurrency.
func NewConcurrencyError(message string, err error) error {
	return NewAppError(http.StatusConflict, message, fmt.Errorf("%w: %w", ErrConcurrency, err))
}
