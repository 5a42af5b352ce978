package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state
// of the resource (e.g., voiding an already voided transaction).
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// Caller errors rejected synchronously at post time; nothing is persisted.
var (
	// ErrUnbalanced indicates that a transaction's entries do not sum to
	// zero net (total debits != total credits).
	ErrUnbalanced = errors.New("journal entries do not balance")

	// ErrUnknownAccount indicates an entry references a non-existent or
	// soft-deleted account code.
	ErrUnknownAccount = errors.New("unknown or inactive account")

	// ErrInvalidEntryAmount indicates a zero or negative entry amount.
	ErrInvalidEntryAmount = errors.New("entry amount must be positive")
)

// AppError wraps an underlying error with a status code and a message
// suitable for logging at the repository boundary.
type AppError struct {
	Code    int
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

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
