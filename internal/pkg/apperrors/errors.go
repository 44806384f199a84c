package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("resource not found")

	ErrInvalidArgument = errors.New("invalid argument")

	ErrValidation = errors.New("validation failed")

	ErrAlreadyExists = errors.New("resource already exists")

	ErrPersistence = errors.New("persistence error")

	ErrDatabase = fmt.Errorf("%w: database error", ErrPersistence)

	ErrInternalServer = errors.New("internal server error")

	ErrInvalidAmount = errors.New("invalid amount")

	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrOverdraftExceeded = errors.New("overdraft limit exceeded")

	ErrAuthenticationFailed = errors.New("authentication failed")

	ErrAccountLocked = errors.New("account is locked")

	ErrUnsupportedAccountType = errors.New("unsupported account type")

	ErrCancelled = errors.New("operation cancelled")

	ErrUnauthorized = errors.New("unauthorized")
)

type ValidationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func NewValidationError(field, message string) error {

	return fmt.Errorf("%w: %w", ErrValidation, &ValidationError{Field: field, Message: message})
}

type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func WrapDatabaseError(cause error, message string) error {
	return &AppError{
		Code:    "DB_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrDatabase, cause),
	}
}

func WrapStorageError(cause error, message string) error {
	return &AppError{
		Code:    "STORAGE_ERROR",
		Message: message,
		Cause:   fmt.Errorf("%w: %w", ErrPersistence, cause),
	}
}

// AuthError reports a rejected password check together with what is left of
// the attempt budget.
type AuthError struct {
	AccountNumber     string
	RemainingAttempts int
	Locked            bool
}

func (e *AuthError) Error() string {
	if e.Locked {
		return fmt.Sprintf("account %s is locked due to multiple failed password attempts", e.AccountNumber)
	}
	return fmt.Sprintf("incorrect password for account %s: %d attempts remaining", e.AccountNumber, e.RemainingAttempts)
}

func (e *AuthError) Unwrap() error {
	if e.Locked {
		return ErrAccountLocked
	}
	return ErrAuthenticationFailed
}
