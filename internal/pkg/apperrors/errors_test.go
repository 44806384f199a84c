package apperrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		expected string
	}{
		{
			name: "With Code",
			appError: &AppError{
				Code:    "TEST_CODE",
				Message: "This is a test error",
			},
			expected: "[TEST_CODE] This is a test error",
		},
		{
			name: "Without Code",
			appError: &AppError{
				Message: "This is a test error without code",
			},
			expected: "This is a test error without code",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.appError.Error()
			if result != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, result)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("customerId", "cannot be empty")

	assert.ErrorIs(t, err, ErrValidation)
	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, "customerId", vErr.Field)
	assert.Equal(t, "validation failed for field 'customerId': cannot be empty", vErr.Error())

	noField := &ValidationError{Message: "bad input"}
	assert.Equal(t, "validation failed: bad input", noField.Error())
}

func TestStorageErrorsWrapPersistence(t *testing.T) {
	cause := errors.New("disk full")

	storageErr := WrapStorageError(cause, "failed to write accounts")
	assert.ErrorIs(t, storageErr, ErrPersistence)
	assert.ErrorIs(t, storageErr, cause)
	assert.Equal(t, "[STORAGE_ERROR] failed to write accounts", storageErr.Error())

	dbErr := WrapDatabaseError(cause, "failed to commit snapshot")
	assert.ErrorIs(t, dbErr, ErrDatabase)
	assert.ErrorIs(t, dbErr, ErrPersistence)
}

func TestAuthError(t *testing.T) {
	t.Run("Attempts remaining", func(t *testing.T) {
		err := &AuthError{AccountNumber: "ab12cd34", RemainingAttempts: 2}
		assert.ErrorIs(t, err, ErrAuthenticationFailed)
		assert.NotErrorIs(t, err, ErrAccountLocked)
		assert.Equal(t, "incorrect password for account ab12cd34: 2 attempts remaining", err.Error())
	})

	t.Run("Locked", func(t *testing.T) {
		err := &AuthError{AccountNumber: "ab12cd34", Locked: true}
		assert.ErrorIs(t, err, ErrAccountLocked)
		assert.NotErrorIs(t, err, ErrAuthenticationFailed)
		assert.Contains(t, err.Error(), "locked")
	})
}
