package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *AppError
		expected string
	}{
		{
			name: "ErrorWithoutCause",
			setup: func() *AppError {
				return New(ValidationError, "test validation error")
			},
			expected: "VALIDATION_ERROR: test validation error",
		},
		{
			name: "ErrorWithCause",
			setup: func() *AppError {
				cause := fmt.Errorf("original error")
				return Wrap(DatabaseError, "database operation failed", cause)
			},
			expected: "DATABASE_ERROR: database operation failed (caused by: original error)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup()
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("original error")
	err := Wrap(ExternalAPIError, "API call failed", cause)
	assert.Equal(t, cause, err.Unwrap())

	assert.Nil(t, New(NotFoundError, "resource not found").Unwrap())
}

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		errType  ErrorType
		expected int
	}{
		{ValidationError, http.StatusBadRequest},
		{NotFoundError, http.StatusNotFound},
		{AlreadyExistsError, http.StatusConflict},
		{ExternalAPIError, http.StatusServiceUnavailable},
		{NotificationError, http.StatusServiceUnavailable},
		{DatabaseError, http.StatusInternalServerError},
		{InternalError, http.StatusInternalServerError},
		{ErrorTypeUnknown, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.errType.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.errType, "x").HTTPStatus())
		})
	}
}

func TestNewFieldValidationError(t *testing.T) {
	err := NewFieldValidationError("Validation failed", []FieldError{
		{Field: "soilConditions.moisture10cm", Message: "must be between 0 and 100"},
	})

	assert.Equal(t, ValidationError, err.Type)
	assert.Len(t, err.Fields, 1)
	assert.Equal(t, "soilConditions.moisture10cm", err.Fields[0].Field)
}

func TestErrorChaining(t *testing.T) {
	base := NewNotFoundError("location not found")
	wrapped := fmt.Errorf("create schedule: %w", base)

	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.False(t, IsNotFoundError(fmt.Errorf("plain error")))
}

func TestTypeCheckers(t *testing.T) {
	assert.True(t, IsValidationError(NewValidationError("bad")))
	assert.True(t, IsAlreadyExistsError(NewAlreadyExistsError("dup")))
	assert.True(t, IsDatabaseError(NewDatabaseError("db", nil)))
	assert.True(t, IsExternalAPIError(NewExternalAPIError("api", nil)))
	assert.True(t, IsConfigurationError(NewConfigurationError("cfg", nil)))
	assert.Equal(t, NotificationError, NewNotificationError("push", nil).Type)
	assert.Equal(t, InternalError, NewInternalError("boom", nil).Type)
}
