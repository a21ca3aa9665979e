package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Application error types organized by category for better error handling

type ErrorType int

// Domain/Business Logic Errors - errors related to business rules and validation
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeValidation
	ErrorTypeNotFound
	ErrorTypeAlreadyExists

	// Infrastructure Errors - errors related to external systems and services
	ErrorTypeDatabase
	ErrorTypeExternalAPI
	ErrorTypeNotification

	// System/Configuration Errors - errors related to system setup and configuration
	ErrorTypeConfiguration
	ErrorTypeInternal
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeNotFound:
		return "NOT_FOUND_ERROR"
	case ErrorTypeAlreadyExists:
		return "ALREADY_EXISTS_ERROR"
	case ErrorTypeDatabase:
		return "DATABASE_ERROR"
	case ErrorTypeExternalAPI:
		return "EXTERNAL_API_ERROR"
	case ErrorTypeNotification:
		return "NOTIFICATION_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	case ErrorTypeInternal:
		return "INTERNAL_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// Short aliases used across the adapters
const (
	ValidationError    = ErrorTypeValidation
	NotFoundError      = ErrorTypeNotFound
	AlreadyExistsError = ErrorTypeAlreadyExists
	DatabaseError      = ErrorTypeDatabase
	ExternalAPIError   = ErrorTypeExternalAPI
	NotificationError  = ErrorTypeNotification
	ConfigurationError = ErrorTypeConfiguration
	InternalError      = ErrorTypeInternal
)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  []FieldError
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error category to the status code returned to API callers
func (e *AppError) HTTPStatus() int {
	switch e.Type {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case AlreadyExistsError:
		return http.StatusConflict
	case ExternalAPIError, NotificationError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Domain/Business Logic Error Constructors
func NewValidationError(message string) *AppError {
	return New(ValidationError, message)
}

// NewFieldValidationError creates a validation error carrying per-field messages
func NewFieldValidationError(message string, fields []FieldError) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: message,
		Fields:  fields,
	}
}

func NewNotFoundError(message string) *AppError {
	return New(NotFoundError, message)
}

func NewAlreadyExistsError(message string) *AppError {
	return New(AlreadyExistsError, message)
}

// Infrastructure Error Constructors
func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(DatabaseError, message, cause)
}

func NewExternalAPIError(message string, cause error) *AppError {
	return Wrap(ExternalAPIError, message, cause)
}

func NewNotificationError(message string, cause error) *AppError {
	return Wrap(NotificationError, message, cause)
}

// System/Configuration Error Constructors
func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ConfigurationError, message, cause)
}

func NewInternalError(message string, cause error) *AppError {
	return Wrap(InternalError, message, cause)
}

// typeOf returns the type of the outermost AppError in the chain
func typeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// Helper functions for error type checking
func IsNotFoundError(err error) bool {
	return typeOf(err) == NotFoundError
}

func IsAlreadyExistsError(err error) bool {
	return typeOf(err) == AlreadyExistsError
}

func IsValidationError(err error) bool {
	return typeOf(err) == ValidationError
}

func IsDatabaseError(err error) bool {
	return typeOf(err) == DatabaseError
}

func IsExternalAPIError(err error) bool {
	return typeOf(err) == ExternalAPIError
}

func IsConfigurationError(err error) bool {
	return typeOf(err) == ConfigurationError
}
