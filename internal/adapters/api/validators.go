package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"agromonitor.app/internal/core/watering"
	"agromonitor.app/pkg/errors"
	"agromonitor.app/pkg/validation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validatorsOnce sync.Once
	validatorsErr  error
)

// registerValidators installs the custom tags on gin's validator engine
func registerValidators() error {
	validatorsOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			validatorsErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}

		engine.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		if err := engine.RegisterValidation("soiltype", func(fl validator.FieldLevel) bool {
			return validation.IsValidSoilType(fl.Field().String())
		}); err != nil {
			validatorsErr = err
			return
		}

		validatorsErr = engine.RegisterValidation("schedulestatus", func(fl validator.FieldLevel) bool {
			return watering.StatusFromString(fl.Field().String()).IsUpdateTarget()
		})
	})
	return validatorsErr
}

var fieldMessages = map[string]string{
	"soilConditions.moisture10cm":   "moisture10cm must be a number between 0 and 100",
	"soilConditions.moisture20cm":   "moisture20cm must be a number between 0 and 100",
	"soilConditions.moisture30cm":   "moisture30cm must be a number between 0 and 100",
	"soilConditions.soilType":       "Invalid soil type",
	"weatherConditions.temperature": "Temperature must be between -10 and 50 degrees Celsius",
	"weatherConditions.humidity":    "Humidity must be between 0 and 100 percent",
	"weatherConditions.rainfall":    "Rainfall must be between 0 and 1000 mm",
	"plantAge":                      "Plant age must be between 0 and 100 years",
	"status":                        "Invalid status. Must be one of: completed, skipped, cancelled",
	"notes":                         "Notes cannot exceed 500 characters",
	"actualAmount":                  "actualAmount must not be negative",
}

// bindingError converts gin binding failures into a field-level validation error
func bindingError(err error) error {
	var validationErrs validator.ValidationErrors
	if stderrors.As(err, &validationErrs) {
		fields := make([]errors.FieldError, 0, len(validationErrs))
		for _, fe := range validationErrs {
			field := fieldPath(fe.Namespace())
			message, ok := fieldMessages[field]
			switch {
			case fe.Tag() == "required":
				message = fmt.Sprintf("%s is required", field)
			case !ok:
				message = fmt.Sprintf("%s is invalid", field)
			}
			fields = append(fields, errors.FieldError{Field: field, Message: message})
		}
		return errors.NewFieldValidationError("Validation failed", fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case stderrors.As(err, &syntaxErr):
		return errors.NewValidationError("Invalid JSON body")
	case stderrors.As(err, &typeErr):
		return errors.NewFieldValidationError("Validation failed", []errors.FieldError{
			{Field: typeErr.Field, Message: fmt.Sprintf("%s has the wrong type", typeErr.Field)},
		})
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		return errors.NewValidationError(strings.TrimPrefix(err.Error(), "json: "))
	}
	return errors.NewValidationError("Invalid request format")
}

// fieldPath drops the top-level struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, value, time.Local); err == nil {
		return &t, nil
	}
	return nil, errors.NewFieldValidationError("Validation failed", []errors.FieldError{
		{Field: field, Message: fmt.Sprintf("Please provide a valid %s", field)},
	})
}
