package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorspkg "agromonitor.app/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Status string                 `json:"status"`
	Error  string                 `json:"error"`
	Errors []errorspkg.FieldError `json:"errors,omitempty"`
}

// DataResponse wraps successful payloads
type DataResponse struct {
	Status string      `json:"status"`
	Data   interface{} `json:"data"`
}

// handleError handles different types of application errors
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	var appErr *errorspkg.AppError
	if !errors.As(err, &appErr) {
		slog.Error("Unhandled error", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Status: statusError, Error: "Internal server error"})
		return
	}

	statusCode := appErr.HTTPStatus()
	response := ErrorResponse{Status: statusFail, Error: appErr.Message, Errors: appErr.Fields}

	switch appErr.Type {
	case errorspkg.ExternalAPIError:
		response.Status = statusError
		response.Error = "External service unavailable"
	case errorspkg.NotificationError:
		response.Status = statusError
		response.Error = "Notification service unavailable"
	case errorspkg.ValidationError, errorspkg.NotFoundError, errorspkg.AlreadyExistsError:
	default:
		response.Status = statusError
		response.Error = "Internal server error"
	}

	if statusCode >= http.StatusInternalServerError {
		slog.Error("Request failed", "error", err, "path", c.FullPath(), "status", statusCode)
	}

	c.JSON(statusCode, response)
}

func respond(c *gin.Context, code int, data interface{}) {
	c.JSON(code, DataResponse{Status: statusSuccess, Data: data})
}
