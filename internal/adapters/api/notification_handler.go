package api

import (
	"net/http"
	"strconv"

	"agromonitor.app/pkg/errors"
	"github.com/gin-gonic/gin"
)

// getNotifications handles GET /api/notifications requests
func (s *HTTPServerAdapter) getNotifications(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.handleError(c, errors.NewFieldValidationError("Validation failed", []errors.FieldError{
				{Field: "limit", Message: "limit must be a positive integer"},
			}))
			return
		}
		limit = parsed
	}

	notifications, err := s.notificationUseCase.GetNotifications(c.Request.Context(), ownerFrom(c), limit)
	if err != nil {
		s.handleError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"notifications": notifications})
}
