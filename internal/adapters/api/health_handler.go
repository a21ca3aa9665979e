package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const statusHealthy = "healthy"

// HealthResponse reports the status of every checked component
type HealthResponse struct {
	Status     string      `json:"status"`
	Components interface{} `json:"components"`
}

// getHealth handles GET /api/health requests
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	results := s.healthChecker.CheckAll(c.Request.Context())

	overall, code := statusHealthy, http.StatusOK
	for _, result := range results {
		if result.Status != statusHealthy {
			overall, code = "unhealthy", http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, HealthResponse{Status: overall, Components: results})
}
