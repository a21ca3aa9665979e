package api

import (
	"net/http"

	"agromonitor.app/pkg/validation"
	"github.com/gin-gonic/gin"
)

// OwnerHeader carries the authenticated user id set by the upstream auth gateway
const OwnerHeader = "X-Owner-ID"

const ownerKey = "ownerID"

// requireOwner rejects requests without an owner identity
func requireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, ok := validation.TrimAndValidate(c.GetHeader(OwnerHeader))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Status: statusFail,
				Error:  "authentication required",
			})
			return
		}
		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

func ownerFrom(c *gin.Context) string {
	return c.GetString(ownerKey)
}
