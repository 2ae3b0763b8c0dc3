package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tenantkit.dev/api/common/logger"
	"tenantkit.dev/api/internal/audit"
)

const (
	RequestIDHeader = "X-Request-ID"
	maxRequestIDLen = 128
)

// RequestID accepts the caller's X-Request-ID or mints one, echoes it back
// and stamps it into the log fields and the audit provenance of the request.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
			RequestID: &requestID,
		})
		ctx = audit.WithProvenance(ctx, audit.Provenance{
			IPAddress: c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			RequestID: requestID,
		})
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
