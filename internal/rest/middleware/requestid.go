package middleware

import (
	"github.com/docuforge/docuforge/internal/types"
	"github.com/gin-gonic/gin"
)

const HeaderRequestID = "X-Request-ID"

// RequestIDMiddleware propagates the caller's request id, generating one
// when absent, and stores it on the request context for logging.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = types.GenerateUUID()
		}

		ctx := types.SetRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(HeaderRequestID, requestID)

		c.Next()
	}
}
