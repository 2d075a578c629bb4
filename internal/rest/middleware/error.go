package middleware

import (
	"strconv"

	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/gin-gonic/gin"
)

// ErrorHandler converts errors attached via c.Error into the standard
// error envelope with the HTTP status the API contract promises. Rate
// limit rejections additionally carry a Retry-After header.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatus(err)

		if ierr.IsRateLimit(err) {
			if details := ierr.Details(err); details != nil {
				if retryAfter, ok := details["retry_after_seconds"].(int); ok {
					c.Header("Retry-After", strconv.Itoa(retryAfter))
				}
			}
		}

		if status >= 500 {
			log.Errorw("request failed", "status", status, "error", err)
		}

		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
