package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/rustybadge/after-sales-quiz/internal/api/respond"
	"github.com/rustybadge/after-sales-quiz/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// Recovery recovers from panics and returns a standardized error response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				respond.Logger(c).Error("panic", map[string]interface{}{
					"request_id": RequestIDFromContext(c),
					"error":      rec,
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				respond.Error(c, http.StatusInternalServerError, string(errors.ErrCodeInternal), "Unexpected server error", nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}
