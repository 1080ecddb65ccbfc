package middleware

import (
	"net/http"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/api/respond"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"

	"github.com/gin-gonic/gin"
)

// Logging emits a structured log per request and stores a request scoped
// logger for handlers.
func Logging(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := RequestIDFromContext(c)
		respond.SetLogger(c, log.WithFields(map[string]interface{}{"request_id": reqID}))

		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]interface{}{
			"request_id":  reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"bytes":       c.Writer.Size(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		log.Info("request.complete", fields)
	}
}
