// Package respond writes the API's JSON bodies and error envelope.
package respond

import (
	"net/http"
	"strconv"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"

	"github.com/gin-gonic/gin"
)

const loggerKey = "logger"

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// SetLogger stores the request scoped logger used by Error.
func SetLogger(c *gin.Context, l logger.Logger) {
	c.Set(loggerKey, l)
}

// Logger returns the request scoped logger, or a no-op logger.
func Logger(c *gin.Context) logger.Logger {
	if c != nil {
		if l, ok := c.Get(loggerKey); ok {
			if typed, ok := l.(logger.Logger); ok {
				return typed
			}
		}
	}
	return logger.NewNoOpLogger()
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]interface{}{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if status >= http.StatusInternalServerError {
		Logger(c).Error("http.error", fields)
	} else {
		Logger(c).Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError maps err onto the taxonomy status and writes the envelope.
// Unknown errors become INTERNAL_ERROR without details.
func FromError(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	status := errors.HTTPStatus(stdErr.Code)

	var details interface{}
	switch {
	case stdErr.Code == errors.ErrCodeInternal:
		Logger(c).WithError(err).Error("unhandled error", nil)
	case len(stdErr.Metadata) > 0:
		details = stdErr.Metadata
	case stdErr.Details != "":
		details = stdErr.Details
	}

	if stdErr.Code == errors.ErrCodeRateLimited {
		seconds, _ := stdErr.Metadata["retryAfterSeconds"].(int)
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
	}

	Error(c, status, string(stdErr.Code), stdErr.Message, details)
}
