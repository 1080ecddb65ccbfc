package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/api/respond"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyFunc reports whether backing services are reachable.
type ReadyFunc func(ctx context.Context) error

func registerHealth(r *gin.Engine, ready ReadyFunc) {
	r.GET("/health", func(c *gin.Context) {
		respond.OK(c, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.GET("/ready", func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				respond.JSON(c, http.StatusServiceUnavailable, gin.H{
					"status": "not ready",
					"error":  err.Error(),
				})
				return
			}
		}
		respond.OK(c, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
