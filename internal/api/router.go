// Package api exposes the quiz over HTTP.
package api

import (
	"github.com/rustybadge/after-sales-quiz/internal/api/middleware"
	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Server        config.ServerConfig
	Logger        logger.Logger
	Observability *observability.Observability
	Renderer      Renderer
	Planner       Planner
	Ready         ReadyFunc
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(d Deps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(logger.Component(log, "api")),
		middleware.Recovery(),
		middleware.Metrics(),
		middleware.CORS(d.Server.CORSOrigins),
		middleware.BodyLimit(d.Server.MaxBodyBytes),
	)

	registerHealth(r, d.Ready)

	api := r.Group("/api/v1")
	NewQuizHandler(d.Renderer, d.Observability).RegisterRoutes(api)
	NewPlanHandler(d.Planner).RegisterRoutes(api)

	return r
}
