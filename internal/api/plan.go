package api

import (
	"context"
	"encoding/json"

	"github.com/rustybadge/after-sales-quiz/internal/api/respond"
	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/plan"

	"github.com/gin-gonic/gin"
)

// Planner delivers an action plan by email.
type Planner interface {
	Deliver(ctx context.Context, req plan.Request) (*plan.Ack, error)
}

// PlanHandler serves the email delivery endpoint.
type PlanHandler struct {
	planner Planner
}

func NewPlanHandler(planner Planner) *PlanHandler {
	return &PlanHandler{planner: planner}
}

func (h *PlanHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/send-plan", h.SendPlan)
}

// SendPlan emails the submitted PDF. Failures are reported to the caller,
// who may retry.
func (h *PlanHandler) SendPlan(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respond.FromError(c, errors.NewInvalidRequestError(err))
		return
	}
	if err := checkSchema(planRequestSchema, raw); err != nil {
		respond.FromError(c, err)
		return
	}
	var req plan.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		respond.FromError(c, errors.NewInvalidRequestError(err))
		return
	}

	ack, err := h.planner.Deliver(c.Request.Context(), req)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{
		"message": "Email sent successfully",
		"data":    ack,
	})
}
