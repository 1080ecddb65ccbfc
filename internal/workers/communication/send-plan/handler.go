// internal/workers/communication/send-plan/handler.go
package sendplan

import (
	"context"
	"encoding/json"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/metrics"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"
	"github.com/rustybadge/after-sales-quiz/internal/plan"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "send-plan"
)

// Deliverer sends a plan email.
type Deliverer interface {
	Deliver(ctx context.Context, req plan.Request) (*plan.Ack, error)
}

type Handler struct {
	config     *Config
	service    Deliverer
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, service Deliverer, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = observability.Noop()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		service:    service,
		logger:     l,
		obs:        obs,
		errHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	raw := []byte(job.Variables)
	if res, err := inputSchema.ValidateJSON(raw); err != nil || !res.Valid {
		h.failJob(ctx, client, job, schemaError(res, err))
		return
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		h.failJob(ctx, client, job, errors.NewInvalidRequestError(err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	ack, err := h.service.Deliver(ctx, input.toRequest())
	if err != nil {
		return nil, err
	}
	return &Output{
		Success:   true,
		Message:   "Email sent successfully",
		MessageID: ack.MessageID,
		Provider:  ack.Provider,
		SentAt:    ack.SentAt,
	}, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	bpmnErr := h.errHandler.HandleJobError(ctx, client, job, err)
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, bpmnErr.Code).Inc()
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
