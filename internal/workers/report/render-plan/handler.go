// internal/workers/report/render-plan/handler.go
package renderplan

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/metrics"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "render-plan"
)

// Renderer draws a plan document.
type Renderer interface {
	Render(ctx context.Context, r quiz.Result, opts report.RenderOptions) ([]byte, error)
	FileName(company string) string
}

type Handler struct {
	config     *Config
	renderer   Renderer
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
}

func NewHandler(config *Config, renderer Renderer, obs *observability.Observability, log logger.Logger) *Handler {
	if obs == nil {
		obs = observability.Noop()
	}
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:     config,
		renderer:   renderer,
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
	ctx, span := h.obs.StartSpan(ctx, "render-plan.execute")
	defer span.End()

	if input.QuizResult == nil {
		return nil, errors.NewValidationError("quizResult is required")
	}

	opts := report.RenderOptions{}
	if input.Date != "" {
		d, err := time.Parse("2006-01-02", input.Date)
		if err != nil {
			return nil, errors.NewValidationError(fmt.Sprintf("planDate: %v", err))
		}
		opts.Date = d
	}

	data, err := h.renderer.Render(ctx, *input.QuizResult, opts)
	if err != nil {
		return nil, err
	}
	if h.config.MaxBytes > 0 && len(data) > h.config.MaxBytes {
		return nil, errors.NewReportRenderFailedError(
			fmt.Errorf("rendered plan is %d bytes, limit %d", len(data), h.config.MaxBytes))
	}

	name := h.renderer.FileName(input.QuizResult.Company)
	h.logger.Info("plan rendered", map[string]interface{}{
		"fileName":  name,
		"sizeBytes": len(data),
	})

	return &Output{
		PDFData:   base64.StdEncoding.EncodeToString(data),
		FileName:  name,
		SizeBytes: len(data),
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
