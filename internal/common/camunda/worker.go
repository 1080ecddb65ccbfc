// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/common/config"
	"github.com/rustybadge/after-sales-quiz/internal/common/logger"
	"github.com/rustybadge/after-sales-quiz/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// JobHandler is the signature of every worker's Handle method.
type JobHandler func(client worker.JobClient, job entities.Job)

// Instrument records the duration of every job handled by h.
func Instrument(taskType string, h JobHandler) JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		start := time.Now()
		defer func() {
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		}()
		h(client, job)
	}
}

// Pool tracks the job workers opened by StartWorker.
type Pool struct {
	client  zbc.Client
	logger  logger.Logger
	workers map[string]worker.JobWorker
}

func NewPool(client zbc.Client, log logger.Logger) *Pool {
	return &Pool{
		client:  client,
		logger:  logger.Component(log, "camunda"),
		workers: make(map[string]worker.JobWorker),
	}
}

// StartWorker opens a job worker for taskType unless wcfg disables it.
// It reports whether a worker was opened.
func (p *Pool) StartWorker(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		p.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	p.workers[taskType] = p.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(Instrument(taskType, handler))).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	p.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the task types with an open worker.
func (p *Pool) TaskTypes() []string {
	out := make([]string, 0, len(p.workers))
	for t := range p.workers {
		out = append(out, t)
	}
	return out
}

// Close stops every worker and waits for in-flight jobs.
func (p *Pool) Close() {
	for taskType, w := range p.workers {
		w.Close()
		w.AwaitClose()
		p.logger.Info("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	p.workers = make(map[string]worker.JobWorker)
}
