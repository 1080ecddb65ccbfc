// internal/common/metrics/metrics.go

// Package metrics holds the prometheus collectors for requests, renders,
// deliveries and worker jobs. Quiz evaluations are counted by the otel meter
// in the observability package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quiz_reports_rendered_total",
			Help: "Action plan PDFs rendered, by outcome",
		},
		[]string{"status"},
	)

	PlanDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plan_deliveries_total",
			Help: "Action plan emails attempted, by outcome",
		},
		[]string{"status", "provider"},
	)

	PlanDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plan_delivery_duration_seconds",
			Help:    "Time spent handing an action plan to the mail provider",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	LeadAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_alerts_total",
			Help: "Lead alerts published for requested reports, by outcome",
		},
		[]string{"status"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request latency",
		},
		[]string{"method", "route"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
