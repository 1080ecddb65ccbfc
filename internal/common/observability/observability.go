package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Options configures New.
type Options struct {
	ServiceName    string
	JaegerEndpoint string
	// Registerer receives the otel metrics; defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Observability owns the otel meter and tracer providers.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	resultCounter  otelmetric.Int64Counter
}

// New wires the prometheus metric exporter and, when an endpoint is set, the
// jaeger span exporter. Both providers are installed globally.
func New(opts Options) (*Observability, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = "after-sales-quiz"
	}
	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	mp := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	otel.SetMeterProvider(mp)

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if opts.JaegerEndpoint != "" {
		jexp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			return nil, fmt.Errorf("create jaeger exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(jexp))
	}
	tp := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tp)

	meter := mp.Meter(opts.ServiceName)
	resultCounter, err := meter.Int64Counter(
		"quiz.evaluations",
		otelmetric.WithDescription("Quiz answer sets evaluated"),
	)
	if err != nil {
		return nil, fmt.Errorf("create evaluation counter: %w", err)
	}

	return &Observability{
		meterProvider:  mp,
		tracerProvider: tp,
		tracer:         tp.Tracer(opts.ServiceName),
		resultCounter:  resultCounter,
	}, nil
}

// Noop returns an Observability that records nothing.
func Noop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

// StartSpan starts a span named name as a child of ctx.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordEvaluation(ctx context.Context, persona, state string, complete bool) {
	if o.resultCounter != nil {
		o.resultCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("persona", persona),
			attribute.String("state", state),
			attribute.Bool("complete", complete),
		))
	}
}

// Shutdown flushes pending spans and metrics.
func (o *Observability) Shutdown(ctx context.Context) error {
	var firstErr error
	if o.tracerProvider != nil {
		if err := o.tracerProvider.Shutdown(ctx); err != nil {
			firstErr = err
		}
	}
	if o.meterProvider != nil {
		if err := o.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
