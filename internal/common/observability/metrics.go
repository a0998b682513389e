package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers for the
// process. Metrics are exported through the given Prometheus registerer.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
}

// New builds providers for serviceName. Extra tracer options (span
// processors, samplers) are passed through.
func New(serviceName string, reg promclient.Registerer, opts ...sdktrace.TracerProviderOption) (*Observability, error) {
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	meterProvider := metric.NewMeterProvider(metric.WithReader(exporter), metric.WithResource(res))
	tracerProvider := sdktrace.NewTracerProvider(append([]sdktrace.TracerProviderOption{sdktrace.WithResource(res)}, opts...)...)

	otel.SetMeterProvider(meterProvider)
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(serviceName)

	jobCounter, err := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	if err != nil {
		return nil, err
	}

	jobDuration, err := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		tracer:         tracerProvider.Tracer(serviceName),
		jobCounter:     jobCounter,
		jobDuration:    jobDuration,
	}, nil
}

// StartSpan starts a span for one job. End it with EndSpan.
func (o *Observability) StartSpan(ctx context.Context, taskType string, jobKey int64) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return o.tracer.Start(ctx, taskType,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("job.type", taskType),
			attribute.Int64("job.key", jobKey),
		),
	)
}

// EndSpan records the outcome of a job on span and in the job metrics.
// An empty errorCode counts as success.
func (o *Observability) EndSpan(ctx context.Context, span trace.Span, taskType string, start time.Time, errorCode string) {
	status := "completed"
	if errorCode != "" {
		status = "failed"
		span.SetStatus(codes.Error, errorCode)
		span.SetAttributes(attribute.String("error.code", errorCode))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	o.jobCounter.Add(ctx, 1, attrs)
	o.jobDuration.Record(ctx, float64(time.Since(start).Milliseconds()), attrs)
}

// Shutdown flushes both providers.
func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var firstErr error
	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		firstErr = err
	}
	if err := o.meterProvider.Shutdown(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
