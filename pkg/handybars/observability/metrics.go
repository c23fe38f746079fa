package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records handybars metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRender records one render with its duration, the number of
	// placeholders expanded, the output size and the error kind ("" on success).
	RecordRender(ctx context.Context, templateName string, duration time.Duration, placeholders, outputBytes int, errorKind string)

	// RecordCompile records a template compilation.
	RecordCompile(ctx context.Context, templateName string, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	renders       metric.Int64Counter
	renderLatency metric.Float64Histogram
	renderErrors  metric.Int64Counter
	outputSize    metric.Int64Histogram
	placeholders  metric.Int64Histogram
	compiles      metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("handybars")

	renders, err := meter.Int64Counter("handybars.render.count",
		metric.WithDescription("Number of template renders"),
	)
	if err != nil {
		return nil, err
	}

	renderLatency, err := meter.Float64Histogram("handybars.render.latency_ms",
		metric.WithDescription("Render latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	renderErrors, err := meter.Int64Counter("handybars.render.errors",
		metric.WithDescription("Number of failed renders"),
	)
	if err != nil {
		return nil, err
	}

	outputSize, err := meter.Int64Histogram("handybars.render.output_bytes",
		metric.WithDescription("Rendered output size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	placeholders, err := meter.Int64Histogram("handybars.render.placeholders",
		metric.WithDescription("Placeholders expanded per render"),
	)
	if err != nil {
		return nil, err
	}

	compiles, err := meter.Int64Counter("handybars.template.compiles",
		metric.WithDescription("Number of template compilations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		renders:       renders,
		renderLatency: renderLatency,
		renderErrors:  renderErrors,
		outputSize:    outputSize,
		placeholders:  placeholders,
		compiles:      compiles,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordRender records a render.
func (m *otelMetrics) RecordRender(ctx context.Context, templateName string, duration time.Duration, placeholders, outputBytes int, errorKind string) {
	attrs := []attribute.KeyValue{
		attribute.String("template", templateName),
		attribute.Bool("success", errorKind == ""),
	}

	m.renders.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.renderLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if errorKind != "" {
		m.renderErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("template", templateName),
			attribute.String("error_kind", errorKind),
		))
		return
	}
	m.outputSize.Record(ctx, int64(outputBytes), metric.WithAttributes(attrs...))
	m.placeholders.Record(ctx, int64(placeholders), metric.WithAttributes(attrs...))
}

// RecordCompile records a template compilation.
func (m *otelMetrics) RecordCompile(ctx context.Context, templateName string, err error) {
	m.compiles.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", templateName),
		attribute.Bool("success", err == nil),
	))
}
