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

// MetricsRecorder records dispatcher metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records a dispatch cycle, the phase its result went to
	// (empty on failure) and its error status.
	RecordDispatch(ctx context.Context, controller, phase string, duration time.Duration, err error)

	// RecordAction records a controller action invocation.
	RecordAction(ctx context.Context, controller, action string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	dispatchErrors  metric.Int64Counter
	actions         metric.Int64Counter
	actionLatency   metric.Float64Histogram
	actionErrors    metric.Int64Counter
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
	meter := otel.Meter("dispatcher")

	dispatches, err := meter.Int64Counter("dispatcher.dispatch.count",
		metric.WithDescription("Number of dispatch cycles"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("dispatcher.dispatch.latency_ms",
		metric.WithDescription("Dispatch cycle latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("dispatcher.dispatch.errors",
		metric.WithDescription("Number of failed dispatch cycles"),
	)
	if err != nil {
		return nil, err
	}

	actions, err := meter.Int64Counter("dispatcher.action.count",
		metric.WithDescription("Number of controller action invocations"),
	)
	if err != nil {
		return nil, err
	}

	actionLatency, err := meter.Float64Histogram("dispatcher.action.latency_ms",
		metric.WithDescription("Controller action latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	actionErrors, err := meter.Int64Counter("dispatcher.action.errors",
		metric.WithDescription("Number of failed controller actions"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		dispatchErrors:  dispatchErrors,
		actions:         actions,
		actionLatency:   actionLatency,
		actionErrors:    actionErrors,
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

// RecordDispatch records a dispatch cycle.
func (m *otelMetrics) RecordDispatch(ctx context.Context, controller, phase string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("controller", controller),
		attribute.String("phase", phase),
	}

	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, DurationMs(duration), metric.WithAttributes(attrs...))

	if err != nil {
		m.dispatchErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordAction records a controller action invocation.
func (m *otelMetrics) RecordAction(ctx context.Context, controller, action string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("controller", controller),
		attribute.String("action", action),
	}

	m.actions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.actionLatency.Record(ctx, DurationMs(duration), metric.WithAttributes(attrs...))

	if err != nil {
		m.actionErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
