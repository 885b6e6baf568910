package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer resolves against the global provider; tests swap it.
var tracer = otel.Tracer("dispatcher")

// SpanManager opens and closes the spans of a dispatch cycle.
type SpanManager interface {
	// StartDispatchSpan starts a span for a whole dispatch cycle.
	StartDispatchSpan(ctx context.Context, cycleID, controller, action string) (context.Context, trace.Span)

	// StartActionSpan starts a span for a controller action invocation.
	// The action span should be a child of the dispatch span.
	StartActionSpan(ctx context.Context, controller, method string) (context.Context, trace.Span)

	// EndSpanWithError ends span, marking it failed when err is non-nil.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent annotates the span carried by ctx, if any.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager backed by the global OpenTelemetry
// tracer provider. Install the provider with otel.SetTracerProvider first.
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartDispatchSpan starts a span for a dispatch cycle.
func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, cycleID, controller, action string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dispatcher.dispatch",
		trace.WithAttributes(
			attribute.String("dispatch.cycle_id", cycleID),
			attribute.String("dispatch.controller", controller),
			attribute.String("dispatch.action", action),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartActionSpan starts a span for a controller action.
func (m *otelSpanManager) StartActionSpan(ctx context.Context, controller, method string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "dispatcher.action."+method,
		trace.WithAttributes(
			attribute.String("dispatch.controller", controller),
			attribute.String("dispatch.method", method),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError records err on span, sets its status and ends it.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the recording span of ctx.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
