// Package trace provides the OpenTelemetry span conventions for workflow
// runs: one root span per run, one child span per step execution, every
// span closed on every exit path. If no TracerProvider is configured
// globally, the default noop tracer is used and these helpers become
// pass-throughs with zero overhead.
package trace

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName is the instrumentation scope name for loom tracing.
const tracerName = "github.com/kestrelworks/loom"

// Tracer returns the loom tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartRun opens the root span for a workflow run.
// Attributes: loom.workflow.name, loom.run.id.
func StartRun(ctx context.Context, workflow, runID string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "loom.workflow.run",
		trace.WithAttributes(
			attribute.String("loom.workflow.name", workflow),
			attribute.String("loom.run.id", runID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartStep opens a child span for one step execution.
// Attributes: loom.step.id, loom.step.retries.
func StartStep(ctx context.Context, stepID string, retries int) (context.Context, trace.Span) {
	return Tracer().Start(ctx, stepID,
		trace.WithAttributes(
			attribute.String("loom.step.id", stepID),
			attribute.Int("loom.step.retries", retries),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// End closes a span, recording err and setting the span status. It is the
// single close path for both success and failure.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
