package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return sr
}

func spanByName(spans []sdktrace.ReadOnlySpan, name string) sdktrace.ReadOnlySpan {
	for _, s := range spans {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

func TestRunSpanTree(t *testing.T) {
	sr := setupRecorder(t)

	wf := New("traced", Steps(echoStep("first"), echoStep("second")))
	res := wf.Run(context.Background(), "in")
	require.NoError(t, res.Err)

	spans := sr.Ended()
	require.Len(t, spans, 3)

	run := spanByName(spans, "loom.workflow.run")
	require.NotNil(t, run)
	assert.Equal(t, codes.Ok, run.Status().Code)

	for _, name := range []string{"first", "second"} {
		step := spanByName(spans, name)
		require.NotNil(t, step, "missing span for step %s", name)
		assert.Equal(t, run.SpanContext().SpanID(), step.Parent().SpanID())
		assert.Equal(t, run.SpanContext().TraceID(), step.SpanContext().TraceID())
		assert.Equal(t, codes.Ok, step.Status().Code)
	}

	// Children start no earlier and end no later than the run span.
	for _, name := range []string{"first", "second"} {
		step := spanByName(spans, name)
		assert.False(t, step.StartTime().Before(run.StartTime()))
		assert.False(t, step.EndTime().After(run.EndTime()))
	}
}

func TestFailedStepSpan(t *testing.T) {
	sr := setupRecorder(t)

	boom := errors.New("boom")
	wf := New("traced", Steps(
		echoStep("ok"),
		NewStep("bad", func(ctx context.Context, in any, ec *Context) (any, error) {
			return nil, boom
		}),
	))
	res := wf.Run(context.Background(), "in")
	require.Error(t, res.Err)

	spans := sr.Ended()
	require.Len(t, spans, 3)

	bad := spanByName(spans, "bad")
	require.NotNil(t, bad)
	assert.Equal(t, codes.Error, bad.Status().Code)

	run := spanByName(spans, "loom.workflow.run")
	require.NotNil(t, run)
	assert.Equal(t, codes.Error, run.Status().Code)

	ok := spanByName(spans, "ok")
	require.NotNil(t, ok)
	assert.Equal(t, codes.Ok, ok.Status().Code)
}
