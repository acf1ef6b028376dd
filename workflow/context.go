package workflow

import (
	"context"
	"encoding/json"

	"golang.org/x/time/rate"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/event"
)

// ToolInvoker executes a named tool with JSON arguments. Both
// [tool.Registry] and [tool.RemoteRegistry] satisfy it.
type ToolInvoker interface {
	Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
}

// Context carries the run-scoped collaborators a step may use: the
// event sink, the configured Generator and tools, run values, and an
// optional rate limiter. The executor hands each step a copy scoped to
// its step ID.
type Context struct {
	runID     string
	stepID    string
	sink      *event.Sink
	generator loom.Generator
	tools     ToolInvoker
	values    map[string]string
	limiter   *rate.Limiter
}

// forStep returns a copy of the context scoped to the given step ID.
func (e *Context) forStep(stepID string) *Context {
	c := *e
	c.stepID = stepID
	return &c
}

// RunID returns the unique identifier of the enclosing run.
func (e *Context) RunID() string {
	return e.runID
}

// StepID returns the identifier of the executing step.
func (e *Context) StepID() string {
	return e.stepID
}

// Generator returns the run's configured Generator, or ErrNoGenerator
// if none was set. Steps that can degrade check for it with errors.Is
// and substitute a default.
func (e *Context) Generator() (loom.Generator, error) {
	if e.generator == nil {
		return nil, loom.ErrNoGenerator
	}
	return e.generator, nil
}

// Tools returns the run's tool invoker, or ErrNoTools if none was set.
func (e *Context) Tools() (ToolInvoker, error) {
	if e.tools == nil {
		return nil, loom.ErrNoTools
	}
	return e.tools, nil
}

// Value returns a run-scoped configuration value by key.
func (e *Context) Value(key string) (string, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Progress emits an intermediate progress event for the current step.
func (e *Context) Progress(payload any) {
	e.emit(event.Event{Type: event.StepProgress, StepID: e.stepID, Payload: payload})
}

// Delta streams a fragment of incremental output for the current step.
func (e *Context) Delta(text string) {
	e.emit(event.Event{Type: event.MessageDelta, StepID: e.stepID, Delta: text})
}

// Throttle blocks until the run's rate limiter admits another request.
// A run without a limiter admits immediately.
func (e *Context) Throttle(ctx context.Context) error {
	if e.limiter == nil {
		return nil
	}
	return e.limiter.Wait(ctx)
}

func (e *Context) emit(ev event.Event) {
	if e.sink == nil {
		return
	}
	ev.RunID = e.runID
	e.sink.Emit(ev)
}
