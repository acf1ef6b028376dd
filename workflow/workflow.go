package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/event"
	"github.com/kestrelworks/loom/schema"
	"github.com/kestrelworks/loom/trace"
)

// Workflow is a named, runnable stage tree with optional contracts on
// the run's own input and output. Construct with New, then Run as many
// times as needed; each Run is independent and gets its own run ID,
// sink and span tree.
type Workflow struct {
	name    string
	root    Stage
	input   *schema.Schema
	output  *schema.Schema
	timeout time.Duration
	buffer  int

	generator loom.Generator
	tools     ToolInvoker
	values    map[string]string
	limiter   *rate.Limiter
}

// Result is the outcome of one run.
type Result struct {
	// RunID uniquely identifies the run.
	RunID string
	// Output is the root stage's final output. Nil when Err is set.
	Output any
	// Events is the ordered progress log of the run. Populated by Run;
	// nil for RunStream, where events are consumed live.
	Events []event.Event
	// Err is the failure that terminated the run, if any.
	Err error
}

// New creates a workflow from a root stage.
func New(name string, root Stage, opts ...Option) *Workflow {
	w := &Workflow{
		name:   name,
		root:   root,
		buffer: event.DefaultBuffer,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Name returns the workflow's name.
func (w *Workflow) Name() string { return w.name }

// Run executes the workflow to completion and returns the result with
// the full event log. The run is bounded by ctx and, if configured, the
// workflow timeout.
func (w *Workflow) Run(ctx context.Context, input any) Result {
	events, results := w.RunStream(ctx, input)

	var log []event.Event
	for ev := range events {
		log = append(log, ev)
	}
	res := <-results
	res.Events = log
	return res
}

// RunStream executes the workflow while streaming progress events live.
// The events channel closes after the run's last event; the result
// arrives on the second channel once the run finishes.
func (w *Workflow) RunStream(ctx context.Context, input any) (<-chan event.Event, <-chan Result) {
	cancel := context.CancelFunc(func() {})
	if w.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
	}

	runID := uuid.NewString()
	sink := event.NewSink(ctx.Done(), w.buffer)
	results := make(chan Result, 1)

	ec := &Context{
		runID:     runID,
		sink:      sink,
		generator: w.generator,
		tools:     w.tools,
		values:    w.values,
		limiter:   w.limiter,
	}

	go func() {
		defer cancel()
		defer sink.Close()

		out, err := w.run(ctx, input, ec)
		results <- Result{RunID: runID, Output: out, Err: err}
	}()

	return sink.Events(), results
}

// run performs one execution: run-level input contract, root span,
// stage tree, run-level output contract. Exactly one of RunEnd and
// RunError closes the event log.
func (w *Workflow) run(ctx context.Context, input any, ec *Context) (any, error) {
	if err := w.input.Validate(input); err != nil {
		cerr := loom.NewContractError("workflow input rejected", err)
		ec.emit(event.Event{Type: event.RunError, Error: cerr})
		return nil, cerr
	}

	ctx, span := trace.StartRun(ctx, w.name, ec.runID)
	ec.emit(event.Event{Type: event.RunStart, Payload: w.name})

	out, err := runStage(ctx, w.root, input, ec)
	if err == nil {
		if verr := w.output.Validate(out); verr != nil {
			err = loom.NewContractError("workflow output rejected", verr)
		}
	}
	if err != nil {
		ec.emit(event.Event{Type: event.RunError, Error: err})
		trace.End(span, err)
		return nil, err
	}

	ec.emit(event.Event{Type: event.RunEnd, Payload: out})
	trace.End(span, nil)
	return out, nil
}
