package workflow

import (
	"context"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/event"
	"github.com/kestrelworks/loom/retry"
	"github.com/kestrelworks/loom/trace"
)

// runStage dispatches a stage to its executor. The Stage interface is
// sealed, so the type switch is exhaustive.
func runStage(ctx context.Context, stage Stage, in any, ec *Context) (any, error) {
	switch s := stage.(type) {
	case *Step:
		return runStep(ctx, s, in, ec)
	case *Sequence:
		return runSequence(ctx, s, in, ec)
	case *Branch:
		return runBranch(ctx, s, in, ec)
	case *RepeatUntil:
		return runLoop(ctx, s, in, ec)
	default:
		return nil, fmt.Errorf("workflow: unknown stage type %T", stage)
	}
}

// runStep executes one step: input contract, start event, span, bounded
// retries, output contract, terminal event. An input violation is
// rejected before the step starts, so it emits no step events at all;
// every path after StepStart ends in exactly one terminal event and
// closes the span.
func runStep(ctx context.Context, s *Step, in any, ec *Context) (any, error) {
	if err := s.input.Validate(in); err != nil {
		return nil, &StepError{StepID: s.id, Err: loom.NewContractError("input rejected", err)}
	}

	stepEC := ec.forStep(s.id)
	stepEC.emit(event.Event{Type: event.StepStart, StepID: s.id, Payload: s.description})

	ctx, span := trace.StartStep(ctx, s.id, s.retry.MaxAttempts)

	out, err := retry.Do(ctx, s.retry, func(attempt int) (any, error) {
		if attempt > 1 {
			stepEC.emit(event.Event{Type: event.RetryAttempt, StepID: s.id, Attempt: attempt})
		}
		return s.execute(ctx, in, stepEC)
	})
	if err != nil {
		return nil, failStep(stepEC, span, s.id, err)
	}

	if verr := s.output.Validate(out); verr != nil {
		err := loom.NewContractError("output rejected", verr)
		return nil, failStep(stepEC, span, s.id, err)
	}

	stepEC.emit(event.Event{Type: event.StepEnd, StepID: s.id, Payload: out})
	trace.End(span, nil)
	return out, nil
}

// failStep emits the step's terminal failure event, closes its span and
// wraps the error with the step ID.
func failStep(ec *Context, span oteltrace.Span, stepID string, err error) error {
	typ := event.StepError
	if loom.CategoryOf(err) == loom.CategoryCancelled {
		typ = event.StepCancelled
	}
	ec.emit(event.Event{Type: typ, StepID: stepID, Error: err})
	trace.End(span, err)
	return &StepError{StepID: stepID, Err: err}
}

func runSequence(ctx context.Context, s *Sequence, in any, ec *Context) (any, error) {
	out := in
	for _, stage := range s.stages {
		var err error
		out, err = runStage(ctx, stage, out, ec)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func runBranch(ctx context.Context, b *Branch, in any, ec *Context) (any, error) {
	for _, arm := range b.arms {
		if arm.When != nil && arm.When(in) {
			ec.emit(event.Event{Type: event.RouteSelected, RouteName: arm.Name})
			return runStage(ctx, arm.Stage, in, ec)
		}
	}
	if b.def != nil {
		ec.emit(event.Event{Type: event.RouteSelected, RouteName: "default"})
		return runStage(ctx, b.def, in, ec)
	}
	return nil, ErrNoRouteMatched
}

func runLoop(ctx context.Context, l *RepeatUntil, in any, ec *Context) (any, error) {
	out := in
	for i := 1; i <= l.max; i++ {
		ec.emit(event.Event{Type: event.LoopIteration, Iteration: i})
		var err error
		out, err = runStage(ctx, l.body, out, ec)
		if err != nil {
			return nil, err
		}
		if !l.cont(out) {
			return out, nil
		}
	}
	return nil, &LoopExceededError{LastOutput: out, Iterations: l.max}
}
