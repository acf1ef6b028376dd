package workflow

import (
	"errors"
	"fmt"

	"github.com/kestrelworks/loom"
)

// ErrNoRouteMatched is returned when a Branch finds no arm whose
// predicate accepts the incoming value and no default arm is set. A
// branch that cannot route is a configuration error, so it is never
// retried.
var ErrNoRouteMatched = &loom.Error{Msg: "workflow: no route matched", Cat: loom.CategoryContract}

// ErrUnknownWorkflow is returned by [Registry.Run] for a name that was
// never registered.
var ErrUnknownWorkflow = errors.New("workflow: unknown workflow")

// StepError wraps a failure inside a step so callers can tell which
// step a run died in.
type StepError struct {
	StepID string
	Err    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q: %v", e.StepID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// LoopExceededError is returned when a RepeatUntil reaches its
// iteration ceiling with the continue predicate still true. It carries
// the last body output so callers can salvage a partial result.
type LoopExceededError struct {
	// LastOutput is the body's output from the final iteration.
	LastOutput any
	// Iterations is the number of iterations that ran.
	Iterations int
}

func (e *LoopExceededError) Error() string {
	return fmt.Sprintf("workflow: loop exceeded %d iterations without converging", e.Iterations)
}

// Category reports loop exhaustion as its own error class.
func (e *LoopExceededError) Category() loom.Category {
	return loom.CategoryLoopExceeded
}

// Retryable always returns false: re-running an exhausted loop
// converges no better than the first time.
func (e *LoopExceededError) Retryable() bool {
	return false
}
