// Package event provides the progress event model for pipeline runs: the
// event types emitted by the engine and the per-run Sink they flow through.
package event

import "time"

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when a workflow run begins.
	RunStart Type = "run_start"

	// RunEnd fires when a workflow run completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when a workflow run fails.
	RunError Type = "run_error"
)

// Step lifecycle events
const (
	// StepStart fires when a step begins executing.
	StepStart Type = "step_start"

	// StepProgress fires for incremental progress reported by a step.
	StepProgress Type = "step_progress"

	// StepEnd fires when a step completes. Terminal for the step.
	StepEnd Type = "step_end"

	// StepError fires when a step fails after exhausting its retries.
	// Terminal for the step.
	StepError Type = "step_error"

	// StepCancelled fires when a step observes cancellation. Terminal for
	// the step, distinct from StepError.
	StepCancelled Type = "step_cancelled"
)

// Composition events
const (
	// RouteSelected fires when a branch chooses an arm.
	RouteSelected Type = "route_selected"

	// LoopIteration fires at the start of each loop iteration.
	LoopIteration Type = "loop_iteration"

	// RetryAttempt fires before each retry of a failed step execution.
	RetryAttempt Type = "retry_attempt"
)

// Streaming events
const (
	// MessageDelta fires for each token a step pipes in from a streaming
	// Generator. Carries Delta.
	MessageDelta Type = "message_delta"
)

// Terminal reports whether this event type closes a step's event sequence.
// After a terminal event, the sink rejects further events for that step.
func (t Type) Terminal() bool {
	switch t {
	case StepEnd, StepError, StepCancelled:
		return true
	}
	return false
}

// Event is a single observable occurrence during a workflow run. Within one
// run, events for a given StepID follow the sequence
// start (progress)* (end|error|cancelled), with exactly one terminal event.
type Event struct {
	// Type identifies the kind of event.
	Type Type

	// RunID identifies the workflow run this event belongs to.
	RunID string

	// StepID identifies the step for step-scoped events. Empty for run
	// and composition events.
	StepID string

	// Payload carries event data: step output for StepEnd, caller-defined
	// progress values for StepProgress, workflow output for RunEnd.
	Payload any

	// Delta contains streaming content for MessageDelta events.
	Delta string

	// RouteName identifies the selected arm for RouteSelected events.
	RouteName string

	// Attempt is the execution attempt (1-indexed) for RetryAttempt events.
	Attempt int

	// Iteration is the loop iteration (1-indexed) for LoopIteration events.
	Iteration int

	// Error contains the error for StepError, StepCancelled and RunError.
	Error error

	// Timestamp is when the event was emitted.
	Timestamp time.Time
}
