package workflow

import (
	"context"

	"github.com/kestrelworks/loom/retry"
	"github.com/kestrelworks/loom/schema"
)

// ExecFunc is the work a step performs. It receives the incoming value,
// already validated against the step's input schema, and its return
// value is validated against the output schema before flowing on.
type ExecFunc func(ctx context.Context, in any, ec *Context) (any, error)

// Step is the leaf stage: one identified unit of work with optional
// schema contracts and a retry policy.
type Step struct {
	id          string
	description string
	execute     ExecFunc
	input       *schema.Schema
	output      *schema.Schema
	retry       retry.Config
}

// StepOption configures a step at construction.
type StepOption func(*Step)

// NewStep creates a step with the given ID and work function. Retries
// are disabled unless WithRetries or WithBackoff is set.
func NewStep(id string, execute ExecFunc, opts ...StepOption) *Step {
	s := &Step{
		id:      id,
		execute: execute,
		retry:   retry.Disabled(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID returns the step's identifier.
func (s *Step) ID() string { return s.id }

// Description returns the step's human-readable description.
func (s *Step) Description() string { return s.description }

// WithDescription sets a human-readable description for the step.
func WithDescription(desc string) StepOption {
	return func(s *Step) { s.description = desc }
}

// WithInput sets the schema contract the incoming value must satisfy.
func WithInput(s *schema.Schema) StepOption {
	return func(st *Step) { st.input = s }
}

// WithOutput sets the schema contract the step's result must satisfy.
func WithOutput(s *schema.Schema) StepOption {
	return func(st *Step) { st.output = s }
}

// WithRetries enables retries with the default backoff policy and the
// given attempt ceiling.
func WithRetries(maxAttempts int) StepOption {
	return func(st *Step) {
		cfg := retry.DefaultConfig()
		cfg.MaxAttempts = maxAttempts
		st.retry = cfg
	}
}

// WithBackoff sets the full retry policy for the step.
func WithBackoff(cfg retry.Config) StepOption {
	return func(st *Step) { st.retry = cfg }
}
