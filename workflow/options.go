package workflow

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/schema"
)

// Option configures a workflow at construction.
type Option func(*Workflow)

// WithInputSchema sets the contract a run's input must satisfy.
func WithInputSchema(s *schema.Schema) Option {
	return func(w *Workflow) { w.input = s }
}

// WithOutputSchema sets the contract a run's final output must satisfy.
func WithOutputSchema(s *schema.Schema) Option {
	return func(w *Workflow) { w.output = s }
}

// WithTimeout bounds every run of the workflow.
func WithTimeout(d time.Duration) Option {
	return func(w *Workflow) { w.timeout = d }
}

// WithGenerator sets the Generator steps reach through their context.
func WithGenerator(g loom.Generator) Option {
	return func(w *Workflow) { w.generator = g }
}

// WithTools sets the tool invoker steps reach through their context.
func WithTools(t ToolInvoker) Option {
	return func(w *Workflow) { w.tools = t }
}

// WithValues sets run-scoped configuration values.
func WithValues(values map[string]string) Option {
	return func(w *Workflow) { w.values = values }
}

// WithRateLimiter throttles steps that call Context.Throttle, typically
// to stay inside a provider's request budget.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(w *Workflow) { w.limiter = l }
}

// WithEventBuffer sets the sink buffer size for each run.
func WithEventBuffer(n int) Option {
	return func(w *Workflow) { w.buffer = n }
}
