package pipeline

import (
	"golang.org/x/time/rate"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/workflow"
)

type config struct {
	threshold     int
	maxIterations int
	wfOpts        []workflow.Option
}

// Option configures the pipeline at construction.
type Option func(*config)

// WithGenerator backs the research, draft and review steps with a
// Generator. Without one, all three use deterministic fallbacks.
func WithGenerator(g loom.Generator) Option {
	return func(c *config) {
		c.wfOpts = append(c.wfOpts, workflow.WithGenerator(g))
	}
}

// WithThreshold sets the approval score; drafts scoring below it are
// sent back for refinement.
func WithThreshold(score int) Option {
	return func(c *config) {
		c.threshold = clampScore(score)
	}
}

// WithMaxIterations bounds the review loop.
func WithMaxIterations(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.maxIterations = n
		}
	}
}

// WithRateLimiter throttles Generator calls across all steps.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *config) {
		c.wfOpts = append(c.wfOpts, workflow.WithRateLimiter(l))
	}
}
