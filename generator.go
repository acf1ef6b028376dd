package loom

import "context"

// Generator is the capability contract for text/object generation.
// Provider adapters (provider/openai, provider/anthropic, provider/google)
// implement it over the official SDKs.
type Generator interface {
	// Generate sends a prompt and returns the complete response.
	Generate(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

	// Stream sends a prompt and returns a channel of streaming events.
	// The channel is closed after the final event; the final event has
	// Done set and carries the accumulated Response.
	Stream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
// Stream produces a single Done event carrying the buffered response.
// Useful for tests and deterministic fallbacks.
type GeneratorFunc func(ctx context.Context, messages []Message, opts ...Option) (*Response, error)

// Generate calls the function.
func (f GeneratorFunc) Generate(ctx context.Context, messages []Message, opts ...Option) (*Response, error) {
	return f(ctx, messages, opts...)
}

// Stream calls the function and emits its result as a single Done event.
func (f GeneratorFunc) Stream(ctx context.Context, messages []Message, opts ...Option) (<-chan StreamEvent, error) {
	resp, err := f(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	ch := make(chan StreamEvent, 2)
	ch <- StreamEvent{Delta: resp.Content}
	ch <- StreamEvent{Done: true, Response: resp}
	close(ch)
	return ch, nil
}
