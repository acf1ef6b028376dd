package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/schema"
)

// NewFunc builds a tool from a plain Go function. Input and output
// schemas are reflected from the In and Out struct types, so the
// registry validates the JSON on both sides before and after the
// function runs.
func NewFunc[In, Out any](name, description string, fn func(ctx context.Context, in In) (Out, error)) (Definition, Handler, error) {
	in, err := schema.For[In]()
	if err != nil {
		return Definition{}, nil, fmt.Errorf("tool %q: input schema: %w", name, err)
	}
	out, err := schema.For[Out]()
	if err != nil {
		return Definition{}, nil, fmt.Errorf("tool %q: output schema: %w", name, err)
	}

	def := Definition{
		Name:        name,
		Description: description,
		Input:       in,
		Output:      out,
	}
	handler := func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var input In
		if len(args) > 0 {
			if err := json.Unmarshal(args, &input); err != nil {
				return nil, loom.NewContractError(fmt.Sprintf("tool %q: decode arguments", name), err)
			}
		}
		result, err := fn(ctx, input)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(result)
		if err != nil {
			return nil, fmt.Errorf("tool %q: encode result: %w", name, err)
		}
		return raw, nil
	}
	return def, handler, nil
}

// MustRegisterFunc registers a typed function tool on the registry and
// panics if either schema cannot be reflected. Intended for package
// initialization of static tool sets.
func MustRegisterFunc[In, Out any](r *Registry, name, description string, fn func(ctx context.Context, in In) (Out, error)) {
	def, handler, err := NewFunc(name, description, fn)
	if err != nil {
		panic(err)
	}
	if err := r.Register(def, handler); err != nil {
		panic(err)
	}
}
