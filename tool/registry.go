package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/kestrelworks/loom"
)

// Registry holds tools by name and executes them with contract
// validation on both sides of the call. The zero value is not usable;
// use NewRegistry.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]entry
}

type entry struct {
	def     Definition
	handler Handler
}

// NewRegistry returns an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]entry)}
}

// Register adds a tool to the registry. Registering a name twice
// replaces the previous tool.
func (r *Registry) Register(def Definition, handler Handler) error {
	if def.Name == "" {
		return fmt.Errorf("tool: name is required")
	}
	if handler == nil {
		return fmt.Errorf("tool %q: handler is required", def.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = entry{def: def, handler: handler}
	return nil
}

// Get returns the definition for a named tool.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e.def, ok
}

// List returns the definitions of all registered tools, sorted by name.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.tools))
	for _, e := range r.tools {
		defs = append(defs, e.def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute runs a named tool. Arguments are validated against the tool's
// input schema before the handler runs and the result against its
// output schema after; either failure is a contract error and the
// handler's result is discarded on an output violation.
func (r *Registry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	e, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return nil, loom.NewUnavailableError(fmt.Sprintf("tool %q not registered", name), nil)
	}

	if e.def.Input != nil {
		var v any
		if len(args) > 0 {
			if err := json.Unmarshal(args, &v); err != nil {
				return nil, loom.NewContractError(fmt.Sprintf("tool %q: arguments are not valid JSON", name), err)
			}
		}
		if err := e.def.Input.Validate(v); err != nil {
			return nil, loom.NewContractError(fmt.Sprintf("tool %q: arguments rejected", name), err)
		}
	}

	out, err := e.handler(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}

	if e.def.Output != nil {
		var v any
		if len(out) > 0 {
			if err := json.Unmarshal(out, &v); err != nil {
				return nil, loom.NewContractError(fmt.Sprintf("tool %q: result is not valid JSON", name), err)
			}
		}
		if err := e.def.Output.Validate(v); err != nil {
			return nil, loom.NewContractError(fmt.Sprintf("tool %q: result rejected", name), err)
		}
	}
	return out, nil
}
