package workflow

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Registry holds workflows by name so callers can invoke them without
// holding a reference to the Workflow value.
type Registry struct {
	mu        sync.RWMutex
	workflows map[string]*Workflow
}

// NewRegistry returns an empty workflow registry.
func NewRegistry() *Registry {
	return &Registry{workflows: make(map[string]*Workflow)}
}

// Register adds a workflow under its name. Registering a name twice
// replaces the previous workflow.
func (r *Registry) Register(w *Workflow) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workflows[w.Name()] = w
}

// Get returns a registered workflow by name.
func (r *Registry) Get(name string) (*Workflow, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.workflows[name]
	return w, ok
}

// Names returns the registered workflow names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.workflows))
	for name := range r.workflows {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run invokes a registered workflow by name.
func (r *Registry) Run(ctx context.Context, name string, input any) Result {
	w, ok := r.Get(name)
	if !ok {
		return Result{Err: fmt.Errorf("%w: %q", ErrUnknownWorkflow, name)}
	}
	return w.Run(ctx, input)
}
