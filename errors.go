package loom

import (
	"context"
	"errors"
	"fmt"
)

// Category classifies errors by how the engine should handle them.
type Category string

const (
	// CategoryTransient indicates the error is temporary and the operation
	// can be retried. Examples: rate limits, network issues, server overload.
	CategoryTransient Category = "transient"

	// CategoryContract indicates a value failed schema validation at a stage
	// boundary. Contract violations are configuration errors: never retried,
	// always fatal to the enclosing run.
	CategoryContract Category = "contract"

	// CategoryUnavailable indicates a collaborator (Generator or Tool) is
	// not configured or not reachable. Steps may choose to degrade to a
	// default value instead of propagating this.
	CategoryUnavailable Category = "unavailable"

	// CategoryLoopExceeded indicates a convergence loop hit its iteration
	// ceiling without its continue predicate turning false.
	CategoryLoopExceeded Category = "loop_exceeded"

	// CategoryCancelled indicates cooperative cancellation was observed.
	CategoryCancelled Category = "cancelled"
)

// CategorizedError is an error that carries handling information.
type CategorizedError interface {
	error
	Category() Category
	Retryable() bool // convenience: returns true if Category == CategoryTransient
}

// Error is a categorized error with an optional cause.
type Error struct {
	Msg   string
	Cat   Category
	Cause error
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the error category.
func (e *Error) Category() Category {
	return e.Cat
}

// Retryable returns true if the error is transient and can be retried.
func (e *Error) Retryable() bool {
	return e.Cat == CategoryTransient
}

// NewTransientError creates a transient error that can be retried.
func NewTransientError(msg string, cause error) *Error {
	return &Error{Msg: msg, Cat: CategoryTransient, Cause: cause}
}

// NewContractError creates a fatal schema-contract error.
func NewContractError(msg string, cause error) *Error {
	return &Error{Msg: msg, Cat: CategoryContract, Cause: cause}
}

// NewUnavailableError creates an error indicating a missing collaborator.
func NewUnavailableError(msg string, cause error) *Error {
	return &Error{Msg: msg, Cat: CategoryUnavailable, Cause: cause}
}

// ErrNoGenerator is returned when a step requires a Generator and none is
// configured for the run. Steps that degrade gracefully check for it with
// errors.Is and substitute a default instead of failing.
var ErrNoGenerator = &Error{Msg: "loom: generator not configured", Cat: CategoryUnavailable}

// ErrNoTools is the Tool-capability analogue of ErrNoGenerator.
var ErrNoTools = &Error{Msg: "loom: tool registry not configured", Cat: CategoryUnavailable}

// CategoryOf classifies an arbitrary error. Context cancellation and
// deadline expiry map to CategoryCancelled; uncategorized errors default to
// CategoryTransient, since failures raised by step execution are retryable
// unless declared otherwise.
func CategoryOf(err error) Category {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CategoryCancelled
	}
	var ce CategorizedError
	if errors.As(err, &ce) {
		return ce.Category()
	}
	return CategoryTransient
}

// IsRetryable reports whether an error should be retried.
func IsRetryable(err error) bool {
	return CategoryOf(err) == CategoryTransient
}
