package loom

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategories(t *testing.T) {
	t.Run("transient errors are retryable", func(t *testing.T) {
		err := NewTransientError("rate limited", nil)
		assert.Equal(t, CategoryTransient, err.Category())
		assert.True(t, err.Retryable())
	})

	t.Run("contract errors are not retryable", func(t *testing.T) {
		err := NewContractError("bad input", nil)
		assert.Equal(t, CategoryContract, err.Category())
		assert.False(t, err.Retryable())
	})

	t.Run("unwrap exposes the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewTransientError("request failed", cause)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection reset")
	})
}

func TestCategoryOf(t *testing.T) {
	t.Run("nil error has no category", func(t *testing.T) {
		assert.Equal(t, Category(""), CategoryOf(nil))
	})

	t.Run("context cancellation maps to cancelled", func(t *testing.T) {
		assert.Equal(t, CategoryCancelled, CategoryOf(context.Canceled))
		assert.Equal(t, CategoryCancelled, CategoryOf(context.DeadlineExceeded))
	})

	t.Run("wrapped categorized errors are found", func(t *testing.T) {
		err := fmt.Errorf("step failed: %w", NewContractError("bad output", nil))
		assert.Equal(t, CategoryContract, CategoryOf(err))
	})

	t.Run("uncategorized errors default to transient", func(t *testing.T) {
		assert.Equal(t, CategoryTransient, CategoryOf(errors.New("boom")))
		assert.True(t, IsRetryable(errors.New("boom")))
	})

	t.Run("sentinel collaborator errors", func(t *testing.T) {
		wrapped := fmt.Errorf("draft: %w", ErrNoGenerator)
		require.ErrorIs(t, wrapped, ErrNoGenerator)
		assert.Equal(t, CategoryUnavailable, CategoryOf(wrapped))
		assert.False(t, IsRetryable(wrapped))
	})
}
