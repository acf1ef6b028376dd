package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/loom"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo(t *testing.T) {
	t.Run("succeeds on first attempt", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(3), func(attempt int) (string, error) {
			calls++
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", result)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		result, err := Do(context.Background(), fastConfig(5), func(attempt int) (int, error) {
			calls++
			if calls < 3 {
				return 0, loom.NewTransientError("flaky", nil)
			}
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, result)
		assert.Equal(t, 3, calls)
	})

	t.Run("attempt numbers are 1-indexed", func(t *testing.T) {
		var attempts []int
		_, err := Do(context.Background(), fastConfig(3), func(attempt int) (int, error) {
			attempts = append(attempts, attempt)
			return 0, errors.New("always fails")
		})
		require.Error(t, err)
		assert.Equal(t, []int{1, 2, 3}, attempts)
	})

	t.Run("exhausts attempts and returns last error", func(t *testing.T) {
		calls := 0
		last := errors.New("boom")
		_, err := Do(context.Background(), fastConfig(3), func(attempt int) (int, error) {
			calls++
			return 0, last
		})
		assert.ErrorIs(t, err, last)
		assert.Equal(t, 3, calls)
	})

	t.Run("contract violations are never retried", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), fastConfig(5), func(attempt int) (int, error) {
			calls++
			return 0, loom.NewContractError("bad output", nil)
		})
		require.Error(t, err)
		assert.Equal(t, loom.CategoryContract, loom.CategoryOf(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation aborts before the next attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		_, err := Do(ctx, fastConfig(10), func(attempt int) (int, error) {
			calls++
			cancel()
			return 0, loom.NewTransientError("flaky", nil)
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})

	t.Run("zero attempts still runs once", func(t *testing.T) {
		calls := 0
		_, err := Do(context.Background(), Config{}, func(attempt int) (int, error) {
			calls++
			return 0, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestConfigDelay(t *testing.T) {
	t.Run("exponential growth capped at max", func(t *testing.T) {
		cfg := Config{InitialDelay: time.Second, MaxDelay: 10 * time.Second, Multiplier: 2.0}
		assert.Equal(t, time.Second, cfg.Delay(1))
		assert.Equal(t, 2*time.Second, cfg.Delay(2))
		assert.Equal(t, 4*time.Second, cfg.Delay(3))
		assert.Equal(t, 10*time.Second, cfg.Delay(10))
	})

	t.Run("multiplier one gives fixed delay", func(t *testing.T) {
		cfg := Config{InitialDelay: time.Second, Multiplier: 1.0}
		assert.Equal(t, time.Second, cfg.Delay(1))
		assert.Equal(t, time.Second, cfg.Delay(5))
	})

	t.Run("jitter stays within bounds", func(t *testing.T) {
		cfg := Config{InitialDelay: time.Second, MaxDelay: time.Minute, Multiplier: 2.0, Jitter: 0.1}
		for i := 0; i < 50; i++ {
			d := cfg.Delay(1)
			assert.GreaterOrEqual(t, d, 900*time.Millisecond)
			assert.LessOrEqual(t, d, 1100*time.Millisecond)
		}
	})
}
