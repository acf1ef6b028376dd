package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/event"
)

// scriptedGenerator answers review calls (those carrying a response
// schema) with the given scores in order, repeating the last score, and
// answers everything else with plain text.
func scriptedGenerator(scores ...int) loom.Generator {
	i := 0
	return loom.GeneratorFunc(func(ctx context.Context, messages []loom.Message, opts ...loom.Option) (*loom.Response, error) {
		options := loom.ApplyOptions(opts...)
		if options.ResponseSchema == nil {
			return &loom.Response{Content: "generated text"}, nil
		}
		score := scores[len(scores)-1]
		if i < len(scores) {
			score = scores[i]
		}
		i++
		return &loom.Response{
			Content: fmt.Sprintf(`{"score": %d, "feedback": "tighten the intro"}`, score),
		}, nil
	})
}

func TestConvergence(t *testing.T) {
	ctx := context.Background()

	t.Run("approves once the threshold is met", func(t *testing.T) {
		p := New(
			WithGenerator(scriptedGenerator(70, 76, 82)),
			WithThreshold(80),
		)
		res, err := p.Run(ctx, "garbage collection in Go")
		require.NoError(t, err)

		assert.True(t, res.State.Approved)
		assert.False(t, res.State.Exceeded)
		assert.Equal(t, 3, res.State.Iteration)
		assert.Equal(t, []int{70, 76, 82}, res.State.ScoreHistory)
		assert.Equal(t, 82, res.State.Score)
		assert.Equal(t, "generated text", res.State.Content)
	})

	t.Run("exhausted loop is flagged not approved", func(t *testing.T) {
		p := New(
			WithGenerator(scriptedGenerator(50)),
			WithThreshold(80),
			WithMaxIterations(10),
		)
		res, err := p.Run(ctx, "a stubborn topic")
		require.NoError(t, err)

		assert.True(t, res.State.Exceeded)
		assert.False(t, res.State.Approved)
		assert.Equal(t, 10, res.State.Iteration)
		require.Len(t, res.State.ScoreHistory, 10)
		for _, s := range res.State.ScoreHistory {
			assert.Equal(t, 50, s)
		}
	})

	t.Run("first draft can be approved", func(t *testing.T) {
		p := New(WithGenerator(scriptedGenerator(95)))
		res, err := p.Run(ctx, "an easy topic")
		require.NoError(t, err)

		assert.True(t, res.State.Approved)
		assert.Equal(t, 1, res.State.Iteration)
		assert.Equal(t, []int{95}, res.State.ScoreHistory)
	})

	t.Run("scores are clamped to the scale", func(t *testing.T) {
		p := New(WithGenerator(scriptedGenerator(150)))
		res, err := p.Run(ctx, "overscored")
		require.NoError(t, err)
		assert.Equal(t, 100, res.State.Score)
	})
}

func TestFallbacks(t *testing.T) {
	ctx := context.Background()

	t.Run("no generator still completes", func(t *testing.T) {
		p := New(WithThreshold(70))
		res, err := p.Run(ctx, "offline topic")
		require.NoError(t, err)

		assert.True(t, res.State.Approved)
		assert.Equal(t, 1, res.State.Iteration)
		assert.Equal(t, []int{neutralScore}, res.State.ScoreHistory)
		assert.Contains(t, res.State.Content, "offline topic")
		assert.NotEmpty(t, res.State.Research)
	})

	t.Run("neutral score below threshold exhausts the loop", func(t *testing.T) {
		p := New(WithThreshold(80), WithMaxIterations(3))
		res, err := p.Run(ctx, "offline topic")
		require.NoError(t, err)

		assert.True(t, res.State.Exceeded)
		assert.Equal(t, 3, res.State.Iteration)
	})
}

func TestPipelineEvents(t *testing.T) {
	p := New(WithGenerator(scriptedGenerator(70, 85)))
	res, err := p.Run(context.Background(), "events topic")
	require.NoError(t, err)

	var stepStarts []string
	var progress []any
	for _, ev := range res.Events {
		switch ev.Type {
		case event.StepStart:
			stepStarts = append(stepStarts, ev.StepID)
		case event.StepProgress:
			progress = append(progress, ev.Payload)
		}
	}
	assert.Equal(t, []string{
		"research",
		"draft", "review",
		"draft", "review",
		"finalize",
	}, stepStarts)
	assert.Equal(t, []any{
		"iteration 1 scored 70",
		"iteration 2 scored 85",
	}, progress)

	assert.Equal(t, event.RunStart, res.Events[0].Type)
	assert.Equal(t, event.RunEnd, res.Events[len(res.Events)-1].Type)
}

func TestRunStream(t *testing.T) {
	p := New(WithGenerator(scriptedGenerator(90)))
	events, results := p.RunStream(context.Background(), "streamed topic")

	var sawProgress bool
	for ev := range events {
		if ev.Type == event.StepProgress {
			sawProgress = true
		}
	}
	res := <-results
	require.NoError(t, res.Err)
	assert.True(t, sawProgress)
}
