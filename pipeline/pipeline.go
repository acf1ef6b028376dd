// Package pipeline implements the content pipeline: research a topic,
// draft, then review and refine in a bounded convergence loop until the
// draft scores above the quality threshold.
//
// Every Generator-backed step degrades to a deterministic fallback when
// no Generator is configured, so the pipeline always completes.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kestrelworks/loom"
	"github.com/kestrelworks/loom/event"
	"github.com/kestrelworks/loom/schema"
	"github.com/kestrelworks/loom/workflow"
)

const (
	// DefaultThreshold is the score a draft must reach to be approved.
	DefaultThreshold = 80
	// DefaultMaxIterations bounds the review loop.
	DefaultMaxIterations = 10

	// neutralScore is substituted when no evaluator is available.
	neutralScore = 70
)

// Result is the outcome of one pipeline run.
type Result struct {
	RunID  string
	State  State
	Events []event.Event
}

// Pipeline is a configured content pipeline. Construct once with New
// and run as many times as needed.
type Pipeline struct {
	wf        *workflow.Workflow
	threshold int
}

// New builds the content pipeline workflow: research, then a bounded
// draft/review loop, then finalize.
func New(opts ...Option) *Pipeline {
	cfg := config{
		threshold:     DefaultThreshold,
		maxIterations: DefaultMaxIterations,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	stateSchema := schema.MustFor[State]()
	p := &Pipeline{threshold: cfg.threshold}

	research := workflow.NewStep("research", p.research,
		workflow.WithDescription("Gather background for the topic"),
		workflow.WithOutput(stateSchema),
		workflow.WithRetries(2),
	)
	draft := workflow.NewStep("draft", p.draft,
		workflow.WithDescription("Draft or refine the content"),
		workflow.WithInput(stateSchema),
		workflow.WithOutput(stateSchema),
		workflow.WithRetries(2),
	)
	reviewStep := workflow.NewStep("review", p.review,
		workflow.WithDescription("Score the draft against the quality bar"),
		workflow.WithInput(stateSchema),
		workflow.WithOutput(stateSchema),
		workflow.WithRetries(2),
	)
	finalize := workflow.NewStep("finalize", p.finalize,
		workflow.WithInput(stateSchema),
		workflow.WithOutput(stateSchema),
	)

	loop := workflow.Loop(workflow.Steps(draft, reviewStep), func(out any) bool {
		st, err := toState(out)
		if err != nil {
			return false
		}
		return st.Score < cfg.threshold
	}).MaxIterations(cfg.maxIterations)

	wfOpts := append([]workflow.Option{
		workflow.WithInputSchema(stateSchema),
		workflow.WithOutputSchema(stateSchema),
	}, cfg.wfOpts...)

	p.wf = workflow.New("content", workflow.Steps(research, loop, finalize), wfOpts...)
	return p
}

// Run executes the pipeline for a topic. A run that exhausts the review
// loop is not an error: it returns the last state with Exceeded set so
// the caller can distinguish non-convergence from approval.
func (p *Pipeline) Run(ctx context.Context, topic string) (*Result, error) {
	res := p.wf.Run(ctx, State{Topic: topic})
	if res.Err != nil {
		var le *workflow.LoopExceededError
		if errors.As(res.Err, &le) {
			st, derr := toState(le.LastOutput)
			if derr == nil {
				st.Exceeded = true
				return &Result{RunID: res.RunID, State: st, Events: res.Events}, nil
			}
		}
		return nil, res.Err
	}

	st, err := toState(res.Output)
	if err != nil {
		return nil, err
	}
	return &Result{RunID: res.RunID, State: st, Events: res.Events}, nil
}

// RunStream is like Run but streams progress events live. The caller
// must drain the events channel.
func (p *Pipeline) RunStream(ctx context.Context, topic string) (<-chan event.Event, <-chan workflow.Result) {
	return p.wf.RunStream(ctx, State{Topic: topic})
}

func (p *Pipeline) research(ctx context.Context, in any, ec *workflow.Context) (any, error) {
	st, err := toState(in)
	if err != nil {
		return nil, err
	}

	gen, err := ec.Generator()
	if err != nil {
		st.Research = fmt.Sprintf("Overview of %s: key concepts, common use cases, and current best practices.", st.Topic)
		return st, nil
	}

	if err := ec.Throttle(ctx); err != nil {
		return nil, err
	}
	resp, err := gen.Generate(ctx, []loom.Message{
		{Role: loom.RoleSystem, Content: "You are a research assistant. Summarize the essential background a writer needs."},
		{Role: loom.RoleUser, Content: fmt.Sprintf("Collect key facts and context about: %s", st.Topic)},
	})
	if err != nil {
		return nil, err
	}
	st.Research = resp.Content
	return st, nil
}

func (p *Pipeline) draft(ctx context.Context, in any, ec *workflow.Context) (any, error) {
	st, err := toState(in)
	if err != nil {
		return nil, err
	}

	gen, err := ec.Generator()
	if err != nil {
		st.Content = fmt.Sprintf("# %s\n\n%s", st.Topic, st.Research)
		return st, nil
	}

	var prompt string
	if st.Content == "" {
		prompt = fmt.Sprintf("Write an article about %q using this research:\n\n%s", st.Topic, st.Research)
	} else {
		prompt = fmt.Sprintf("Revise the article below to address the feedback.\n\nFeedback: %s\n\nArticle:\n%s", st.Feedback, st.Content)
	}

	if err := ec.Throttle(ctx); err != nil {
		return nil, err
	}
	resp, err := gen.Generate(ctx, []loom.Message{
		{Role: loom.RoleSystem, Content: "You are a content writer."},
		{Role: loom.RoleUser, Content: prompt},
	})
	if err != nil {
		return nil, err
	}
	st.Content = resp.Content
	return st, nil
}

func (p *Pipeline) review(ctx context.Context, in any, ec *workflow.Context) (any, error) {
	st, err := toState(in)
	if err != nil {
		return nil, err
	}

	rv := review{Score: neutralScore, Feedback: "No evaluator configured; neutral score assigned."}

	if gen, gerr := ec.Generator(); gerr == nil {
		if err := ec.Throttle(ctx); err != nil {
			return nil, err
		}
		reviewSchema := schema.MustFor[review]()
		resp, err := gen.Generate(ctx, []loom.Message{
			{Role: loom.RoleSystem, Content: "You are an exacting editor. Score the article 0-100 and give concrete feedback."},
			{Role: loom.RoleUser, Content: st.Content},
		}, loom.WithResponseSchema(loom.ResponseSchema{
			Name:        "review",
			Description: "Quality score and feedback for an article",
			Schema:      reviewSchema.JSON(),
		}))
		if err != nil {
			return nil, err
		}
		if err := resp.Object(&rv); err != nil {
			return nil, loom.NewTransientError("review: malformed evaluator response", err)
		}
	}

	st.Score = clampScore(rv.Score)
	st.Feedback = rv.Feedback
	st.Iteration++
	st.ScoreHistory = append(st.ScoreHistory, st.Score)

	ec.Progress(fmt.Sprintf("iteration %d scored %d", st.Iteration, st.Score))
	return st, nil
}

func (p *Pipeline) finalize(ctx context.Context, in any, ec *workflow.Context) (any, error) {
	st, err := toState(in)
	if err != nil {
		return nil, err
	}
	st.Content = strings.TrimSpace(st.Content)
	st.Approved = st.Score >= p.threshold
	return st, nil
}

// toState converts a stage value back into a State. Values that crossed
// a schema boundary may arrive as generic JSON maps.
func toState(in any) (State, error) {
	if st, ok := in.(State); ok {
		return st, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return State{}, fmt.Errorf("pipeline: encode state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("pipeline: decode state: %w", err)
	}
	return st, nil
}
