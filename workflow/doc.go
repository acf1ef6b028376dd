// Package workflow composes steps into executable pipelines.
//
// A workflow is a tree of stages: a [Step] is a leaf that does the work,
// and [Sequence], [Branch] and [RepeatUntil] combine stages into larger
// ones. Values flow from stage to stage and are validated against schema
// contracts at every boundary; progress events stream to the run's sink
// and each step executes inside its own trace span.
//
//	wf := workflow.New("greet",
//		workflow.Steps(
//			workflow.NewStep("compose", composeFn),
//			workflow.NewStep("deliver", deliverFn),
//		),
//	)
//	result := wf.Run(ctx, input)
package workflow
