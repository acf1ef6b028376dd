package workflow

// DefaultMaxIterations bounds a RepeatUntil that never sets its own
// ceiling.
const DefaultMaxIterations = 10

// RepeatUntil runs its body, then re-runs it with the body's output as
// the next input for as long as the continue predicate holds. The body
// always runs at least once. Reaching the iteration ceiling with the
// predicate still true fails the loop with a LoopExceededError carrying
// the last output.
type RepeatUntil struct {
	body Stage
	cont func(out any) bool
	max  int
}

// Loop builds a RepeatUntil with the default iteration ceiling. cont is
// evaluated on the body's output after every iteration; the loop exits
// cleanly as soon as it returns false.
func Loop(body Stage, cont func(out any) bool) *RepeatUntil {
	return &RepeatUntil{body: body, cont: cont, max: DefaultMaxIterations}
}

// MaxIterations sets the iteration ceiling. Values below 1 keep the
// default.
func (l *RepeatUntil) MaxIterations(n int) *RepeatUntil {
	if n >= 1 {
		l.max = n
	}
	return l
}
