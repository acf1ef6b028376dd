package workflow

// Sequence runs its stages in order, threading each stage's output into
// the next stage's input. The sequence's output is the last stage's
// output; the first failure aborts the remainder.
type Sequence struct {
	stages []Stage
}

// Steps composes stages into a sequence.
func Steps(stages ...Stage) *Sequence {
	return &Sequence{stages: stages}
}

// Then appends a stage, returning the sequence for chaining.
func (s *Sequence) Then(stage Stage) *Sequence {
	s.stages = append(s.stages, stage)
	return s
}
