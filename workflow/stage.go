package workflow

// Stage is a unit of workflow composition. The concrete stages are
// [*Step], [*Sequence], [*Branch] and [*RepeatUntil]; the interface is
// sealed so the executor can enumerate them exhaustively.
type Stage interface {
	isStage()
}

func (*Step) isStage()        {}
func (*Sequence) isStage()    {}
func (*Branch) isStage()      {}
func (*RepeatUntil) isStage() {}
