package workflow

// Arm is one route of a Branch: a named predicate over the incoming
// value and the stage that runs when it matches.
type Arm struct {
	// Name identifies the route in RouteSelected events.
	Name string
	// When reports whether this arm accepts the value. Arms are tried
	// in declaration order; the first match wins.
	When func(in any) bool
	// Stage runs when the arm is selected.
	Stage Stage
}

// Branch routes the incoming value to the first arm whose predicate
// accepts it. With no match, the default arm runs if set; otherwise the
// branch fails with ErrNoRouteMatched.
type Branch struct {
	arms []Arm
	def  Stage
}

// Route builds a branch over the given arms.
func Route(arms ...Arm) *Branch {
	return &Branch{arms: arms}
}

// Default sets the stage that runs when no arm matches.
func (b *Branch) Default(stage Stage) *Branch {
	b.def = stage
	return b
}
