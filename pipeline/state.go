package pipeline

// State is the value threaded through the content pipeline. Every step
// receives the previous step's State and returns an updated copy.
type State struct {
	Topic        string `json:"topic"`
	Research     string `json:"research"`
	Content      string `json:"content"`
	Feedback     string `json:"feedback"`
	Score        int    `json:"score"`
	Iteration    int    `json:"iteration"`
	ScoreHistory []int  `json:"score_history"`
	Approved     bool   `json:"approved"`
	// Exceeded marks a run that hit the iteration ceiling without
	// reaching the quality threshold. Never set together with Approved.
	Exceeded bool `json:"exceeded"`
}

// review is the structured shape the evaluator returns.
type review struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// clampScore bounds a score to the 0..100 scale.
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
