package quiz

// Question is a single quiz question with 2-4 answer options.
type Question struct {
	ID                 int      `json:"id"`
	Text               string   `json:"text"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
	Explanation        string   `json:"explanation,omitempty"`
}

// Quiz is a generated set of questions over a study document.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Result is the outcome of a completed quiz session.
type Result struct {
	Score   int
	Total   int
	Answers []int
}

// Passed reports whether the result earns the performance bonus.
func (r Result) Passed() bool {
	if r.Total == 0 {
		return false
	}
	return float64(r.Score)/float64(r.Total) >= 0.8
}
