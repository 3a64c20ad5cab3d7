package quiz

// DefaultQuestionCount is used when the learner does not pick a count.
const DefaultQuestionCount = 5

// Config holds the learner's quiz generation parameters.
type Config struct {
	QuestionCount         int
	IncludeMultipleChoice bool
	IncludeTrueFalse      bool
	Instructions          string
}

// DefaultConfig returns the config preselected in the quiz setup form.
func DefaultConfig() Config {
	return Config{
		QuestionCount:         DefaultQuestionCount,
		IncludeMultipleChoice: true,
		IncludeTrueFalse:      false,
	}
}

// normalized fills in defaults for zero or contradictory values.
func (c Config) normalized() Config {
	if c.QuestionCount <= 0 {
		c.QuestionCount = DefaultQuestionCount
	}
	if !c.IncludeMultipleChoice && !c.IncludeTrueFalse {
		c.IncludeMultipleChoice = true
	}
	return c
}
