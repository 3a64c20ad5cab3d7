package tools

// Kind identifies a paid assistant tool.
type Kind string

const (
	KindChat     Kind = "chat"
	KindSummary  Kind = "summary"
	KindQuiz     Kind = "quiz"
	KindSchedule Kind = "schedule"
)

// Cost returns the credit price of one invocation. Chat is free.
func (k Kind) Cost() int {
	switch k {
	case KindQuiz:
		return 2
	case KindSummary, KindSchedule:
		return 1
	default:
		return 0
	}
}

// RequiresDocument reports whether the tool needs a current study document.
func (k Kind) RequiresDocument() bool {
	return k == KindSummary || k == KindQuiz
}

// Label returns the user-facing tool name.
func (k Kind) Label() string {
	switch k {
	case KindChat:
		return "Chat"
	case KindSummary:
		return "Summary"
	case KindQuiz:
		return "Quiz"
	case KindSchedule:
		return "Study Schedule"
	default:
		return string(k)
	}
}
