package quiz

import "errors"

// Unanswered marks a question the learner has not selected an option for.
const Unanswered = -1

var (
	// ErrUnanswered is returned by Advance when the current question has no
	// recorded selection.
	ErrUnanswered = errors.New("current question is unanswered")

	// ErrAtStart is returned by Retreat on the first question.
	ErrAtStart = errors.New("already at first question")
)

// Session tracks a learner's progress through a quiz. It is bound 1:1 to the
// quiz it was created from and is not safe for concurrent use; the TUI event
// loop is the single caller.
type Session struct {
	quiz    *Quiz
	cursor  int
	answers []int
	done    bool
}

// NewSession starts a session over the given quiz with all questions
// unanswered.
func NewSession(q *Quiz) *Session {
	answers := make([]int, len(q.Questions))
	for i := range answers {
		answers[i] = Unanswered
	}
	return &Session{quiz: q, answers: answers}
}

// Quiz returns the quiz this session runs over.
func (s *Session) Quiz() *Quiz { return s.quiz }

// Cursor returns the zero-based index of the current question.
func (s *Session) Cursor() int { return s.cursor }

// Current returns the question at the cursor.
func (s *Session) Current() Question { return s.quiz.Questions[s.cursor] }

// Answer returns the recorded selection for the current question, or
// Unanswered.
func (s *Session) Answer() int { return s.answers[s.cursor] }

// Done reports whether the session has emitted its result.
func (s *Session) Done() bool { return s.done }

// SelectOption records the selection for the current question, overwriting
// any prior choice. Out-of-range indices are ignored.
func (s *Session) SelectOption(index int) {
	if s.done || index < 0 || index >= len(s.Current().Options) {
		return
	}
	s.answers[s.cursor] = index
}

// Advance moves to the next question. The current question must be answered
// first. On the last question it computes the result and finishes the
// session.
func (s *Session) Advance() (*Result, error) {
	if s.answers[s.cursor] == Unanswered {
		return nil, ErrUnanswered
	}
	if s.cursor < len(s.quiz.Questions)-1 {
		s.cursor++
		return nil, nil
	}
	s.done = true
	res := s.score()
	return &res, nil
}

// Retreat moves back one question. The answer at the position left is kept.
func (s *Session) Retreat() error {
	if s.cursor == 0 {
		return ErrAtStart
	}
	s.cursor--
	return nil
}

// Progress returns the fraction of the quiz reached, counting the current
// question as in progress.
func (s *Session) Progress() float64 {
	total := len(s.quiz.Questions)
	if total == 0 {
		return 0
	}
	return float64(s.cursor+1) / float64(total)
}

// score tallies one point per question whose recorded answer matches the
// correct index. Unanswered questions count as incorrect.
func (s *Session) score() Result {
	res := Result{
		Total:   len(s.quiz.Questions),
		Answers: make([]int, len(s.answers)),
	}
	copy(res.Answers, s.answers)
	for i, q := range s.quiz.Questions {
		if s.answers[i] == q.CorrectAnswerIndex {
			res.Score++
		}
	}
	return res
}
