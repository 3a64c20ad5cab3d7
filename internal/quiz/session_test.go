package quiz

import (
	"errors"
	"testing"
)

func threeQuestionQuiz() *Quiz {
	return &Quiz{
		Title: "Photosynthesis",
		Questions: []Question{
			{ID: 1, Text: "Where does photosynthesis occur?", Options: []string{"Chloroplast", "Nucleus", "Mitochondrion", "Ribosome"}, CorrectAnswerIndex: 0},
			{ID: 2, Text: "Plants release oxygen.", Options: []string{"True", "False"}, CorrectAnswerIndex: 0},
			{ID: 3, Text: "Which pigment absorbs light?", Options: []string{"Hemoglobin", "Chlorophyll", "Keratin", "Melanin"}, CorrectAnswerIndex: 1},
		},
	}
}

func TestSession_StartsUnanswered(t *testing.T) {
	s := NewSession(threeQuestionQuiz())
	if s.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.Cursor())
	}
	if s.Answer() != Unanswered {
		t.Fatalf("answer = %d, want unanswered", s.Answer())
	}
	if s.Done() {
		t.Fatal("new session should not be done")
	}
}

func TestSession_AdvanceRequiresAnswer(t *testing.T) {
	s := NewSession(threeQuestionQuiz())
	_, err := s.Advance()
	if !errors.Is(err, ErrUnanswered) {
		t.Fatalf("expected ErrUnanswered, got %v", err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor moved on guard failure: %d", s.Cursor())
	}
}

func TestSession_CompleteWithPerfectScore(t *testing.T) {
	q := threeQuestionQuiz()
	s := NewSession(q)

	answers := []int{0, 0, 1}
	var res *Result
	for i, a := range answers {
		s.SelectOption(a)
		var err error
		res, err = s.Advance()
		if err != nil {
			t.Fatalf("advance %d: %v", i, err)
		}
	}

	if res == nil {
		t.Fatal("expected result after last advance")
	}
	if res.Score != 3 || res.Total != 3 {
		t.Fatalf("score = %d/%d, want 3/3", res.Score, res.Total)
	}
	if !res.Passed() {
		t.Fatal("perfect score should pass")
	}
	if !s.Done() {
		t.Fatal("session should be done")
	}
}

func TestSession_ScoresOnlyCorrectAnswers(t *testing.T) {
	s := NewSession(threeQuestionQuiz())

	s.SelectOption(2) // wrong
	s.Advance()
	s.SelectOption(0) // right
	s.Advance()
	s.SelectOption(1) // right
	res, err := s.Advance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Score != 2 {
		t.Fatalf("score = %d, want 2", res.Score)
	}
	if res.Passed() {
		t.Fatal("2/3 should not pass the 0.8 threshold")
	}
	want := []int{2, 0, 1}
	for i, a := range res.Answers {
		if a != want[i] {
			t.Fatalf("answers = %v, want %v", res.Answers, want)
		}
	}
}

func TestSession_RetreatKeepsAnswers(t *testing.T) {
	s := NewSession(threeQuestionQuiz())

	if err := s.Retreat(); !errors.Is(err, ErrAtStart) {
		t.Fatalf("expected ErrAtStart, got %v", err)
	}

	s.SelectOption(1)
	s.Advance()
	if err := s.Retreat(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Cursor() != 0 {
		t.Fatalf("cursor = %d, want 0", s.Cursor())
	}
	if s.Answer() != 1 {
		t.Fatalf("answer lost on retreat: %d", s.Answer())
	}

	// Overwrite and move forward again.
	s.SelectOption(0)
	s.Advance()
	if s.Answer() != Unanswered {
		t.Fatalf("question 2 should still be unanswered, got %d", s.Answer())
	}
}

func TestSession_SelectOptionIgnoresOutOfRange(t *testing.T) {
	s := NewSession(threeQuestionQuiz())
	s.SelectOption(7)
	if s.Answer() != Unanswered {
		t.Fatalf("out-of-range selection recorded: %d", s.Answer())
	}
	s.SelectOption(-1)
	if s.Answer() != Unanswered {
		t.Fatalf("negative selection recorded: %d", s.Answer())
	}
}

func TestSession_Progress(t *testing.T) {
	s := NewSession(threeQuestionQuiz())
	if got := s.Progress(); got != 1.0/3.0 {
		t.Fatalf("progress = %f", got)
	}
	s.SelectOption(0)
	s.Advance()
	if got := s.Progress(); got != 2.0/3.0 {
		t.Fatalf("progress = %f", got)
	}
}

func TestResult_PassedThreshold(t *testing.T) {
	tests := []struct {
		score, total int
		want         bool
	}{
		{4, 5, true},
		{3, 5, false},
		{5, 5, true},
		{0, 0, false},
		{8, 10, true},
		{7, 10, false},
	}
	for _, tt := range tests {
		r := Result{Score: tt.score, Total: tt.total}
		if r.Passed() != tt.want {
			t.Errorf("Passed(%d/%d) = %v, want %v", tt.score, tt.total, r.Passed(), tt.want)
		}
	}
}
