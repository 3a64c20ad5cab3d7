package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/llm"
)

var testDoc = document.Document{
	Name:     "biology.pdf",
	MIMEType: "application/pdf",
	Data:     "cGRmLWJ5dGVz",
}

const validQuizJSON = `{
	"title": "Cell Biology",
	"questions": [
		{"id": 1, "text": "What is the powerhouse of the cell?", "options": ["Nucleus", "Mitochondrion", "Ribosome", "Golgi"], "correctAnswerIndex": 1, "explanation": "Mitochondria produce ATP."},
		{"id": 2, "text": "Cells have membranes.", "options": ["True", "False"], "correctAnswerIndex": 0, "explanation": "All cells are membrane-bound."}
	]
}`

func TestService_Generate(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validQuizJSON)},
	)
	svc := NewService(mock)

	cfg := Config{QuestionCount: 2, IncludeMultipleChoice: true, IncludeTrueFalse: true, Instructions: "focus on organelles"}
	q, err := svc.Generate(context.Background(), testDoc, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if q.Title != "Cell Biology" {
		t.Fatalf("title = %q", q.Title)
	}
	if len(q.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(q.Questions))
	}
	if q.Questions[0].CorrectAnswerIndex != 1 {
		t.Fatalf("correct index = %d", q.Questions[0].CorrectAnswerIndex)
	}

	call := mock.LastCall()
	if len(call.Attachments) != 1 || call.Attachments[0].Name != "biology.pdf" {
		t.Fatalf("document not attached: %+v", call.Attachments)
	}
	prompt := call.Messages[len(call.Messages)-1].Content
	if !strings.Contains(prompt, "2 questions") {
		t.Fatalf("question count missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "focus on organelles") {
		t.Fatalf("instructions missing from prompt: %q", prompt)
	}
}

func TestService_GenerateNormalizesConfig(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validQuizJSON)},
	)
	svc := NewService(mock)

	// Zero config: default count, multiple choice enabled.
	_, err := svc.Generate(context.Background(), testDoc, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	prompt := mock.LastCall().Messages[0].Content
	if !strings.Contains(prompt, "5 questions") {
		t.Fatalf("default count missing from prompt: %q", prompt)
	}
	if !strings.Contains(prompt, "multiple choice") {
		t.Fatalf("default type missing from prompt: %q", prompt)
	}
}

func TestService_GeneratePropagatesFailure(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue fails
	svc := NewService(mock)

	_, err := svc.Generate(context.Background(), testDoc, DefaultConfig())
	if err == nil {
		t.Fatal("expected error")
	}
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestService_GenerateRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "no questions",
			body: `{"title": "Empty", "questions": []}`,
		},
		{
			name: "too few options",
			body: `{"title": "Bad", "questions": [{"id": 1, "text": "q", "options": ["only"], "correctAnswerIndex": 0, "explanation": "e"}]}`,
		},
		{
			name: "too many options",
			body: `{"title": "Bad", "questions": [{"id": 1, "text": "q", "options": ["a","b","c","d","e"], "correctAnswerIndex": 0, "explanation": "e"}]}`,
		},
		{
			name: "correct index out of range",
			body: `{"title": "Bad", "questions": [{"id": 1, "text": "q", "options": ["a","b"], "correctAnswerIndex": 2, "explanation": "e"}]}`,
		},
		{
			name: "empty question text",
			body: `{"title": "Bad", "questions": [{"id": 1, "text": "  ", "options": ["a","b"], "correctAnswerIndex": 0, "explanation": "e"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(
				llm.MockResponse{Content: json.RawMessage(tt.body)},
			)
			svc := NewService(mock)

			_, err := svc.Generate(context.Background(), testDoc, DefaultConfig())
			var inv *llm.ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
			}
		})
	}
}
