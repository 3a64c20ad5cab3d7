package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/llm"
)

const systemPrompt = `You are a study assistant creating quizzes from a learner's study material.

Rules:
- Base every question strictly on the attached document. Do not invent facts that are not in it.
- Each question must have exactly one correct option.
- Multiple choice questions have 4 options. Distractors should be plausible and reflect common misunderstandings of the material, not random values.
- True/false questions have exactly the 2 options "True" and "False", in that order.
- Write a short explanation for each question that cites the relevant part of the document.
- Number questions sequentially starting at 1.
- Match the language of the document.`

// Service generates quizzes from study documents via the LLM provider.
type Service struct {
	provider  llm.Provider
	maxTokens int
}

// NewService creates a quiz generation service.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider, maxTokens: 4096}
}

// quizOutput is the raw LLM response before validation.
type quizOutput struct {
	Title     string `json:"title"`
	Questions []struct {
		ID                 int      `json:"id"`
		Text               string   `json:"text"`
		Options            []string `json:"options"`
		CorrectAnswerIndex int      `json:"correctAnswerIndex"`
		Explanation        string   `json:"explanation"`
	} `json:"questions"`
}

// Generate produces a quiz over the given document. The call is
// single-attempt: any failure propagates to the caller for compensation.
func (s *Service) Generate(ctx context.Context, doc document.Document, cfg Config) (*Quiz, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	cfg = cfg.normalized()

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(cfg)},
		},
		Attachments: []llm.Attachment{
			{Name: doc.Name, MIMEType: doc.MIMEType, Data: doc.Data},
		},
		Schema:    QuizSchema,
		MaxTokens: s.maxTokens,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("quiz generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse quiz response: %w", err)
	}

	q := &Quiz{Title: raw.Title}
	for _, rq := range raw.Questions {
		q.Questions = append(q.Questions, Question{
			ID:                 rq.ID,
			Text:               rq.Text,
			Options:            rq.Options,
			CorrectAnswerIndex: rq.CorrectAnswerIndex,
			Explanation:        rq.Explanation,
		})
	}

	if err := validateQuiz(q); err != nil {
		return nil, err
	}

	return q, nil
}

// buildUserMessage constructs the generation request from the learner's
// config.
func buildUserMessage(cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a quiz with %d questions from the attached document.\n", cfg.QuestionCount)

	var kinds []string
	if cfg.IncludeMultipleChoice {
		kinds = append(kinds, "multiple choice (4 options)")
	}
	if cfg.IncludeTrueFalse {
		kinds = append(kinds, "true/false (2 options: True, False)")
	}
	fmt.Fprintf(&b, "Allowed question types: %s.\n", strings.Join(kinds, ", "))

	if cfg.Instructions != "" {
		b.WriteString("\nAdditional instructions from the learner:\n")
		b.WriteString(cfg.Instructions)
	}

	return b.String()
}

// validateQuiz enforces the structural rules the schema alone cannot express.
func validateQuiz(q *Quiz) error {
	if len(q.Questions) == 0 {
		return &llm.ErrInvalidResponse{Err: errors.New("quiz has no questions")}
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Text) == "" {
			return &llm.ErrInvalidResponse{Err: fmt.Errorf("question %d has empty text", i+1)}
		}
		if len(question.Options) < 2 || len(question.Options) > 4 {
			return &llm.ErrInvalidResponse{
				Err: fmt.Errorf("question %d has %d options, want 2-4", i+1, len(question.Options)),
			}
		}
		if question.CorrectAnswerIndex < 0 || question.CorrectAnswerIndex >= len(question.Options) {
			return &llm.ErrInvalidResponse{
				Err: fmt.Errorf("question %d has correct index %d out of range", i+1, question.CorrectAnswerIndex),
			}
		}
	}
	return nil
}
