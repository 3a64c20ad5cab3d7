package assistant

import (
	"context"
	"fmt"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/llm"
)

const summarySystemPrompt = `You are Lernix, a study assistant. Summarize the attached study document for a learner.

Rules:
- Cover the key concepts, definitions, and conclusions. Leave out filler.
- Structure the summary with short section headings and bullet points, in plain text suitable for a terminal.
- Keep it concise: the learner should be able to read it in a few minutes.
- Match the language of the document.`

// GenerateSummary produces a plain-text summary of the document.
func GenerateSummary(ctx context.Context, provider llm.Provider, doc document.Document) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSummary)

	req := llm.Request{
		System: summarySystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: "Summarize the attached document."},
		},
		Attachments: []llm.Attachment{
			{Name: doc.Name, MIMEType: doc.MIMEType, Data: doc.Data},
		},
		MaxTokens: 2048,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("summary generation failed: %w", err)
	}
	return resp.Text(), nil
}
