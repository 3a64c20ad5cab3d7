package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/llm"
)

const scheduleSystemPrompt = `You are Lernix, a study assistant. Create a personal study schedule for a learner.

Rules:
- Produce a day-by-day plan covering the requested duration, with concrete time blocks based on the learner's daily hours.
- Weight the plan toward the stated focus area and weak points.
- Include the requested rest breaks between study blocks.
- Use plain text suitable for a terminal: headings per day, one line per block.
- If a study document is attached, align the plan's topics with its content.
- Match the language the learner writes in.`

// ScheduleConfig holds the learner's study plan parameters.
type ScheduleConfig struct {
	Subjects               string
	FocusArea              string
	WeakPoints             string
	Duration               string
	DailyHours             string
	RestTime               string
	AdditionalInstructions string
}

// GenerateSchedule produces a plain-text study schedule. The document is
// optional; when present it grounds the plan's topics.
func GenerateSchedule(ctx context.Context, provider llm.Provider, doc *document.Document, cfg ScheduleConfig) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeSchedule)

	req := llm.Request{
		System: scheduleSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildScheduleMessage(cfg)},
		},
		MaxTokens: 2048,
	}
	if doc != nil {
		req.Attachments = []llm.Attachment{
			{Name: doc.Name, MIMEType: doc.MIMEType, Data: doc.Data},
		}
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("schedule generation failed: %w", err)
	}
	return resp.Text(), nil
}

func buildScheduleMessage(cfg ScheduleConfig) string {
	var b strings.Builder

	b.WriteString("Create a study schedule with these parameters:\n")
	writeField(&b, "Subjects", cfg.Subjects)
	writeField(&b, "Focus area", cfg.FocusArea)
	writeField(&b, "Weak points", cfg.WeakPoints)
	writeField(&b, "Duration", cfg.Duration)
	writeField(&b, "Daily study hours", cfg.DailyHours)
	writeField(&b, "Rest time between blocks", cfg.RestTime)

	if cfg.AdditionalInstructions != "" {
		b.WriteString("\nAdditional instructions:\n")
		b.WriteString(cfg.AdditionalInstructions)
	}

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		value = "not specified"
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}
