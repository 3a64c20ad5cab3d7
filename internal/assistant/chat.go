package assistant

import (
	"context"
	"fmt"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/llm"
)

const chatSystemPrompt = `You are Lernix, a friendly study assistant. You help a learner understand their study material.

Rules:
- Answer questions about the attached document when one is present. Be accurate and cite the relevant section when possible.
- Keep answers focused and conversational. This is a terminal UI, so use plain text, short paragraphs, and simple lists.
- If the learner asks something unrelated to studying, gently steer back to the material.
- Match the language the learner writes in.`

// ChatSession holds a multi-turn conversation with the study assistant.
// The current document is attached once, on the first turn after it is set;
// later turns rely on the provider-side conversation context carried in the
// message history.
type ChatSession struct {
	provider llm.Provider

	history []llm.Message
	doc     *document.Document
	docSent bool
}

// NewChatSession creates an empty chat session.
func NewChatSession(provider llm.Provider) *ChatSession {
	return &ChatSession{provider: provider}
}

// SetDocument binds a document to the conversation. It will be attached to
// the next turn.
func (c *ChatSession) SetDocument(doc *document.Document) {
	c.doc = doc
	c.docSent = false
}

// History returns the conversation so far.
func (c *ChatSession) History() []llm.Message { return c.history }

// Reset discards the conversation history. The bound document, if any, is
// kept and re-attached on the next turn.
func (c *ChatSession) Reset() {
	c.history = nil
	c.docSent = false
}

// Send appends the learner's message, calls the provider, and appends the
// reply. On failure the learner's message is rolled back so a retry sends a
// clean history.
func (c *ChatSession) Send(ctx context.Context, text string) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeChat)

	c.history = append(c.history, llm.Message{Role: llm.RoleUser, Content: text})

	req := llm.Request{
		System:    chatSystemPrompt,
		Messages:  c.history,
		MaxTokens: 2048,
	}
	attachDoc := c.doc != nil && !c.docSent
	if attachDoc {
		req.Attachments = []llm.Attachment{
			{Name: c.doc.Name, MIMEType: c.doc.MIMEType, Data: c.doc.Data},
		}
	}

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		c.history = c.history[:len(c.history)-1]
		return "", fmt.Errorf("chat turn failed: %w", err)
	}

	if attachDoc {
		c.docSent = true
	}

	reply := resp.Text()
	c.history = append(c.history, llm.Message{Role: llm.RoleAssistant, Content: reply})
	return reply, nil
}
