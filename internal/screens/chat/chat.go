// Package chat is the free-form conversation screen. Chat costs nothing;
// it shares the runner only for the current document name and the busy gate.
package chat

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/assistant"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
)

const sendTimeout = 60 * time.Second

// ChatScreen renders the conversation and the input line.
type ChatScreen struct {
	session *assistant.ChatSession
	runner  *tools.Runner

	input   components.TextInput
	spinner components.Spinner
	waiting bool
	errMsg  string

	scrollOffset int
	stickBottom  bool
}

var _ screen.Screen = (*ChatScreen)(nil)
var _ screen.KeyHintProvider = (*ChatScreen)(nil)

// New creates the chat screen over the shared session.
func New(session *assistant.ChatSession, runner *tools.Runner) *ChatScreen {
	return &ChatScreen{
		session:     session,
		runner:      runner,
		input:       components.NewTextInput("", "Ask about your study material...", false, 0),
		spinner:     components.NewSpinner("Thinking..."),
		stickBottom: true,
	}
}

func (c *ChatScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *ChatScreen) Title() string {
	return "Chat"
}

func (c *ChatScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
		{Key: "PgUp/PgDn", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (c *ChatScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case replyMsg:
		c.waiting = false
		if msg.Err != nil {
			c.errMsg = "The assistant could not answer. Try again."
			return c, nil
		}
		c.stickBottom = true
		return c, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return c, func() tea.Msg { return router.PopScreenMsg{} }
		case "pgup":
			c.stickBottom = false
			c.scrollOffset -= 5
			if c.scrollOffset < 0 {
				c.scrollOffset = 0
			}
			return c, nil
		case "pgdown":
			c.scrollOffset += 5
			return c, nil
		case "enter":
			if c.waiting {
				return c, nil
			}
			text := strings.TrimSpace(c.input.Value())
			if text == "" {
				return c, nil
			}
			c.input = components.NewTextInput("", "Ask about your study material...", false, 0)
			c.waiting = true
			c.errMsg = ""
			c.stickBottom = true
			return c, tea.Batch(c.sendTurn(text), c.spinner.Init(), c.input.Init())
		}
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	if c.waiting {
		c.spinner, cmd = c.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	return c, tea.Batch(cmds...)
}

func (c *ChatScreen) sendTurn(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		reply, err := c.session.Send(ctx, text)
		return replyMsg{Reply: reply, Err: err}
	}
}

func (c *ChatScreen) View(width, height int) string {
	transcriptHeight := height - 4
	if transcriptHeight < 1 {
		transcriptHeight = 1
	}

	lines := c.transcriptLines(width)

	maxOffset := len(lines) - transcriptHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if c.stickBottom || c.scrollOffset > maxOffset {
		c.scrollOffset = maxOffset
	}

	end := c.scrollOffset + transcriptHeight
	if end > len(lines) {
		end = len(lines)
	}
	transcript := strings.Join(lines[c.scrollOffset:end], "\n")

	var status string
	switch {
	case c.waiting:
		status = c.spinner.View()
	case c.errMsg != "":
		status = lipgloss.NewStyle().Foreground(theme.Error).Render(c.errMsg)
	}

	body := lipgloss.NewStyle().Width(width).Height(transcriptHeight).Render(transcript)
	return body + "\n" + status + "\n" + c.input.View()
}

// transcriptLines renders the conversation wrapped to width.
func (c *ChatScreen) transcriptLines(width int) []string {
	wrap := lipgloss.NewStyle().Width(width - 4)
	userStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	assistantStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)

	var lines []string
	if len(c.session.History()) == 0 {
		hint := "Ask anything about your studies."
		if doc := c.runner.Document(); doc != nil {
			hint = "Ask anything about " + doc.Name + "."
		}
		return []string{theme.Hint.Render(hint)}
	}

	for _, m := range c.session.History() {
		var label string
		if m.Role == "user" {
			label = userStyle.Render("You")
		} else {
			label = assistantStyle.Render("Lernix")
		}
		lines = append(lines, label)
		lines = append(lines, strings.Split(wrap.Render(m.Content), "\n")...)
		lines = append(lines, "")
	}
	return lines
}
