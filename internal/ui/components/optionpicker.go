package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/ui/theme"
)

var optionLabels = []string{"A", "B", "C", "D"}

// OptionPicker selects one answer option for a quiz question. Unlike a
// submit-and-reveal choice widget it never shows correctness; the recorded
// choice can be changed until the session moves on.
type OptionPicker struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int // -1 until a choice is recorded
}

// NewOptionPicker creates a picker for one question. chosen carries a
// previously recorded answer when the learner navigated back, or -1.
func NewOptionPicker(question string, options []string, chosen int) OptionPicker {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return OptionPicker{
		Question: question,
		Options:  options,
		Cursor:   cursor,
		Chosen:   chosen,
	}
}

// Update handles keyboard navigation. Enter records the cursor position as
// the chosen answer and reports it via the second return value (-1 if no
// choice was made this update).
func (o OptionPicker) Update(msg tea.Msg) (OptionPicker, int) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, -1
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "enter", "space":
		o.Chosen = o.Cursor
		return o, o.Cursor
	}

	return o, -1
}

// View renders the question and its options.
func (o OptionPicker) View() string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(o.Question) + "\n\n"

	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		marker := "( )"
		if i == o.Chosen {
			marker = "(●)"
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, marker, optionLabels[i], opt)

		switch {
		case i == o.Cursor:
			s += lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line) + "\n"
		case i == o.Chosen:
			s += lipgloss.NewStyle().Foreground(theme.Secondary).Render(line) + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.Text).Render(line) + "\n"
		}
	}

	return s
}
