package components

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/ui/theme"
)

// ReviewQuestion renders an answered question with the correct option in
// green and a wrong choice in red. chosen is -1 for unanswered questions.
func ReviewQuestion(number int, question string, options []string, correct, chosen int, explanation string) string {
	s := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d. %s", number, question)) + "\n"

	for i, opt := range options {
		line := fmt.Sprintf("   %s)  %s", optionLabels[i], opt)
		switch {
		case i == correct:
			s += theme.Correct.Render(line+"  ✓") + "\n"
		case i == chosen:
			s += theme.Incorrect.Render(line+"  ✗") + "\n"
		default:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		}
	}

	if chosen == -1 {
		s += theme.Incorrect.Render("   not answered") + "\n"
	}

	if explanation != "" {
		s += theme.Hint.Render("   "+explanation) + "\n"
	}

	return s
}
