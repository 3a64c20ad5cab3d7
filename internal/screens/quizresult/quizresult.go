// Package quizresult shows the score and a per-question review.
package quizresult

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/quiz"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
)

// QuizResultScreen displays a finished session's outcome.
type QuizResultScreen struct {
	quiz         *quiz.Quiz
	result       quiz.Result
	bonus        int
	walletNotice string

	scrollOffset int
}

var _ screen.Screen = (*QuizResultScreen)(nil)
var _ screen.KeyHintProvider = (*QuizResultScreen)(nil)

// New creates the result screen. bonus is the points just awarded, 0 if the
// run did not pass; walletNotice reports a bonus that could not be written.
func New(q *quiz.Quiz, result quiz.Result, bonus int, walletNotice string) *QuizResultScreen {
	return &QuizResultScreen{quiz: q, result: result, bonus: bonus, walletNotice: walletNotice}
}

func (r *QuizResultScreen) Init() tea.Cmd {
	return nil
}

func (r *QuizResultScreen) Title() string {
	return "Quiz Result"
}

func (r *QuizResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
	}
}

func (r *QuizResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "enter":
			return r, func() tea.Msg { return router.PopToRootMsg{} }
		case "up", "k":
			if r.scrollOffset > 0 {
				r.scrollOffset--
			}
		case "down", "j":
			r.scrollOffset++
		}
	}
	return r, nil
}

func (r *QuizResultScreen) View(width, height int) string {
	var b strings.Builder

	headline := fmt.Sprintf("You scored %d out of %d", r.result.Score, r.result.Total)
	b.WriteString(theme.Title.Width(width).Render(headline))
	b.WriteString("\n")

	if r.bonus > 0 {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Success).
			Render(fmt.Sprintf("Great run! +%d bonus point", r.bonus)))
		b.WriteString("\n")
	}
	if r.walletNotice != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(r.walletNotice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	cw := min(width-8, 72)
	var review []string
	for i, question := range r.quiz.Questions {
		review = append(review, components.ReviewQuestion(
			i+1, question.Text, question.Options,
			question.CorrectAnswerIndex, r.result.Answers[i],
			question.Explanation,
		))
	}
	wrapped := lipgloss.NewStyle().Width(cw).Render(strings.Join(review, "\n"))
	lines := strings.Split(wrapped, "\n")

	head := lipgloss.Height(b.String())
	bodyHeight := height - head
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	maxOffset := len(lines) - bodyHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if r.scrollOffset > maxOffset {
		r.scrollOffset = maxOffset
	}
	end := r.scrollOffset + bodyHeight
	if end > len(lines) {
		end = len(lines)
	}

	body := strings.Join(lines[r.scrollOffset:end], "\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))

	return b.String()
}
