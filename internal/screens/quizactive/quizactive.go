// Package quizactive walks the learner through a running quiz session.
package quizactive

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/quiz"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/screens/quizresult"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
)

// QuizActiveScreen runs one quiz session.
type QuizActiveScreen struct {
	runner  *tools.Runner
	session *quiz.Session
	picker  components.OptionPicker

	showQuitConfirm bool
	hint            string
}

var _ screen.Screen = (*QuizActiveScreen)(nil)
var _ screen.KeyHintProvider = (*QuizActiveScreen)(nil)

// New creates the screen with a fresh session bound to q.
func New(runner *tools.Runner, q *quiz.Quiz) *QuizActiveScreen {
	s := quiz.NewSession(q)
	return &QuizActiveScreen{
		runner:  runner,
		session: s,
		picker:  pickerFor(s),
	}
}

func pickerFor(s *quiz.Session) components.OptionPicker {
	cur := s.Current()
	return components.NewOptionPicker(cur.Text, cur.Options, s.Answer())
}

func (a *QuizActiveScreen) Init() tea.Cmd {
	return nil
}

func (a *QuizActiveScreen) Title() string {
	return a.session.Quiz().Title
}

func (a *QuizActiveScreen) KeyHints() []layout.KeyHint {
	if a.showQuitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon quiz"},
			{Key: "N", Description: "Keep going"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Choose"},
		{Key: "→", Description: "Next"},
		{Key: "←", Description: "Previous"},
		{Key: "Esc", Description: "Abandon"},
	}
}

func (a *QuizActiveScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	if a.showQuitConfirm {
		switch kmsg.String() {
		case "y", "Y":
			// Session is discarded; no refund, the quiz was delivered.
			return a, func() tea.Msg { return router.PopToRootMsg{} }
		case "n", "N", "esc":
			a.showQuitConfirm = false
		}
		return a, nil
	}

	switch kmsg.String() {
	case "esc":
		a.showQuitConfirm = true
		return a, nil

	case "right", "l":
		return a.advance()

	case "left", "h":
		if err := a.session.Retreat(); err == nil {
			a.picker = pickerFor(a.session)
			a.hint = ""
		}
		return a, nil
	}

	var chosen int
	a.picker, chosen = a.picker.Update(msg)
	if chosen >= 0 {
		a.session.SelectOption(chosen)
		// Choosing moves on, matching the flow of answering in order.
		return a.advance()
	}
	return a, nil
}

func (a *QuizActiveScreen) advance() (screen.Screen, tea.Cmd) {
	result, err := a.session.Advance()
	if err != nil {
		a.hint = "Pick an answer first."
		return a, nil
	}
	a.hint = ""

	if result == nil {
		a.picker = pickerFor(a.session)
		return a, nil
	}

	// Session complete: award the performance bonus before showing the result.
	bonus := 0
	var walletNotice string
	if result.Passed() {
		bonus = 1
		if err := a.runner.Wallet().Bonus(context.Background(), bonus); err != nil {
			walletNotice = "The bonus could not be saved: " + err.Error()
		}
	}

	next := quizresult.New(a.session.Quiz(), *result, bonus, walletNotice)
	return a, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (a *QuizActiveScreen) View(width, height int) string {
	if a.showQuitConfirm {
		confirm := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
			Render("Abandon this quiz?") + "\n" +
			theme.Hint.Render("Your answers so far will be lost. No refund for a delivered quiz.")
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, confirm)
	}

	var b strings.Builder

	total := len(a.session.Quiz().Questions)
	counter := fmt.Sprintf("Question %d of %d", a.session.Cursor()+1, total)
	b.WriteString(theme.Subtitle.Width(width).Render(counter))
	b.WriteString("\n")

	bar := components.NewProgressBar("", a.session.Progress(), false, min(width-8, 48))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	picker := lipgloss.NewStyle().Width(min(width-8, 72)).Render(a.picker.View())
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, picker))

	if a.hint != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(a.hint))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
