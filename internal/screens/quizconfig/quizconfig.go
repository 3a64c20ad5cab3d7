// Package quizconfig collects quiz parameters and runs the paid generation.
// A generation failure returns here with the form intact, since the
// learner's input is still relevant.
package quizconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/quiz"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/screens/quizactive"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
	"github.com/hakim/lernix/internal/wallet"
)

// Form fields, in focus order.
const (
	fieldCount = iota
	fieldMultipleChoice
	fieldTrueFalse
	fieldInstructions
	fieldStart
	fieldEnd
)

// QuizConfigScreen is the quiz setup form.
type QuizConfigScreen struct {
	runner  *tools.Runner
	service *quiz.Service
	timeout time.Duration

	focus        int
	countInput   components.TextInput
	includeMC    bool
	includeTF    bool
	instructions components.TextInput

	spinner components.Spinner
	inv     *tools.Invocation
	loading bool
	errMsg  string
}

var _ screen.Screen = (*QuizConfigScreen)(nil)
var _ screen.KeyHintProvider = (*QuizConfigScreen)(nil)

// New creates the quiz config screen with the default parameters.
func New(runner *tools.Runner, service *quiz.Service, timeout time.Duration) *QuizConfigScreen {
	defaults := quiz.DefaultConfig()

	count := components.NewTextInput("Questions", "", true, 2)
	count.Model.SetValue(fmt.Sprintf("%d", defaults.QuestionCount))

	return &QuizConfigScreen{
		runner:       runner,
		service:      service,
		timeout:      timeout,
		countInput:   count,
		includeMC:    defaults.IncludeMultipleChoice,
		includeTF:    defaults.IncludeTrueFalse,
		instructions: components.NewTextInput("Extra instructions (optional)", "e.g. focus on chapter 3", false, 0),
		spinner:      components.NewSpinner("Creating your quiz..."),
	}
}

func (q *QuizConfigScreen) Init() tea.Cmd {
	return q.countInput.Init()
}

func (q *QuizConfigScreen) Title() string {
	return "Quiz Setup"
}

func (q *QuizConfigScreen) KeyHints() []layout.KeyHint {
	if q.loading {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Next field"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (q *QuizConfigScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return q.handleQuizReady(msg)

	case tea.KeyMsg:
		if q.loading {
			if msg.String() == "esc" {
				// Refund now, the late response settles as a no-op. The
				// in-memory balance is correct even if the write fails;
				// the next mutation rewrites it.
				_ = q.runner.Abandon(context.Background(), q.inv)
				return q, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return q, nil
		}
		return q.handleKey(msg)
	}

	if q.loading {
		var cmd tea.Cmd
		q.spinner, cmd = q.spinner.Update(msg)
		return q, cmd
	}

	return q.updateFocused(msg)
}

func (q *QuizConfigScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	ctx := context.Background()
	q.loading = false

	if msg.Err != nil {
		q.errMsg = "Quiz generation failed. Your points were refunded."
		if ferr := q.runner.Fail(ctx, q.inv); ferr != nil {
			q.errMsg = "Quiz generation failed. The refund could not be saved: " + ferr.Error()
		}
		q.inv = nil
		return q, nil
	}

	current, _ := q.runner.Succeed(ctx, q.inv)
	q.inv = nil
	if !current {
		return q, nil
	}

	// A fresh session is bound to the just-received quiz.
	next := quizactive.New(q.runner, msg.Quiz)
	return q, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (q *QuizConfigScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return q, func() tea.Msg { return router.PopScreenMsg{} }

	case "tab", "down":
		q.focus = (q.focus + 1) % fieldEnd
		return q, q.focusCmd()

	case "shift+tab", "up":
		q.focus = (q.focus + fieldEnd - 1) % fieldEnd
		return q, q.focusCmd()

	case "space":
		switch q.focus {
		case fieldMultipleChoice:
			q.includeMC = !q.includeMC
			return q, nil
		case fieldTrueFalse:
			q.includeTF = !q.includeTF
			return q, nil
		}

	case "enter":
		if q.focus == fieldStart || q.focus == fieldInstructions {
			return q, q.startQuiz()
		}
		q.focus++
		return q, q.focusCmd()
	}

	return q.updateFocused(msg)
}

// focusCmd moves keyboard focus to the active text field.
func (q *QuizConfigScreen) focusCmd() tea.Cmd {
	q.countInput.Blur()
	q.instructions.Blur()
	switch q.focus {
	case fieldCount:
		return q.countInput.Focus()
	case fieldInstructions:
		return q.instructions.Focus()
	}
	return nil
}

func (q *QuizConfigScreen) updateFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch q.focus {
	case fieldCount:
		q.countInput, cmd = q.countInput.Update(msg)
	case fieldInstructions:
		q.instructions, cmd = q.instructions.Update(msg)
	}
	return q, cmd
}

// startQuiz charges the wallet and launches generation. Guard failures show
// as a notice without any ledger mutation.
func (q *QuizConfigScreen) startQuiz() tea.Cmd {
	cfg := quiz.Config{
		QuestionCount:         quiz.DefaultQuestionCount,
		IncludeMultipleChoice: q.includeMC,
		IncludeTrueFalse:      q.includeTF,
		Instructions:          strings.TrimSpace(q.instructions.Value()),
	}
	if n, err := q.countInput.NumericValue(); err == nil && n > 0 {
		cfg.QuestionCount = n
	}

	inv, err := q.runner.Begin(context.Background(), tools.KindQuiz)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientCredits) {
			q.errMsg = "Not enough points for a quiz."
		} else {
			q.errMsg = err.Error()
		}
		return nil
	}

	q.inv = inv
	q.loading = true
	q.errMsg = ""

	doc := q.runner.Document()
	timeout := q.timeout
	svc := q.service
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			generated, genErr := svc.Generate(ctx, *doc, cfg)
			return quizReadyMsg{Quiz: generated, Err: genErr}
		},
		q.spinner.Init(),
	)
}

func (q *QuizConfigScreen) View(width, height int) string {
	if q.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, q.spinner.View())
	}

	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Set up your quiz"))
	b.WriteString("\n\n")

	var rows []string
	rows = append(rows, q.countInput.View())
	rows = append(rows, "")
	rows = append(rows, renderToggle("Multiple choice", q.includeMC, q.focus == fieldMultipleChoice))
	rows = append(rows, renderToggle("True / False", q.includeTF, q.focus == fieldTrueFalse))
	rows = append(rows, "")
	rows = append(rows, q.instructions.View())
	rows = append(rows, "")
	rows = append(rows, components.NewButton(fmt.Sprintf("Start quiz (%d pts)", tools.KindQuiz.Cost()), q.focus == fieldStart, nil).View())

	form := strings.Join(rows, "\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, form))

	if q.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(q.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}

func renderToggle(label string, on, focused bool) string {
	box := "[ ]"
	if on {
		box = "[x]"
	}
	line := box + " " + label
	if focused {
		return theme.Selected.Render("▸ " + line)
	}
	return theme.Unselected.Render("  " + line)
}
