// Package scheduleconfig collects study plan parameters and runs the paid
// schedule generation.
package scheduleconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/assistant"
	"github.com/hakim/lernix/internal/llm"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/screens/scheduleresult"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
	"github.com/hakim/lernix/internal/wallet"
)

// ScheduleConfigScreen is the study plan setup form.
type ScheduleConfigScreen struct {
	runner   *tools.Runner
	provider llm.Provider
	timeout  time.Duration

	fields []components.TextInput
	focus  int // len(fields) means the start button

	spinner components.Spinner
	inv     *tools.Invocation
	loading bool
	errMsg  string
}

var _ screen.Screen = (*ScheduleConfigScreen)(nil)
var _ screen.KeyHintProvider = (*ScheduleConfigScreen)(nil)

// Field order matches assistant.ScheduleConfig.
var fieldSpecs = []struct {
	label       string
	placeholder string
}{
	{"Subjects", "e.g. Math, Physics"},
	{"Focus area", "e.g. Calculus"},
	{"Weak points", "e.g. Integrals"},
	{"Duration", "e.g. 2 weeks"},
	{"Daily study hours", "e.g. 3"},
	{"Rest time between blocks", "e.g. 15 minutes"},
	{"Additional instructions", "optional"},
}

// New creates the schedule config screen.
func New(runner *tools.Runner, provider llm.Provider, timeout time.Duration) *ScheduleConfigScreen {
	fields := make([]components.TextInput, len(fieldSpecs))
	for i, spec := range fieldSpecs {
		fields[i] = components.NewTextInput(spec.label, spec.placeholder, false, 0)
	}

	return &ScheduleConfigScreen{
		runner:   runner,
		provider: provider,
		timeout:  timeout,
		fields:   fields,
		spinner:  components.NewSpinner("Planning your study schedule..."),
	}
}

func (s *ScheduleConfigScreen) Init() tea.Cmd {
	return s.fields[0].Focus()
}

func (s *ScheduleConfigScreen) Title() string {
	return "Study Schedule"
}

func (s *ScheduleConfigScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Next field"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ScheduleConfigScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case scheduleReadyMsg:
		return s.handleReady(msg)

	case tea.KeyMsg:
		if s.loading {
			if msg.String() == "esc" {
				// Refund now, the late response settles as a no-op. The
				// in-memory balance is correct even if the write fails;
				// the next mutation rewrites it.
				_ = s.runner.Abandon(context.Background(), s.inv)
				return s, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return s, nil
		}
		return s.handleKey(msg)
	}

	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s.updateFocused(msg)
}

func (s *ScheduleConfigScreen) handleReady(msg scheduleReadyMsg) (screen.Screen, tea.Cmd) {
	ctx := context.Background()
	s.loading = false

	if msg.Err != nil {
		s.errMsg = "Schedule generation failed. Your points were refunded."
		if ferr := s.runner.Fail(ctx, s.inv); ferr != nil {
			s.errMsg = "Schedule generation failed. The refund could not be saved: " + ferr.Error()
		}
		s.inv = nil
		return s, nil
	}

	current, _ := s.runner.Succeed(ctx, s.inv)
	s.inv = nil
	if !current {
		return s, nil
	}

	next := scheduleresult.New(msg.Text)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ScheduleConfigScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }

	case "tab", "down":
		s.focus = (s.focus + 1) % (len(s.fields) + 1)
		return s, s.focusCmd()

	case "shift+tab", "up":
		s.focus = (s.focus + len(s.fields)) % (len(s.fields) + 1)
		return s, s.focusCmd()

	case "enter":
		if s.focus >= len(s.fields)-1 {
			return s, s.generate()
		}
		s.focus++
		return s, s.focusCmd()
	}

	return s.updateFocused(msg)
}

func (s *ScheduleConfigScreen) focusCmd() tea.Cmd {
	for i := range s.fields {
		s.fields[i].Blur()
	}
	if s.focus < len(s.fields) {
		return s.fields[s.focus].Focus()
	}
	return nil
}

func (s *ScheduleConfigScreen) updateFocused(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.focus >= len(s.fields) {
		return s, nil
	}
	var cmd tea.Cmd
	s.fields[s.focus], cmd = s.fields[s.focus].Update(msg)
	return s, cmd
}

// generate charges the wallet and launches generation.
func (s *ScheduleConfigScreen) generate() tea.Cmd {
	cfg := assistant.ScheduleConfig{
		Subjects:               strings.TrimSpace(s.fields[0].Value()),
		FocusArea:              strings.TrimSpace(s.fields[1].Value()),
		WeakPoints:             strings.TrimSpace(s.fields[2].Value()),
		Duration:               strings.TrimSpace(s.fields[3].Value()),
		DailyHours:             strings.TrimSpace(s.fields[4].Value()),
		RestTime:               strings.TrimSpace(s.fields[5].Value()),
		AdditionalInstructions: strings.TrimSpace(s.fields[6].Value()),
	}

	inv, err := s.runner.Begin(context.Background(), tools.KindSchedule)
	if err != nil {
		if errors.Is(err, wallet.ErrInsufficientCredits) {
			s.errMsg = "Not enough points for a schedule."
		} else {
			s.errMsg = err.Error()
		}
		return nil
	}

	s.inv = inv
	s.loading = true
	s.errMsg = ""

	doc := s.runner.Document()
	provider := s.provider
	timeout := s.timeout
	return tea.Batch(
		func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			text, genErr := assistant.GenerateSchedule(ctx, provider, doc, cfg)
			return scheduleReadyMsg{Text: text, Err: genErr}
		},
		s.spinner.Init(),
	)
}

func (s *ScheduleConfigScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.spinner.View())
	}

	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Plan your studies"))
	b.WriteString("\n\n")

	var rows []string
	for i := range s.fields {
		rows = append(rows, s.fields[i].View(), "")
	}
	rows = append(rows, components.NewButton(
		fmt.Sprintf("Generate (%d pts)", tools.KindSchedule.Cost()),
		s.focus == len(s.fields), nil).View())

	form := strings.Join(rows, "\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, form))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(s.errMsg))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
