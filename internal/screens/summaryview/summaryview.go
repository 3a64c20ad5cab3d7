// Package summaryview shows a generated document summary. The screen is
// pushed already charged; it settles the invocation when the response lands.
package summaryview

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/assistant"
	"github.com/hakim/lernix/internal/llm"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
)

// SummaryScreen runs one summary invocation and displays the result.
type SummaryScreen struct {
	runner   *tools.Runner
	provider llm.Provider
	inv      *tools.Invocation
	timeout  time.Duration

	spinner    components.Spinner
	text       string
	failed     bool
	failNotice string

	scrollOffset int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates the summary screen for an already-charged invocation.
func New(runner *tools.Runner, provider llm.Provider, inv *tools.Invocation, timeout time.Duration) *SummaryScreen {
	return &SummaryScreen{
		runner:   runner,
		provider: provider,
		inv:      inv,
		timeout:  timeout,
		spinner:  components.NewSpinner("Summarizing your document..."),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return tea.Batch(s.generate(), s.spinner.Init())
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	if s.text == "" {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) generate() tea.Cmd {
	doc := s.runner.Document()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		text, err := assistant.GenerateSummary(ctx, s.provider, *doc)
		return summaryReadyMsg{Text: text, Err: err}
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case summaryReadyMsg:
		ctx := context.Background()
		if msg.Err != nil {
			// Refund before anything else can observe the ledger.
			s.failed = true
			s.failNotice = "Your points were refunded. Press esc to go back."
			if ferr := s.runner.Fail(ctx, s.inv); ferr != nil {
				s.failNotice = "The refund could not be saved: " + ferr.Error()
			}
			return s, nil
		}
		current, _ := s.runner.Succeed(ctx, s.inv)
		if !current {
			// Stale response: already refunded, drop the payload.
			return s, nil
		}
		s.text = msg.Text
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter":
			if s.text == "" && !s.failed {
				// Still loading: refund now, the late response settles as
				// a no-op. The in-memory balance is correct even if the
				// write fails; the next mutation rewrites it.
				_ = s.runner.Abandon(context.Background(), s.inv)
			}
			if s.text != "" {
				return s, func() tea.Msg { return router.PopToRootMsg{} }
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			s.scrollOffset++
		}
		return s, nil
	}

	if s.text == "" && !s.failed {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.failed {
		notice := lipgloss.NewStyle().Foreground(theme.Error).
			Render("Summary generation failed.") + "\n" +
			theme.Hint.Render(s.failNotice)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, notice)
	}

	if s.text == "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.spinner.View())
	}

	wrapped := lipgloss.NewStyle().Width(width - 4).Render(s.text)
	lines := strings.Split(wrapped, "\n")

	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.scrollOffset > maxOffset {
		s.scrollOffset = maxOffset
	}

	end := s.scrollOffset + height
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[s.scrollOffset:end], "\n")
}
