// Package scheduleresult displays a generated study schedule.
package scheduleresult

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
)

// ScheduleResultScreen shows the schedule text with scrolling.
type ScheduleResultScreen struct {
	text         string
	scrollOffset int
}

var _ screen.Screen = (*ScheduleResultScreen)(nil)
var _ screen.KeyHintProvider = (*ScheduleResultScreen)(nil)

// New creates the result screen for the given schedule text.
func New(text string) *ScheduleResultScreen {
	return &ScheduleResultScreen{text: text}
}

func (s *ScheduleResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ScheduleResultScreen) Title() string {
	return "Your Schedule"
}

func (s *ScheduleResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *ScheduleResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "enter":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		case "up", "k":
			if s.scrollOffset > 0 {
				s.scrollOffset--
			}
		case "down", "j":
			s.scrollOffset++
		}
	}
	return s, nil
}

func (s *ScheduleResultScreen) View(width, height int) string {
	wrapped := lipgloss.NewStyle().Width(min(width-4, 80)).Render(s.text)
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

	body := strings.Join(lines[s.scrollOffset:end], "\n")
	if len(lines) <= height {
		body += "\n\n" + theme.Hint.Render("Press esc to go home.")
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}
