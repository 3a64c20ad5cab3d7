package home

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
	"github.com/hakim/lernix/internal/quiz"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/screens/chat"
	"github.com/hakim/lernix/internal/screens/docpicker"
	"github.com/hakim/lernix/internal/screens/quizconfig"
	"github.com/hakim/lernix/internal/screens/scheduleconfig"
	"github.com/hakim/lernix/internal/screens/summaryview"
	"github.com/hakim/lernix/internal/screens/walletview"
	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
	"github.com/hakim/lernix/internal/wallet"
)

// HomeScreen is the main menu of the application.
type HomeScreen struct {
	runner   *tools.Runner
	menu     components.Menu
	userName string

	notice    string
	noticeErr bool
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates the home screen. All paid tools run through runner; the
// remaining services are handed to the screens that use them.
func New(runner *tools.Runner, chatSession *assistant.ChatSession, quizSvc *quiz.Service, provider llm.Provider, log store.RequestLog, userName string, timeout time.Duration) *HomeScreen {
	h := &HomeScreen{runner: runner, userName: userName}

	items := []components.MenuItem{
		{Label: "CHAT", Hint: "free", Action: func() tea.Cmd {
			return push(chat.New(chatSession, runner))
		}},
		{Label: "SUMMARY", Hint: costHint(tools.KindSummary), Action: func() tea.Cmd {
			// Guards and the charge run before any navigation: a failure
			// is a blocking notice and the view does not change.
			inv, err := runner.Begin(context.Background(), tools.KindSummary)
			if err != nil {
				return notify(guardNotice(err))
			}
			return push(summaryview.New(runner, provider, inv, timeout))
		}},
		{Label: "QUIZ", Hint: costHint(tools.KindQuiz), Action: func() tea.Cmd {
			// The charge happens on the config screen's start action, but
			// the document guard applies before entering it.
			if runner.Document() == nil {
				return notify(guardNotice(tools.ErrMissingDocument))
			}
			return push(quizconfig.New(runner, quizSvc, timeout))
		}},
		{Label: "STUDY SCHEDULE", Hint: costHint(tools.KindSchedule), Action: func() tea.Cmd {
			return push(scheduleconfig.New(runner, provider, timeout))
		}},
		{Label: "DOCUMENT", Action: func() tea.Cmd {
			return push(docpicker.New(runner))
		}},
		{Label: "WALLET", Action: func() tea.Cmd {
			return push(walletview.New(runner.Wallet(), log))
		}},
		{Label: "EXIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	h.menu = components.NewMenu(items)
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

func notify(text string) tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{Text: text, IsErr: true}
	}
}

func costHint(k tools.Kind) string {
	return fmt.Sprintf("%d pts", k.Cost())
}

// guardNotice maps a guard failure to its single user-facing message.
func guardNotice(err error) string {
	switch {
	case errors.Is(err, tools.ErrMissingDocument):
		return "Select a study document first."
	case errors.Is(err, wallet.ErrInsufficientCredits):
		return "Not enough points. Claim your daily reward in the wallet."
	case errors.Is(err, tools.ErrBusy):
		return "Another request is still running."
	default:
		return err.Error()
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	if h.runner.Wallet().CanClaimDaily() {
		return func() tea.Msg {
			return noticeMsg{Text: fmt.Sprintf("Your daily reward of %d points is ready in the wallet.", wallet.DailyReward)}
		}
	}
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case noticeMsg:
		h.notice = msg.Text
		h.noticeErr = msg.IsErr
		return h, nil

	case tea.KeyMsg:
		// Any selection attempt clears the previous notice.
		if msg.String() == "enter" {
			h.notice = ""
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	greeting := "Welcome back!"
	if h.userName != "" {
		greeting = "Welcome back, " + h.userName + "!"
	}
	sections = append(sections,
		theme.Title.Width(width).Render("Lernix"),
		theme.Subtitle.Width(width).Render(greeting),
		"",
	)

	if doc := h.runner.Document(); doc != nil {
		sections = append(sections,
			lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).
				Render("Studying: "+doc.Name),
			"")
	} else {
		sections = append(sections,
			theme.Hint.Width(width).Align(lipgloss.Center).
				Render("No document selected. Summary and quiz need one."),
			"")
	}

	if h.notice != "" {
		style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Accent)
		if h.noticeErr {
			style = style.Foreground(theme.Error)
		}
		sections = append(sections, style.Render(h.notice), "")
	}

	menu := lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View())
	sections = append(sections, menu)

	content := strings.Join(sections, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
