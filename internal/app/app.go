package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/assistant"
	"github.com/hakim/lernix/internal/llm"
	"github.com/hakim/lernix/internal/quiz"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/screens/home"
	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/layout"
)

// DefaultGenTimeout bounds every generation request. The refund path fires
// when it elapses.
const DefaultGenTimeout = 90 * time.Second

// Options carries the wired services into the TUI.
type Options struct {
	Runner     *tools.Runner
	Provider   llm.Provider
	RequestLog store.RequestLog
	UserName   string
	GenTimeout time.Duration
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	runner *tools.Runner
	width  int
	height int
}

// newAppModel wires the shared services and creates the home screen.
func newAppModel(opts Options) AppModel {
	if opts.GenTimeout <= 0 {
		opts.GenTimeout = DefaultGenTimeout
	}

	// Chat is free, so transient provider errors may be retried. Paid
	// invocations stay single-attempt; their failure path is the refund.
	chatProvider := llm.WithRetry(opts.Provider, llm.DefaultRetryConfig())
	chatSession := assistant.NewChatSession(chatProvider)
	quizSvc := quiz.NewService(opts.Provider)

	// Replacing the study document discards the accumulated conversation.
	opts.Runner.OnDocumentChange(func() {
		chatSession.Reset()
		chatSession.SetDocument(opts.Runner.Document())
	})

	homeScreen := home.New(opts.Runner, chatSession, quizSvc, opts.Provider, opts.RequestLog, opts.UserName, opts.GenTimeout)
	return AppModel{
		router: router.New(homeScreen),
		runner: opts.Runner,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	docName := ""
	if doc := m.runner.Document(); doc != nil {
		docName = doc.Name
	}
	header := layout.RenderHeader(title, m.runner.Wallet().Balance(), docName, m.width)

	footerHints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if provider, ok := active.(screen.KeyHintProvider); ok {
		if hints := provider.KeyHints(); len(hints) > 0 {
			footerHints = hints
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
