// Package docpicker lets the learner attach a study document by path.
package docpicker

import (
	"errors"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/ui/components"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
)

// docLoadedMsg is sent when the file has been read and validated.
type docLoadedMsg struct {
	Doc document.Document
	Err error
}

// DocPickerScreen prompts for a file path and attaches the loaded document.
type DocPickerScreen struct {
	runner  *tools.Runner
	input   components.TextInput
	loading bool
	errMsg  string
}

var _ screen.Screen = (*DocPickerScreen)(nil)
var _ screen.KeyHintProvider = (*DocPickerScreen)(nil)

// New creates the document picker.
func New(runner *tools.Runner) *DocPickerScreen {
	return &DocPickerScreen{
		runner: runner,
		input:  components.NewTextInput("", "Path to a PDF or image...", false, 0),
	}
}

func (d *DocPickerScreen) Init() tea.Cmd {
	return d.input.Init()
}

func (d *DocPickerScreen) Title() string {
	return "Document"
}

func (d *DocPickerScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Attach"},
		{Key: "Esc", Description: "Back"},
	}
	if d.runner.Document() != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+X", Description: "Remove current"})
	}
	return hints
}

func (d *DocPickerScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case docLoadedMsg:
		d.loading = false
		if msg.Err != nil {
			if errors.Is(msg.Err, document.ErrUnsupportedType) {
				d.errMsg = "Only PDF and image files are supported."
			} else {
				d.errMsg = msg.Err.Error()
			}
			return d, nil
		}
		d.runner.AttachDocument(msg.Doc)
		return d, func() tea.Msg { return router.PopScreenMsg{} }

	case tea.KeyMsg:
		if d.loading {
			return d, nil
		}
		switch msg.String() {
		case "esc":
			return d, func() tea.Msg { return router.PopScreenMsg{} }
		case "ctrl+x":
			d.runner.ClearDocument()
			d.errMsg = ""
			return d, nil
		case "enter":
			path := strings.TrimSpace(d.input.Value())
			if path == "" {
				return d, nil
			}
			d.loading = true
			d.errMsg = ""
			return d, loadDocument(path)
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return d, cmd
}

func loadDocument(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := document.Load(path)
		if err != nil {
			return docLoadedMsg{Err: err}
		}
		return docLoadedMsg{Doc: *doc}
	}
}

func (d *DocPickerScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render("Select a study document"))
	b.WriteString("\n\n")

	if doc := d.runner.Document(); doc != nil {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Secondary).
			Render("Current: " + doc.Name))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, d.input.View()))
	b.WriteString("\n\n")

	switch {
	case d.loading:
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render("Reading file..."))
	case d.errMsg != "":
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(d.errMsg))
	default:
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).
			Render("Replacing the document clears the current chat."))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
