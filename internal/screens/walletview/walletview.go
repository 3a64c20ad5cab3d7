// Package walletview shows the balance, the daily claim, and recent
// assistant requests.
package walletview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/ui/layout"
	"github.com/hakim/lernix/internal/ui/theme"
	"github.com/hakim/lernix/internal/wallet"
)

const recentLimit = 8

// recentMsg delivers the request history.
type recentMsg struct {
	Records []store.RequestRecord
}

// WalletScreen shows the ledger state.
type WalletScreen struct {
	wallet *wallet.Wallet
	log    store.RequestLog

	records []store.RequestRecord
	notice  string
}

var _ screen.Screen = (*WalletScreen)(nil)
var _ screen.KeyHintProvider = (*WalletScreen)(nil)

// New creates the wallet screen.
func New(w *wallet.Wallet, log store.RequestLog) *WalletScreen {
	return &WalletScreen{wallet: w, log: log}
}

func (w *WalletScreen) Init() tea.Cmd {
	if w.log == nil {
		return nil
	}
	log := w.log
	return func() tea.Msg {
		records, err := log.Recent(context.Background(), recentLimit)
		if err != nil {
			return recentMsg{}
		}
		return recentMsg{Records: records}
	}
}

func (w *WalletScreen) Title() string {
	return "Wallet"
}

func (w *WalletScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	if w.wallet.CanClaimDaily() {
		hints = append([]layout.KeyHint{{Key: "C", Description: "Claim daily reward"}}, hints...)
	}
	return hints
}

func (w *WalletScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case recentMsg:
		w.records = msg.Records
		return w, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return w, func() tea.Msg { return router.PopScreenMsg{} }
		case "c", "C":
			amount, err := w.wallet.ClaimDaily(context.Background())
			if err != nil {
				w.notice = "Already claimed today. Come back tomorrow!"
				return w, nil
			}
			w.notice = fmt.Sprintf("+%d points claimed!", amount)
			return w, nil
		}
	}
	return w, nil
}

func (w *WalletScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(theme.Title.Width(width).Render(fmt.Sprintf("%d points", w.wallet.Balance())))
	b.WriteString("\n")

	if w.wallet.CanClaimDaily() {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Accent).
			Render(fmt.Sprintf("Daily reward available: press c to claim %d points", wallet.DailyReward)))
	} else {
		b.WriteString(theme.Subtitle.Width(width).Render("Daily reward claimed. See you tomorrow!"))
	}
	b.WriteString("\n")

	if w.notice != "" {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Foreground(theme.Success).
			Render(w.notice))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(w.records) > 0 {
		b.WriteString(theme.Subtitle.Width(width).Render("Recent assistant requests"))
		b.WriteString("\n")

		var rows []string
		for _, rec := range w.records {
			status := theme.Correct.Render("ok")
			if !rec.Success {
				status = theme.Incorrect.Render("failed")
			}
			rows = append(rows, fmt.Sprintf("%s  %-9s %6d tok  %5dms  %s",
				rec.CreatedAt.Format("Jan 02 15:04"),
				rec.Purpose,
				rec.InputTokens+rec.OutputTokens,
				rec.LatencyMs,
				status,
			))
		}
		table := lipgloss.NewStyle().Foreground(theme.TextDim).Render(strings.Join(rows, "\n"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, table))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
