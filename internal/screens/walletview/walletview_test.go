package walletview

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/wallet"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

type memRequestLog struct {
	records []store.RequestRecord
}

func (m *memRequestLog) Append(_ context.Context, rec store.RequestRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func (m *memRequestLog) Recent(_ context.Context, limit int) ([]store.RequestRecord, error) {
	if len(m.records) < limit {
		limit = len(m.records)
	}
	return m.records[:limit], nil
}

func testWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.Open(context.Background(), store.NewMemKV(), nil)
	if err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	return w
}

func TestWalletView_ClaimDaily(t *testing.T) {
	w := testWallet(t)
	s := New(w, nil)
	start := w.Balance()

	scr, _ := s.Update(keyPress('c'))
	ss := scr.(*WalletScreen)

	if got := w.Balance(); got != start+wallet.DailyReward {
		t.Errorf("balance = %d, want %d after claim", got, start+wallet.DailyReward)
	}
	if ss.notice == "" {
		t.Error("expected a claim confirmation notice")
	}

	// A second claim the same day is rejected with no balance change.
	scr, _ = ss.Update(keyPress('c'))
	ss = scr.(*WalletScreen)
	if got := w.Balance(); got != start+wallet.DailyReward {
		t.Errorf("balance = %d, want unchanged on repeat claim", got)
	}
	if !strings.Contains(ss.notice, "Already claimed") {
		t.Errorf("notice = %q, want an already-claimed message", ss.notice)
	}
}

func TestWalletView_LoadsRecentRequests(t *testing.T) {
	log := &memRequestLog{records: []store.RequestRecord{
		{ID: "a", CreatedAt: time.Now(), Purpose: "chat", Success: true},
		{ID: "b", CreatedAt: time.Now(), Purpose: "quiz", Success: false},
	}}
	s := New(testWallet(t), log)

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected an init command to load history")
	}
	scr, _ := s.Update(cmd())
	ss := scr.(*WalletScreen)
	if len(ss.records) != 2 {
		t.Fatalf("records = %d, want 2", len(ss.records))
	}
}

func TestWalletView_NoLogNoInitCmd(t *testing.T) {
	s := New(testWallet(t), nil)
	if s.Init() != nil {
		t.Error("expected no init command without a request log")
	}
}

func TestWalletView_EscPops(t *testing.T) {
	s := New(testWallet(t), nil)
	_, cmd := s.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
}
