package quizconfig

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/llm"
	"github.com/hakim/lernix/internal/quiz"
	"github.com/hakim/lernix/internal/router"
	"github.com/hakim/lernix/internal/screen"
	"github.com/hakim/lernix/internal/screens/quizactive"
	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/tools"
	"github.com/hakim/lernix/internal/wallet"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testConfigScreen(t *testing.T) (*QuizConfigScreen, *tools.Runner) {
	t.Helper()
	w, err := wallet.Open(context.Background(), store.NewMemKV(), nil)
	if err != nil {
		t.Fatalf("open wallet: %v", err)
	}
	runner := tools.NewRunner(w)
	runner.AttachDocument(document.Document{Name: "notes.txt", MIMEType: "text/plain", Data: "aGk="})

	service := quiz.NewService(llm.NewMockProvider())
	return New(runner, service, time.Second), runner
}

func TestQuizConfig_ToggleQuestionTypes(t *testing.T) {
	s, _ := testConfigScreen(t)

	// Move focus off the count field onto the multiple choice toggle.
	scr, _ := s.Update(specialKey(tea.KeyTab))
	scr, _ = scr.Update(keyPress(' '))
	ss := scr.(*QuizConfigScreen)
	if ss.includeMC {
		t.Error("expected multiple choice toggled off")
	}

	scr, _ = ss.Update(specialKey(tea.KeyTab))
	scr, _ = scr.Update(keyPress(' '))
	ss = scr.(*QuizConfigScreen)
	if !ss.includeTF {
		t.Error("expected true/false toggled on")
	}
}

func TestQuizConfig_StartCharges(t *testing.T) {
	s, runner := testConfigScreen(t)
	start := runner.Wallet().Balance()

	s.focus = fieldStart
	scr, cmd := s.Update(specialKey(tea.KeyEnter))
	ss := scr.(*QuizConfigScreen)

	if !ss.loading {
		t.Error("expected loading state after start")
	}
	if cmd == nil {
		t.Error("expected a generation command")
	}
	if got := runner.Wallet().Balance(); got != start-tools.KindQuiz.Cost() {
		t.Errorf("balance = %d, want %d", got, start-tools.KindQuiz.Cost())
	}
	if !runner.Busy() {
		t.Error("expected runner busy while generating")
	}
}

func TestQuizConfig_StartGuardFailureLeavesBalance(t *testing.T) {
	s, runner := testConfigScreen(t)

	// Drain the wallet below the quiz cost.
	if err := runner.Wallet().Spend(context.Background(), wallet.StartingBalance-1); err != nil {
		t.Fatalf("drain wallet: %v", err)
	}
	before := runner.Wallet().Balance()

	s.focus = fieldStart
	scr, cmd := s.Update(specialKey(tea.KeyEnter))
	ss := scr.(*QuizConfigScreen)

	if cmd != nil {
		t.Error("expected no command on guard failure")
	}
	if ss.loading {
		t.Error("expected form to stay visible")
	}
	if ss.errMsg == "" {
		t.Error("expected an affordability notice")
	}
	if got := runner.Wallet().Balance(); got != before {
		t.Errorf("balance = %d, want %d untouched", got, before)
	}
}

func TestQuizConfig_GenerationFailureRefunds(t *testing.T) {
	s, runner := testConfigScreen(t)
	start := runner.Wallet().Balance()

	s.focus = fieldStart
	scr, _ := s.Update(specialKey(tea.KeyEnter))
	ss := scr.(*QuizConfigScreen)

	scr, cmd := ss.Update(quizReadyMsg{Err: errors.New("provider down")})
	ss = scr.(*QuizConfigScreen)

	if cmd != nil {
		t.Error("expected to stay on the form after a failure")
	}
	if ss.loading {
		t.Error("expected loading cleared")
	}
	if ss.errMsg == "" {
		t.Error("expected a refund notice")
	}
	if got := runner.Wallet().Balance(); got != start {
		t.Errorf("balance = %d, want %d refunded", got, start)
	}
	if runner.Busy() {
		t.Error("expected runner released after failure")
	}
}

func TestQuizConfig_GenerationSuccessReplacesScreen(t *testing.T) {
	s, runner := testConfigScreen(t)

	s.focus = fieldStart
	scr, _ := s.Update(specialKey(tea.KeyEnter))
	ss := scr.(*QuizConfigScreen)

	generated := &quiz.Quiz{
		Title: "Cells",
		Questions: []quiz.Question{
			{ID: 1, Text: "q1", Options: []string{"a", "b"}, CorrectAnswerIndex: 0},
		},
	}
	_, cmd := ss.Update(quizReadyMsg{Quiz: generated})
	if cmd == nil {
		t.Fatal("expected a replace command")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := replace.Screen.(*quizactive.QuizActiveScreen); !ok {
		t.Fatalf("expected active quiz screen, got %T", replace.Screen)
	}
	if runner.Busy() {
		t.Error("expected runner released after success")
	}
}

func TestQuizConfig_EscWhileLoadingRefundsImmediately(t *testing.T) {
	s, runner := testConfigScreen(t)
	start := runner.Wallet().Balance()

	s.focus = fieldStart
	scr, _ := s.Update(specialKey(tea.KeyEnter))
	ss := scr.(*QuizConfigScreen)
	inv := ss.inv

	scr, cmd := ss.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg on abandon")
	}
	if runner.Busy() {
		t.Error("expected runner released after abandon")
	}
	if got := runner.Wallet().Balance(); got != start {
		t.Errorf("balance = %d, want %d refunded at abandon", got, start)
	}

	// The late settlement is stale and must not refund twice.
	current, err := runner.Succeed(context.Background(), inv)
	if err != nil {
		t.Fatalf("settle stale invocation: %v", err)
	}
	if current {
		t.Error("expected the late result to be stale")
	}
	if got := runner.Wallet().Balance(); got != start {
		t.Errorf("balance = %d, want %d after the stale settlement", got, start)
	}
	_ = scr
}

// rootStub stands in for the home screen at the bottom of the stack.
type rootStub struct {
	received []tea.Msg
}

func (r *rootStub) Init() tea.Cmd { return nil }
func (r *rootStub) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	r.received = append(r.received, msg)
	return r, nil
}
func (r *rootStub) View(int, int) string { return "" }
func (r *rootStub) Title() string        { return "root" }

func TestQuizConfig_AbandonThroughRouterKeepsRefund(t *testing.T) {
	s, runner := testConfigScreen(t)
	start := runner.Wallet().Balance()

	root := &rootStub{}
	rt := router.New(root)
	rt.Update(router.PushScreenMsg{Screen: s})

	s.focus = fieldStart
	rt.Update(specialKey(tea.KeyEnter))
	if got := runner.Wallet().Balance(); got != start-tools.KindQuiz.Cost() {
		t.Fatalf("balance = %d, want %d charged", got, start-tools.KindQuiz.Cost())
	}

	// The user backs out while generation is still in flight.
	cmd := rt.Update(specialKey(tea.KeyEscape))
	if cmd == nil {
		t.Fatal("expected a pop command")
	}
	rt.Update(cmd())
	if rt.Depth() != 1 {
		t.Fatalf("depth = %d, want 1 after pop", rt.Depth())
	}
	if got := runner.Wallet().Balance(); got != start {
		t.Errorf("balance = %d, want %d refunded at abandon", got, start)
	}

	// The late response routes to the active screen, not the popped form.
	// The wallet must not move again.
	rt.Update(quizReadyMsg{Quiz: &quiz.Quiz{Title: "late"}})
	if len(root.received) == 0 {
		t.Error("expected the late response delivered to the active screen")
	}
	if got := runner.Wallet().Balance(); got != start {
		t.Errorf("balance = %d, want %d untouched by the late response", got, start)
	}
	if runner.Busy() {
		t.Error("expected runner free after abandon")
	}
}
