package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/store"
	"github.com/hakim/lernix/internal/wallet"
)

var testDoc = document.Document{
	Name:     "notes.pdf",
	MIMEType: "application/pdf",
	Data:     "bm90ZXM=",
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	w, err := wallet.Open(context.Background(), store.NewMemKV(), nil)
	require.NoError(t, err)
	return NewRunner(w)
}

func TestKind_Costs(t *testing.T) {
	assert.Equal(t, 0, KindChat.Cost())
	assert.Equal(t, 1, KindSummary.Cost())
	assert.Equal(t, 2, KindQuiz.Cost())
	assert.Equal(t, 1, KindSchedule.Cost())

	assert.False(t, KindChat.RequiresDocument())
	assert.True(t, KindSummary.RequiresDocument())
	assert.True(t, KindQuiz.RequiresDocument())
	assert.False(t, KindSchedule.RequiresDocument())
}

func TestRunner_BeginChargesWallet(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
	assert.Equal(t, 2, inv.Cost)
	assert.Equal(t, 8, r.Wallet().Balance())
	assert.True(t, r.Busy())
}

func TestRunner_BeginGuardsMissingDocument(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	_, err := r.Begin(ctx, KindSummary)
	require.ErrorIs(t, err, ErrMissingDocument)
	assert.Equal(t, 10, r.Wallet().Balance(), "guard failure must not charge")
	assert.False(t, r.Busy())

	// Schedule needs no document.
	_, err = r.Begin(ctx, KindSchedule)
	require.NoError(t, err)
	assert.Equal(t, 9, r.Wallet().Balance())
}

func TestRunner_BeginGuardsInsufficientCredits(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	// Drain to 1 credit.
	require.NoError(t, r.Wallet().Spend(ctx, 9))

	_, err := r.Begin(ctx, KindQuiz)
	require.ErrorIs(t, err, wallet.ErrInsufficientCredits)
	assert.Equal(t, 1, r.Wallet().Balance(), "guard failure must not mutate the ledger")
	assert.False(t, r.Busy())
}

func TestRunner_BeginGuardsOneInFlight(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	_, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)

	_, err = r.Begin(ctx, KindSummary)
	require.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 8, r.Wallet().Balance())
}

func TestRunner_FailRefundsExactCost(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindSummary)
	require.NoError(t, err)
	assert.Equal(t, 9, r.Wallet().Balance())

	require.NoError(t, r.Fail(ctx, inv))
	assert.Equal(t, 10, r.Wallet().Balance(), "failed invocation restores the pre-charge balance")
	assert.False(t, r.Busy())

	// The runner is free again.
	_, err = r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
}

func TestRunner_SucceedSettlesCurrentInvocation(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)

	current, err := r.Succeed(ctx, inv)
	require.NoError(t, err)
	assert.True(t, current)
	assert.False(t, r.Busy())
	assert.Equal(t, 8, r.Wallet().Balance(), "success keeps the charge")
}

func TestRunner_AbandonRefundsImmediately(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
	assert.Equal(t, 8, r.Wallet().Balance())

	// The user navigates away before the response lands. The refund must
	// not depend on the late response ever being delivered anywhere.
	require.NoError(t, r.Abandon(ctx, inv))
	assert.False(t, r.Busy())
	assert.Equal(t, 10, r.Wallet().Balance(), "abandon refunds the charge on the spot")
}

func TestRunner_LateSuccessAfterAbandonIsNoOp(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
	require.NoError(t, r.Abandon(ctx, inv))

	current, err := r.Succeed(ctx, inv)
	require.NoError(t, err)
	assert.False(t, current, "late response must be discarded")
	assert.Equal(t, 10, r.Wallet().Balance(), "no double refund for a settled ticket")
}

func TestRunner_LateFailureAfterAbandonIsNoOp(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindSummary)
	require.NoError(t, err)
	require.NoError(t, r.Abandon(ctx, inv))

	require.NoError(t, r.Fail(ctx, inv))
	assert.Equal(t, 10, r.Wallet().Balance(), "no double refund for a settled ticket")
}

func TestRunner_AbandonedTicketDoesNotDisturbNextInvocation(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	old, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
	require.NoError(t, r.Abandon(ctx, old))

	// A fresh invocation is charged while the old response is still in
	// flight somewhere.
	fresh, err := r.Begin(ctx, KindSummary)
	require.NoError(t, err)
	assert.Equal(t, 9, r.Wallet().Balance())

	_, err = r.Succeed(ctx, old)
	require.NoError(t, err)
	assert.Equal(t, 9, r.Wallet().Balance(), "old ticket must not touch the new charge")
	assert.True(t, r.Busy(), "old ticket must not release the new gate")

	current, err := r.Succeed(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, current)
}

func TestRunner_DoubleAbandonIsNoOp(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
	require.NoError(t, r.Abandon(ctx, inv))
	require.NoError(t, r.Abandon(ctx, inv))
	assert.Equal(t, 10, r.Wallet().Balance())
}

func TestRunner_QuizFlowWithBonus(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	r.AttachDocument(testDoc)

	inv, err := r.Begin(ctx, KindQuiz)
	require.NoError(t, err)
	assert.Equal(t, 8, r.Wallet().Balance())

	_, err = r.Succeed(ctx, inv)
	require.NoError(t, err)

	// A passing quiz earns the performance bonus.
	require.NoError(t, r.Wallet().Bonus(ctx, 1))
	assert.Equal(t, 9, r.Wallet().Balance())
}

func TestRunner_DocumentChangeSignal(t *testing.T) {
	r := newTestRunner(t)

	resets := 0
	r.OnDocumentChange(func() { resets++ })

	r.AttachDocument(testDoc)
	assert.Equal(t, 1, resets)
	require.NotNil(t, r.Document())

	r.AttachDocument(document.Document{Name: "other.png", MIMEType: "image/png", Data: "aW1n"})
	assert.Equal(t, 2, resets, "replacing the document signals again")

	r.ClearDocument()
	assert.Equal(t, 3, resets)
	assert.Nil(t, r.Document())

	// Clearing when already empty is a no-op.
	r.ClearDocument()
	assert.Equal(t, 3, resets)
}
