package tools

import (
	"context"
	"errors"

	"github.com/hakim/lernix/internal/document"
	"github.com/hakim/lernix/internal/wallet"
)

var (
	// ErrBusy is returned when a paid invocation is already in flight.
	ErrBusy = errors.New("another request is already running")

	// ErrMissingDocument is returned when a document-requiring tool is
	// invoked without a current document. No charge occurs.
	ErrMissingDocument = errors.New("no study document selected")
)

// Invocation is a charge ticket for one paid tool call. The token binds the
// eventual outcome to the invocation it belongs to, so a response that
// arrives after the user moved on cannot be applied as current. Each ticket
// settles exactly once: the first of Succeed, Fail, or Abandon wins and any
// later settlement is a no-op.
type Invocation struct {
	Kind Kind
	Cost int

	token   uint64
	settled bool
}

// Runner sequences paid tool invocations over the wallet and the current
// study document. At most one invocation is in flight; all guard checks run
// before any ledger mutation, so a guard failure never touches the balance.
//
// Runner is driven from the single TUI event loop and needs no locking.
type Runner struct {
	wallet *wallet.Wallet
	doc    *document.Document

	inflight  bool
	lastToken uint64

	onDocumentChange func()
}

// NewRunner creates a Runner over the given wallet.
func NewRunner(w *wallet.Wallet) *Runner {
	return &Runner{wallet: w}
}

// Wallet exposes the underlying wallet for balance display and daily claims.
func (r *Runner) Wallet() *wallet.Wallet { return r.wallet }

// OnDocumentChange registers a callback fired whenever the current document
// is replaced or cleared. The chat session hooks its reset here.
func (r *Runner) OnDocumentChange(fn func()) {
	r.onDocumentChange = fn
}

// Document returns the current study document, or nil.
func (r *Runner) Document() *document.Document { return r.doc }

// AttachDocument replaces the current study document and signals the change.
func (r *Runner) AttachDocument(doc document.Document) {
	r.doc = &doc
	r.notifyDocumentChange()
}

// ClearDocument removes the current study document and signals the change.
func (r *Runner) ClearDocument() {
	if r.doc == nil {
		return
	}
	r.doc = nil
	r.notifyDocumentChange()
}

func (r *Runner) notifyDocumentChange() {
	if r.onDocumentChange != nil {
		r.onDocumentChange()
	}
}

// Busy reports whether a paid invocation is outstanding.
func (r *Runner) Busy() bool { return r.inflight }

// Begin runs the pre-flight guards for kind and, if they all pass, charges
// the wallet and marks the runner busy. Guard order: one-in-flight, document
// presence, affordability. A guard failure leaves the ledger untouched.
func (r *Runner) Begin(ctx context.Context, kind Kind) (*Invocation, error) {
	if r.inflight {
		return nil, ErrBusy
	}
	if kind.RequiresDocument() && r.doc == nil {
		return nil, ErrMissingDocument
	}

	cost := kind.Cost()
	if err := r.wallet.Spend(ctx, cost); err != nil {
		return nil, err
	}

	r.inflight = true
	r.lastToken++
	return &Invocation{Kind: kind, Cost: cost, token: r.lastToken}, nil
}

// Succeed settles a successful invocation. It reports whether the result is
// current; a stale result (the runner has moved on to a newer invocation) is
// refunded and the caller must discard it. An already-settled invocation is
// a no-op reported as stale.
func (r *Runner) Succeed(ctx context.Context, inv *Invocation) (bool, error) {
	if inv.settled {
		return false, nil
	}
	inv.settled = true
	if inv.token != r.lastToken {
		// Late response for a superseded request: refund defensively and
		// tell the caller to drop the payload.
		return false, r.wallet.Refund(ctx, inv.Cost)
	}
	r.inflight = false
	return true, nil
}

// Fail settles a failed invocation with a full refund of the exact amount
// charged. The refund happens before any other event can observe the ledger.
// An already-settled invocation is a no-op.
func (r *Runner) Fail(ctx context.Context, inv *Invocation) error {
	if inv.settled {
		return nil
	}
	inv.settled = true
	if inv.token == r.lastToken {
		r.inflight = false
	}
	return r.wallet.Refund(ctx, inv.Cost)
}

// Abandon settles an invocation the user navigated away from: it refunds the
// charge and releases the gate right here. The late response may never reach
// its screen again (the router delivers only to the active screen), so the
// refund cannot wait for it; the settled flag makes the eventual Succeed or
// Fail a no-op instead of a double refund.
func (r *Runner) Abandon(ctx context.Context, inv *Invocation) error {
	if inv.settled {
		return nil
	}
	inv.settled = true
	if inv.token == r.lastToken {
		r.inflight = false
		// Bump the token so the runner never mistakes a newer ticket for
		// this one.
		r.lastToken++
	}
	return r.wallet.Refund(ctx, inv.Cost)
}
