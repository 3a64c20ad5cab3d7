package wallet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hakim/lernix/internal/store"
)

const (
	// StartingBalance is granted to a first-time session.
	StartingBalance = 10

	// DailyReward is the once-per-day free credit grant.
	DailyReward = 5
)

// Storage keys.
const (
	keyPoints    = "wallet.points"
	keyLastClaim = "wallet.last_claim"
)

// claimDateLayout is the host-local calendar date used for daily-claim
// eligibility.
const claimDateLayout = "2006-01-02"

// ErrInsufficientCredits is returned when a spend exceeds the balance.
var ErrInsufficientCredits = errors.New("insufficient credits")

// ErrAlreadyClaimed is returned when the daily reward was already claimed today.
var ErrAlreadyClaimed = errors.New("daily reward already claimed")

// Wallet owns the credit balance and the daily-claim state. The balance is
// only mutated through Spend, Refund, Bonus, and ClaimDaily; every mutation
// is written through to the key-value store.
type Wallet struct {
	kv        store.KV
	balance   int
	lastClaim string
	now       func() time.Time
}

// Open loads the wallet from kv, defaulting to StartingBalance when no
// balance has been persisted yet. now is injectable for tests; pass nil
// for time.Now.
func Open(ctx context.Context, kv store.KV, now func() time.Time) (*Wallet, error) {
	if now == nil {
		now = time.Now
	}

	w := &Wallet{kv: kv, balance: StartingBalance, now: now}

	raw, ok, err := kv.Get(ctx, keyPoints)
	if err != nil {
		return nil, fmt.Errorf("load balance: %w", err)
	}
	if ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("corrupt balance %q", raw)
		}
		w.balance = n
	} else {
		// First session: persist the starting balance right away.
		if err := w.persistBalance(ctx); err != nil {
			return nil, err
		}
	}

	w.lastClaim, _, err = loadLastClaim(ctx, kv)
	if err != nil {
		return nil, err
	}

	return w, nil
}

func loadLastClaim(ctx context.Context, kv store.KV) (string, bool, error) {
	raw, ok, err := kv.Get(ctx, keyLastClaim)
	if err != nil {
		return "", false, fmt.Errorf("load last claim date: %w", err)
	}
	return raw, ok, nil
}

// Balance returns the spendable credit balance.
func (w *Wallet) Balance() int {
	return w.balance
}

// CanAfford reports whether the balance covers cost.
func (w *Wallet) CanAfford(cost int) bool {
	return w.balance >= cost
}

// Spend decrements the balance by cost. It enforces the affordability guard
// itself so the balance can never go negative.
func (w *Wallet) Spend(ctx context.Context, cost int) error {
	if !w.CanAfford(cost) {
		return ErrInsufficientCredits
	}
	w.balance -= cost
	return w.persistBalance(ctx)
}

// Refund restores amount to the balance. Used exactly once per failed paid
// invocation, with the exact amount previously spent.
func (w *Wallet) Refund(ctx context.Context, amount int) error {
	w.balance += amount
	return w.persistBalance(ctx)
}

// Bonus adds a performance reward to the balance.
func (w *Wallet) Bonus(ctx context.Context, amount int) error {
	w.balance += amount
	return w.persistBalance(ctx)
}

// CanClaimDaily reports whether the daily reward is still available today.
func (w *Wallet) CanClaimDaily() bool {
	return w.lastClaim != w.today()
}

// ClaimDaily grants DailyReward once per host-local calendar day.
func (w *Wallet) ClaimDaily(ctx context.Context) (int, error) {
	if !w.CanClaimDaily() {
		return 0, ErrAlreadyClaimed
	}
	w.balance += DailyReward
	w.lastClaim = w.today()
	if err := w.persistBalance(ctx); err != nil {
		return 0, err
	}
	if err := w.kv.Set(ctx, keyLastClaim, w.lastClaim); err != nil {
		return 0, fmt.Errorf("persist claim date: %w", err)
	}
	return DailyReward, nil
}

func (w *Wallet) today() string {
	return w.now().Format(claimDateLayout)
}

func (w *Wallet) persistBalance(ctx context.Context) error {
	if err := w.kv.Set(ctx, keyPoints, strconv.Itoa(w.balance)); err != nil {
		return fmt.Errorf("persist balance: %w", err)
	}
	return nil
}
