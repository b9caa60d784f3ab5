// Package ledger implements the star ledger — the single source of truth for
// the current star balance. The ledger is an append-only log of credit and
// debit entries; balance is the running sum over all of them.
//
// One Ledger instance owns the write path. Credit, Debit, Spend and ResetAll
// are serialized by a single mutex so debit's check-then-append is one atomic
// unit: under concurrent redemptions racing for the same stars, at most one
// can win.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/infra/observability"
)

// Ledger is the write-serialized star ledger service.
type Ledger struct {
	mu    sync.Mutex
	store domain.LedgerStore
	now   func() time.Time
}

// New creates a Ledger over the given store.
func New(store domain.LedgerStore) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// SetClock overrides the entry timestamp source. Tests only.
func (l *Ledger) SetClock(now func() time.Time) { l.now = now }

// Credit appends a positive entry and returns it.
// Fails with ErrInvalidAmount if amount <= 0 and ErrInvalidCategory if the
// category is unknown or the debit-only redemption category.
func (l *Ledger) Credit(ctx context.Context, amount int64, cat domain.Category, sourceRef, note string) (domain.LedgerEntry, error) {
	return l.CreditIdempotent(ctx, amount, cat, sourceRef, note, "")
}

// CreditIdempotent is Credit with a caller-supplied idempotency key.
// A retried credit carrying a key already seen for the same category is a
// no-op that returns the original entry, so a network retry after a timeout
// cannot double-credit.
func (l *Ledger) CreditIdempotent(ctx context.Context, amount int64, cat domain.Category, sourceRef, note, key string) (domain.LedgerEntry, error) {
	if amount <= 0 {
		return domain.LedgerEntry{}, domain.ErrInvalidAmount
	}
	if !cat.Valid() || cat == domain.CategoryRedemption {
		return domain.LedgerEntry{}, domain.ErrInvalidCategory
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if key != "" {
		prev, err := l.store.FindByIdempotencyKey(ctx, cat, key)
		if err != nil {
			return domain.LedgerEntry{}, err
		}
		if prev != nil {
			return *prev, nil
		}
	}

	entry, err := l.store.AppendEntry(ctx, domain.LedgerEntry{
		Amount:         amount,
		Category:       cat,
		SourceRef:      sourceRef,
		IdempotencyKey: key,
		Timestamp:      l.now().UTC(),
		Note:           note,
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	observability.RecordCredit(string(cat), amount)
	l.publishBalance(ctx)
	return entry, nil
}

// Debit appends a negative entry of the given amount.
// The balance check and the append run under the write lock; a failed debit
// leaves the ledger exactly as it was.
func (l *Ledger) Debit(ctx context.Context, amount int64, sourceRef, note string) (domain.LedgerEntry, error) {
	return l.Spend(ctx, amount, sourceRef, note, func(e domain.LedgerEntry) (domain.LedgerEntry, error) {
		return l.store.AppendEntry(ctx, e)
	})
}

// Spend is the atomic debit primitive. It checks the balance, builds the
// negative entry and hands it to persist, all inside the write-serialized
// section. persist writes the entry — together with any companion record the
// caller needs, in the same storage transaction — and returns the stored
// entry. The redemption catalog uses this hook for its all-or-nothing
// redeem semantics.
func (l *Ledger) Spend(ctx context.Context, amount int64, sourceRef, note string, persist func(domain.LedgerEntry) (domain.LedgerEntry, error)) (domain.LedgerEntry, error) {
	if amount <= 0 {
		return domain.LedgerEntry{}, domain.ErrInvalidAmount
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	bal, err := l.store.Balance(ctx)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	if bal-amount < 0 {
		return domain.LedgerEntry{}, &domain.InsufficientBalanceError{Balance: bal, Required: amount}
	}

	entry, err := persist(domain.LedgerEntry{
		Amount:    -amount,
		Category:  domain.CategoryRedemption,
		SourceRef: sourceRef,
		Timestamp: l.now().UTC(),
		Note:      note,
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	observability.RecordSpend(amount)
	l.publishBalance(ctx)
	return entry, nil
}

// Balance returns the current star count: the sum of all entries.
func (l *Ledger) Balance(ctx context.Context) (int64, error) {
	return l.store.Balance(ctx)
}

// EntriesInRange returns entries with start <= timestamp < end, oldest first.
func (l *Ledger) EntriesInRange(ctx context.Context, start, end time.Time) ([]domain.LedgerEntry, error) {
	return l.store.EntriesInRange(ctx, start, end)
}

// AllEntries returns the full ledger, oldest first.
func (l *Ledger) AllEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	return l.store.AllEntries(ctx)
}

// ResetAll clears the entire ledger. This is the explicit "reset progress"
// action — the only operation that removes history. Resetting an empty
// ledger is a no-op.
func (l *Ledger) ResetAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.ResetAll(ctx); err != nil {
		return err
	}
	observability.SetBalance(0)
	return nil
}

func (l *Ledger) publishBalance(ctx context.Context) {
	if bal, err := l.store.Balance(ctx); err == nil {
		observability.SetBalance(bal)
	}
}
