package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/infra/sqlite"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

func newTestCatalog(t *testing.T) (*Catalog, *ledger.Ledger) {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	l := ledger.New(db)
	return New(db, l), l
}

func TestAddItemValidation(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCatalog(t)

	if _, err := c.AddItem(ctx, "free", "🎁", "", 0); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("zero cost: got %v, want ErrInvalidAmount", err)
	}
	if _, err := c.AddItem(ctx, "negative", "🎁", "", -3); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("negative cost: got %v, want ErrInvalidAmount", err)
	}

	item, err := c.AddItem(ctx, "ice cream", "🍦", "one scoop", 10)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.ID == "" {
		t.Error("item should get an id")
	}
	if item.CostStars != 10 {
		t.Errorf("CostStars = %d, want 10", item.CostStars)
	}
}

func TestRedeem(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	if _, err := l.Credit(ctx, 20, domain.CategoryTask, "", ""); err != nil {
		t.Fatal(err)
	}
	item, err := c.AddItem(ctx, "movie night", "🎬", "", 15)
	if err != nil {
		t.Fatal(err)
	}

	r, err := c.Redeem(ctx, item.ID, "saturday")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if r.ItemName != "movie night" || r.StarsSpent != 15 {
		t.Errorf("redemption = %+v, want snapshot of item", r)
	}
	if r.Status != domain.RedemptionCompleted {
		t.Errorf("Status = %q, want completed", r.Status)
	}

	bal, _ := l.Balance(ctx)
	if bal != 5 {
		t.Errorf("Balance = %d, want 5", bal)
	}

	// The debit entry references the redemption.
	entries, _ := l.AllEntries(ctx)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	debit := entries[1]
	if debit.Amount != -15 || debit.SourceRef != r.ID {
		t.Errorf("debit = %+v, want amount -15 ref %s", debit, r.ID)
	}

	got, err := c.GetItem(ctx, item.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.RedemptionCount != 1 {
		t.Errorf("RedemptionCount = %d, want 1", got.RedemptionCount)
	}
}

func TestRedeemItemNotFound(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	if _, err := l.Credit(ctx, 100, domain.CategoryTask, "", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Redeem(ctx, "no-such-item", ""); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("got %v, want ErrItemNotFound", err)
	}

	bal, _ := l.Balance(ctx)
	if bal != 100 {
		t.Errorf("failed redeem must not spend, balance = %d", bal)
	}
}

func TestRedeemInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	if _, err := l.Credit(ctx, 3, domain.CategoryPoem, "", ""); err != nil {
		t.Fatal(err)
	}
	item, err := c.AddItem(ctx, "bike", "🚲", "", 600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.Redeem(ctx, item.ID, "")
	ibe, ok := domain.IsInsufficientBalance(err)
	if !ok {
		t.Fatalf("got %v, want InsufficientBalanceError", err)
	}
	if ibe.Balance != 3 || ibe.Required != 600 {
		t.Errorf("error = {Balance:%d Required:%d}, want {3 600}", ibe.Balance, ibe.Required)
	}

	// Nothing was written: no redemption, no debit.
	history, _ := c.History(ctx)
	if len(history) != 0 {
		t.Errorf("len(history) = %d, want 0", len(history))
	}
	entries, _ := l.AllEntries(ctx)
	if len(entries) != 1 {
		t.Errorf("len(entries) = %d, want 1", len(entries))
	}
}

// Balance 5, two concurrent cost-5 redemptions: exactly one succeeds.
func TestConcurrentRedeemOneWinner(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	if _, err := l.Credit(ctx, 5, domain.CategoryTask, "", ""); err != nil {
		t.Fatal(err)
	}
	item, err := c.AddItem(ctx, "candy", "🍬", "", 5)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = c.Redeem(ctx, item.ID, "")
		}(i)
	}
	wg.Wait()

	var wins int
	for _, err := range errs {
		if err == nil {
			wins++
		} else if _, ok := domain.IsInsufficientBalance(err); !ok {
			t.Errorf("loser got %v, want InsufficientBalanceError", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}

	bal, _ := l.Balance(ctx)
	if bal != 0 {
		t.Errorf("final balance = %d, want 0", bal)
	}
	history, _ := c.History(ctx)
	if len(history) != 1 {
		t.Errorf("len(history) = %d, want 1", len(history))
	}
}

// A week in the life: three characters learned, one small reward redeemed.
func TestEarnAndSpendScenario(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	for i := 0; i < 3; i++ {
		if _, err := l.Credit(ctx, 1, domain.CategoryCharacter, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	item, err := c.AddItem(ctx, "sticker", "⭐", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Redeem(ctx, item.ID, ""); err != nil {
		t.Fatalf("Redeem: %v", err)
	}

	bal, _ := l.Balance(ctx)
	if bal != 1 {
		t.Errorf("Balance = %d, want 1", bal)
	}
	entries, _ := l.AllEntries(ctx)
	if len(entries) != 4 {
		t.Errorf("len(entries) = %d, want 4", len(entries))
	}
	history, _ := c.History(ctx)
	if len(history) != 1 {
		t.Errorf("len(history) = %d, want 1", len(history))
	}
}

func TestUpdateItemKeepsSnapshots(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	if _, err := l.Credit(ctx, 50, domain.CategoryTask, "", ""); err != nil {
		t.Fatal(err)
	}
	item, err := c.AddItem(ctx, "park trip", "🌳", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Redeem(ctx, item.ID, ""); err != nil {
		t.Fatal(err)
	}

	item.Name = "zoo trip"
	item.CostStars = 20
	if _, err := c.UpdateItem(ctx, item); err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}

	history, err := c.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 {
		t.Fatalf("len(history) = %d, want 1", len(history))
	}
	if history[0].ItemName != "park trip" || history[0].StarsSpent != 10 {
		t.Errorf("history[0] = %+v, want the pre-edit snapshot", history[0])
	}
}

func TestRemoveItemKeepsHistory(t *testing.T) {
	ctx := context.Background()
	c, l := newTestCatalog(t)

	if _, err := l.Credit(ctx, 10, domain.CategoryTask, "", ""); err != nil {
		t.Fatal(err)
	}
	item, err := c.AddItem(ctx, "book", "📚", "", 5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Redeem(ctx, item.ID, ""); err != nil {
		t.Fatal(err)
	}

	if err := c.RemoveItem(ctx, item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if err := c.RemoveItem(ctx, item.ID); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("double delete: got %v, want ErrItemNotFound", err)
	}

	history, _ := c.History(ctx)
	if len(history) != 1 {
		t.Errorf("len(history) = %d, want 1 after item deletion", len(history))
	}
	if _, err := c.Redeem(ctx, item.ID, ""); !errors.Is(err, domain.ErrItemNotFound) {
		t.Errorf("redeem deleted item: got %v, want ErrItemNotFound", err)
	}

	bal, _ := l.Balance(ctx)
	if bal != 5 {
		t.Errorf("Balance = %d, want 5", bal)
	}
}
