// Package catalog implements the reward catalog: the one place stars can be
// spent. Redemption is all-or-nothing — the debit ledger entry and the
// redemption record are written in a single storage transaction, guarded by
// the ledger's atomic balance check.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/infra/observability"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// Catalog gates spending against the ledger.
type Catalog struct {
	store  domain.CatalogStore
	ledger *ledger.Ledger
	now    func() time.Time
}

// New creates a Catalog over the given store and ledger.
func New(store domain.CatalogStore, l *ledger.Ledger) *Catalog {
	return &Catalog{store: store, ledger: l, now: time.Now}
}

// SetClock overrides the redemption timestamp source. Tests only.
func (c *Catalog) SetClock(now func() time.Time) { c.now = now }

// AddItem creates a reward item.
// Fails with ErrInvalidAmount unless the cost is a positive integer.
func (c *Catalog) AddItem(ctx context.Context, name, icon, description string, costStars int64) (domain.RewardItem, error) {
	if costStars <= 0 {
		return domain.RewardItem{}, domain.ErrInvalidAmount
	}
	return c.store.InsertItem(ctx, domain.RewardItem{
		ID:          uuid.NewString(),
		Name:        name,
		Icon:        icon,
		Description: description,
		CostStars:   costStars,
		CreatedAt:   c.now().UTC(),
	})
}

// UpdateItem edits a catalog item. Past redemptions keep the snapshot taken
// when they completed.
func (c *Catalog) UpdateItem(ctx context.Context, item domain.RewardItem) (domain.RewardItem, error) {
	if item.CostStars <= 0 {
		return domain.RewardItem{}, domain.ErrInvalidAmount
	}
	return c.store.UpdateItem(ctx, item)
}

// RemoveItem deletes a catalog item without touching its redemption history.
func (c *Catalog) RemoveItem(ctx context.Context, id string) error {
	return c.store.DeleteItem(ctx, id)
}

// GetItem returns one item with its redemption count.
func (c *Catalog) GetItem(ctx context.Context, id string) (domain.RewardItem, error) {
	item, err := c.store.GetItem(ctx, id)
	if err != nil {
		return domain.RewardItem{}, err
	}
	item.RedemptionCount, err = c.store.RedemptionCount(ctx, id)
	if err != nil {
		return domain.RewardItem{}, err
	}
	return *item, nil
}

// ListItems returns the catalog with redemption counts filled in.
func (c *Catalog) ListItems(ctx context.Context) ([]domain.RewardItem, error) {
	items, err := c.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].RedemptionCount, err = c.store.RedemptionCount(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

// Redeem exchanges stars for a catalog item. The whole operation is atomic:
// either one Redemption and one matching negative ledger entry are created,
// or neither is. Fails with ErrItemNotFound for a stale item reference and
// with InsufficientBalanceError when the child cannot afford the item.
func (c *Catalog) Redeem(ctx context.Context, itemID, notes string) (domain.Redemption, error) {
	item, err := c.store.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			observability.RecordRedemption("item_not_found")
		}
		return domain.Redemption{}, err
	}

	r := domain.Redemption{
		ID:         uuid.NewString(),
		ItemID:     item.ID,
		ItemName:   item.Name,
		ItemIcon:   item.Icon,
		StarsSpent: item.CostStars,
		RedeemedAt: c.now().UTC(),
		Status:     domain.RedemptionCompleted,
		Notes:      notes,
	}

	_, err = c.ledger.Spend(ctx, item.CostStars, r.ID, fmt.Sprintf("redeemed %q", item.Name),
		func(debit domain.LedgerEntry) (domain.LedgerEntry, error) {
			if _, err := c.store.InsertRedemption(ctx, r, debit); err != nil {
				return domain.LedgerEntry{}, err
			}
			return debit, nil
		})
	if err != nil {
		if _, ok := domain.IsInsufficientBalance(err); ok {
			observability.RecordRedemption("insufficient_balance")
		}
		return domain.Redemption{}, err
	}

	observability.RecordRedemption("completed")
	return r, nil
}

// History returns all completed redemptions, most recent first.
func (c *Catalog) History(ctx context.Context) ([]domain.Redemption, error) {
	return c.store.ListRedemptions(ctx)
}
