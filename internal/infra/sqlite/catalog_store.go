package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// ─── Catalog Store ──────────────────────────────────────────────────────────

var _ domain.CatalogStore = (*DB)(nil)

// InsertItem adds a reward item to the catalog.
func (d *DB) InsertItem(ctx context.Context, item domain.RewardItem) (domain.RewardItem, error) {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO reward_items (id, name, icon, description, cost_stars, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, item.ID, item.Name, item.Icon, item.Description, item.CostStars, item.CreatedAt.UnixNano())
	return item, err
}

// UpdateItem rewrites a catalog item. Past redemptions keep their snapshot.
func (d *DB) UpdateItem(ctx context.Context, item domain.RewardItem) (domain.RewardItem, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE reward_items SET name = ?, icon = ?, description = ?, cost_stars = ?
		WHERE id = ?
	`, item.Name, item.Icon, item.Description, item.CostStars, item.ID)
	if err != nil {
		return domain.RewardItem{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.RewardItem{}, domain.ErrItemNotFound
	}
	return item, nil
}

// DeleteItem removes a catalog item. Redemptions referencing it are kept.
func (d *DB) DeleteItem(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM reward_items WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// GetItem looks up one catalog item.
func (d *DB) GetItem(ctx context.Context, id string) (*domain.RewardItem, error) {
	item, err := scanItem(d.db.QueryRowContext(ctx, `
		SELECT id, name, icon, description, cost_stars, created_at
		FROM reward_items WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItems returns the catalog, newest first.
func (d *DB) ListItems(ctx context.Context) ([]domain.RewardItem, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, icon, description, cost_stars, created_at
		FROM reward_items ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.RewardItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// InsertRedemption writes the redemption row and its debit ledger entry in a
// single transaction. Either both land or neither does.
func (d *DB) InsertRedemption(ctx context.Context, r domain.Redemption, debit domain.LedgerEntry) (domain.Redemption, error) {
	err := d.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO redemptions (id, item_id, item_name, item_icon, stars_spent, redeemed_at, status, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.ID, r.ItemID, r.ItemName, r.ItemIcon, r.StarsSpent, r.RedeemedAt.UnixNano(), string(r.Status), r.Notes); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_entries (amount, category, source_ref, idempotency_key, ts, note)
			VALUES (?, ?, ?, NULL, ?, ?)
		`, debit.Amount, string(debit.Category), debit.SourceRef, debit.Timestamp.UnixNano(), debit.Note)
		return err
	})
	return r, err
}

// ListRedemptions returns the redemption history, newest first.
func (d *DB) ListRedemptions(ctx context.Context) ([]domain.Redemption, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, item_id, item_name, item_icon, stars_spent, redeemed_at, status, notes
		FROM redemptions ORDER BY redeemed_at DESC, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Redemption
	for rows.Next() {
		var (
			r      domain.Redemption
			status string
			at     int64
		)
		if err := rows.Scan(&r.ID, &r.ItemID, &r.ItemName, &r.ItemIcon, &r.StarsSpent, &at, &status, &r.Notes); err != nil {
			return nil, err
		}
		r.Status = domain.RedemptionStatus(status)
		r.RedeemedAt = time.Unix(0, at).UTC()
		result = append(result, r)
	}
	return result, rows.Err()
}

// RedemptionCount counts completed redemptions of one item.
func (d *DB) RedemptionCount(ctx context.Context, itemID string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM redemptions WHERE item_id = ?`, itemID).Scan(&count)
	return count, err
}

func scanItem(row rowScanner) (domain.RewardItem, error) {
	var (
		item domain.RewardItem
		at   int64
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Icon, &item.Description, &item.CostStars, &at); err != nil {
		return domain.RewardItem{}, err
	}
	item.CreatedAt = time.Unix(0, at).UTC()
	return item, nil
}
