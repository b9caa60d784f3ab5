// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the application — it depends on nothing.
package domain

import "time"

// ─── Star Ledger Types ──────────────────────────────────────────────────────

// Category is the business reason for a star-affecting ledger entry.
type Category string

const (
	CategoryCharacter  Category = "character"  // a character marked learned
	CategoryPoem       Category = "poem"       // a poem memorized
	CategoryTravel     Category = "travel"     // a travel footprint logged
	CategoryTask       Category = "task"       // a daily task completed
	CategoryRedemption Category = "redemption" // stars spent on a reward
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryCharacter, CategoryPoem, CategoryTravel, CategoryTask, CategoryRedemption:
		return true
	}
	return false
}

// LedgerEntry is a single immutable row in the star ledger.
// Positive amounts are credits (stars earned), negative amounts are debits
// (stars spent). Entries are append-only: deleting the activity that produced
// an entry never retracts the entry.
type LedgerEntry struct {
	ID             int64     `json:"id"`
	Amount         int64     `json:"amount"`
	Category       Category  `json:"category"`
	SourceRef      string    `json:"source_ref,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Note           string    `json:"note,omitempty"`
}

// Credit reports whether the entry added stars.
func (e LedgerEntry) Credit() bool { return e.Amount > 0 }

// ─── Reward Catalog Types ───────────────────────────────────────────────────

// RewardItem is a catalog entry a child can spend stars on.
type RewardItem struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	CostStars   int64     `json:"cost_stars"`
	CreatedAt   time.Time `json:"created_at"`

	// RedemptionCount is derived from the redemption log, not stored.
	RedemptionCount int `json:"redemption_count"`
}

// RedemptionStatus is the lifecycle state of a redemption.
// Only completed is observed; there is no partial or pending state.
type RedemptionStatus string

const (
	RedemptionCompleted RedemptionStatus = "completed"
)

// Redemption is a completed exchange of stars for a catalog item.
// Item name, icon and cost are snapshotted at redemption time so later edits
// to the catalog never rewrite history.
type Redemption struct {
	ID         string           `json:"id"`
	ItemID     string           `json:"item_id"`
	ItemName   string           `json:"item_name"`
	ItemIcon   string           `json:"item_icon,omitempty"`
	StarsSpent int64            `json:"stars_spent"`
	RedeemedAt time.Time        `json:"redeemed_at"`
	Status     RedemptionStatus `json:"status"`
	Notes      string           `json:"notes,omitempty"`
}

// ─── Achievement Types ──────────────────────────────────────────────────────

// AchievementTier is one named milestone in the static ordered tier table.
type AchievementTier struct {
	Threshold   int64  `json:"threshold"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}
