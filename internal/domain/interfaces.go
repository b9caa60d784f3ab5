package domain

import (
	"context"
	"time"
)

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define the persistence boundary. Infrastructure
// (internal/infra/sqlite) implements them; services depend only on these.

// LedgerStore persists the append-only star ledger.
type LedgerStore interface {
	// AppendEntry writes one entry and returns it with ID and timestamp set.
	AppendEntry(ctx context.Context, e LedgerEntry) (LedgerEntry, error)

	// FindByIdempotencyKey returns the entry previously written with the
	// given category and key, or nil if none exists.
	FindByIdempotencyKey(ctx context.Context, c Category, key string) (*LedgerEntry, error)

	// Balance returns SUM(amount) over all entries (0 for an empty ledger).
	Balance(ctx context.Context) (int64, error)

	// EntriesInRange returns entries with start <= timestamp < end,
	// ordered by timestamp ascending.
	EntriesInRange(ctx context.Context, start, end time.Time) ([]LedgerEntry, error)

	// AllEntries returns every entry, ordered by timestamp ascending.
	AllEntries(ctx context.Context) ([]LedgerEntry, error)

	// ResetAll deletes every entry. Idempotent.
	ResetAll(ctx context.Context) error
}

// CatalogStore persists reward items and redemptions.
type CatalogStore interface {
	InsertItem(ctx context.Context, item RewardItem) (RewardItem, error)
	UpdateItem(ctx context.Context, item RewardItem) (RewardItem, error)
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*RewardItem, error)
	ListItems(ctx context.Context) ([]RewardItem, error)

	// InsertRedemption writes the redemption and its debit ledger entry in
	// one transaction; either both rows land or neither does.
	InsertRedemption(ctx context.Context, r Redemption, debit LedgerEntry) (Redemption, error)

	ListRedemptions(ctx context.Context) ([]Redemption, error)
	RedemptionCount(ctx context.Context, itemID string) (int, error)
}

// WordStore persists words and their learning records.
type WordStore interface {
	InsertWord(ctx context.Context, w Word) (Word, error)
	UpdateWord(ctx context.Context, w Word) (Word, error)
	DeleteWord(ctx context.Context, id int64) error
	GetWord(ctx context.Context, id int64) (*Word, error)
	ListWords(ctx context.Context) ([]Word, error)

	InsertLearningRecord(ctx context.Context, r LearningRecord) (LearningRecord, error)
	WeeklyStats(ctx context.Context) ([]WeekStats, error)
	WordsLearnedInWeek(ctx context.Context, year, week int) ([]Word, error)
	WeekCount(ctx context.Context, year, week int) (int, error)
	DeleteLearningRecords(ctx context.Context) error
}

// PoemStore persists poems.
type PoemStore interface {
	InsertPoem(ctx context.Context, p Poem) (Poem, error)
	UpdatePoem(ctx context.Context, p Poem) (Poem, error)
	DeletePoem(ctx context.Context, id int64) error
	GetPoem(ctx context.Context, id int64) (*Poem, error)
	ListPoems(ctx context.Context) ([]Poem, error)
	MarkMemorized(ctx context.Context, id int64, at time.Time) error
}

// TaskStore persists chore tasks and their completions.
type TaskStore interface {
	InsertTask(ctx context.Context, t ChoreTask) (ChoreTask, error)
	UpdateTask(ctx context.Context, t ChoreTask) (ChoreTask, error)
	DeleteTask(ctx context.Context, id int64) error
	GetTask(ctx context.Context, id int64) (*ChoreTask, error)
	ListTasks(ctx context.Context) ([]ChoreTask, error)

	InsertCompletion(ctx context.Context, c TaskCompletion) (TaskCompletion, error)
	ListCompletions(ctx context.Context, taskID int64) ([]TaskCompletion, error)
}

// TravelStore persists travel plans and footprints.
type TravelStore interface {
	InsertPlan(ctx context.Context, p TravelPlan) (TravelPlan, error)
	UpdatePlan(ctx context.Context, p TravelPlan) (TravelPlan, error)
	DeletePlan(ctx context.Context, id string) error
	GetPlan(ctx context.Context, id string) (*TravelPlan, error)
	ListPlans(ctx context.Context) ([]TravelPlan, error)

	InsertFootprint(ctx context.Context, f TravelFootprint) (TravelFootprint, error)
	ListFootprints(ctx context.Context, planID string) ([]TravelFootprint, error)
}
