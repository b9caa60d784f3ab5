// Package activity holds the star-earning activity sources: character
// learning, poem memorization, daily tasks, and travel footprints. Each is a
// thin trigger that records its own state change and then credits the ledger.
// The credit is never retracted, even if the triggering record is later
// deleted.
package activity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// Stars awarded per activity. Tasks define their own amount; travel earns
// one star per yuan of expense.
const (
	CharacterStars int64 = 1
	PoemStars      int64 = 5
)

// Words manages character flashcards and learning records.
type Words struct {
	store  domain.WordStore
	ledger *ledger.Ledger
	now    func() time.Time
}

// NewWords creates the character-learning activity source.
func NewWords(store domain.WordStore, l *ledger.Ledger) *Words {
	return &Words{store: store, ledger: l, now: time.Now}
}

// SetClock overrides the timestamp source. Tests only.
func (w *Words) SetClock(now func() time.Time) { w.now = now }

// Add creates a flashcard.
func (w *Words) Add(ctx context.Context, word, pinyin, meaning string) (domain.Word, error) {
	return w.store.InsertWord(ctx, domain.Word{
		Word:      word,
		Pinyin:    pinyin,
		Meaning:   meaning,
		CreatedAt: w.now().UTC(),
	})
}

// Update edits a flashcard.
func (w *Words) Update(ctx context.Context, card domain.Word) (domain.Word, error) {
	return w.store.UpdateWord(ctx, card)
}

// Remove deletes a flashcard without retracting earned stars.
func (w *Words) Remove(ctx context.Context, id int64) error {
	return w.store.DeleteWord(ctx, id)
}

// Get returns one flashcard.
func (w *Words) Get(ctx context.Context, id int64) (*domain.Word, error) {
	return w.store.GetWord(ctx, id)
}

// List returns all flashcards.
func (w *Words) List(ctx context.Context) ([]domain.Word, error) {
	return w.store.ListWords(ctx)
}

// MarkLearned records a learning event for the word and credits one star.
// idemKey, when non-empty, makes a retried call a no-op on the ledger side.
// Returns the new balance for display.
func (w *Words) MarkLearned(ctx context.Context, wordID int64, idemKey string) (domain.LearningRecord, int64, error) {
	if _, err := w.store.GetWord(ctx, wordID); err != nil {
		return domain.LearningRecord{}, 0, err
	}

	now := w.now().UTC()
	year, week := now.ISOWeek()
	rec, err := w.store.InsertLearningRecord(ctx, domain.LearningRecord{
		WordID:    wordID,
		LearnedAt: now,
		Year:      year,
		Week:      week,
	})
	if err != nil {
		return domain.LearningRecord{}, 0, err
	}

	_, err = w.ledger.CreditIdempotent(ctx, CharacterStars, domain.CategoryCharacter,
		strconv.FormatInt(rec.ID, 10), fmt.Sprintf("learned word #%d", wordID), idemKey)
	if err != nil {
		return domain.LearningRecord{}, 0, err
	}

	bal, err := w.ledger.Balance(ctx)
	return rec, bal, err
}

// WeeklyStats returns per-ISO-week learning counts, most recent first.
func (w *Words) WeeklyStats(ctx context.Context) ([]domain.WeekStats, error) {
	return w.store.WeeklyStats(ctx)
}

// WeekDetail returns the words learned in one ISO week plus its stats.
func (w *Words) WeekDetail(ctx context.Context, year, week int) (domain.WeekStats, []domain.Word, error) {
	words, err := w.store.WordsLearnedInWeek(ctx, year, week)
	if err != nil {
		return domain.WeekStats{}, nil, err
	}
	s := weekStatsFor(year, week, len(words))
	return s, words, nil
}

// CurrentWeek returns the running week's stats.
func (w *Words) CurrentWeek(ctx context.Context) (domain.WeekStats, error) {
	year, week := w.now().UTC().ISOWeek()
	count, err := w.store.WeekCount(ctx, year, week)
	if err != nil {
		return domain.WeekStats{}, err
	}
	return weekStatsFor(year, week, count), nil
}

// ResetProgress clears all learning records. Ledger history is handled
// separately by the caller as part of the explicit reset action.
func (w *Words) ResetProgress(ctx context.Context) error {
	return w.store.DeleteLearningRecords(ctx)
}

func weekStatsFor(year, week, count int) domain.WeekStats {
	start := domain.ISOWeekStart(year, week)
	return domain.WeekStats{
		Year:      year,
		Week:      week,
		Count:     count,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
	}
}
