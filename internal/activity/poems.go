package activity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// Poems manages the poem list and memorization events.
type Poems struct {
	store  domain.PoemStore
	ledger *ledger.Ledger
	now    func() time.Time
}

// NewPoems creates the poem-memorization activity source.
func NewPoems(store domain.PoemStore, l *ledger.Ledger) *Poems {
	return &Poems{store: store, ledger: l, now: time.Now}
}

// SetClock overrides the timestamp source. Tests only.
func (p *Poems) SetClock(now func() time.Time) { p.now = now }

// Add creates a poem.
func (p *Poems) Add(ctx context.Context, title, author, content string) (domain.Poem, error) {
	return p.store.InsertPoem(ctx, domain.Poem{
		Title:     title,
		Author:    author,
		Content:   content,
		CreatedAt: p.now().UTC(),
	})
}

// Update edits a poem.
func (p *Poems) Update(ctx context.Context, poem domain.Poem) (domain.Poem, error) {
	return p.store.UpdatePoem(ctx, poem)
}

// Remove deletes a poem without retracting earned stars.
func (p *Poems) Remove(ctx context.Context, id int64) error {
	return p.store.DeletePoem(ctx, id)
}

// List returns all poems.
func (p *Poems) List(ctx context.Context) ([]domain.Poem, error) {
	return p.store.ListPoems(ctx)
}

// MarkMemorized flags the poem memorized and credits five stars.
// idemKey, when non-empty, makes a retried call a no-op on the ledger side.
// Returns the new balance for display.
func (p *Poems) MarkMemorized(ctx context.Context, poemID int64, idemKey string) (int64, error) {
	poem, err := p.store.GetPoem(ctx, poemID)
	if err != nil {
		return 0, err
	}

	if err := p.store.MarkMemorized(ctx, poemID, p.now().UTC()); err != nil {
		return 0, err
	}

	_, err = p.ledger.CreditIdempotent(ctx, PoemStars, domain.CategoryPoem,
		strconv.FormatInt(poemID, 10), fmt.Sprintf("memorized %q", poem.Title), idemKey)
	if err != nil {
		return 0, err
	}
	return p.ledger.Balance(ctx)
}
