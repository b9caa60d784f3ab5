package activity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// Travel manages travel plans and expense footprints.
type Travel struct {
	store  domain.TravelStore
	ledger *ledger.Ledger
	now    func() time.Time
}

// NewTravel creates the travel-logging activity source.
func NewTravel(store domain.TravelStore, l *ledger.Ledger) *Travel {
	return &Travel{store: store, ledger: l, now: time.Now}
}

// SetClock overrides the timestamp source. Tests only.
func (t *Travel) SetClock(now func() time.Time) { t.now = now }

// AddPlan creates a travel plan.
func (t *Travel) AddPlan(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	plan.ID = uuid.NewString()
	plan.CreatedAt = t.now().UTC()
	return t.store.InsertPlan(ctx, plan)
}

// UpdatePlan edits a travel plan.
func (t *Travel) UpdatePlan(ctx context.Context, plan domain.TravelPlan) (domain.TravelPlan, error) {
	return t.store.UpdatePlan(ctx, plan)
}

// RemovePlan deletes a plan without retracting earned stars.
func (t *Travel) RemovePlan(ctx context.Context, id string) error {
	return t.store.DeletePlan(ctx, id)
}

// ListPlans returns all travel plans.
func (t *Travel) ListPlans(ctx context.Context) ([]domain.TravelPlan, error) {
	return t.store.ListPlans(ctx)
}

// Footprints returns a plan's logged stops, oldest first.
func (t *Travel) Footprints(ctx context.Context, planID string) ([]domain.TravelFootprint, error) {
	return t.store.ListFootprints(ctx, planID)
}

// LogFootprint records a stop with its expense and credits one star per yuan.
// idemKey, when non-empty, makes a retried call a no-op on the ledger side.
// Returns the new balance for display.
func (t *Travel) LogFootprint(ctx context.Context, planID, place string, expenseYuan int64, idemKey string) (domain.TravelFootprint, int64, error) {
	if expenseYuan <= 0 {
		return domain.TravelFootprint{}, 0, domain.ErrInvalidAmount
	}
	plan, err := t.store.GetPlan(ctx, planID)
	if err != nil {
		return domain.TravelFootprint{}, 0, err
	}

	fp, err := t.store.InsertFootprint(ctx, domain.TravelFootprint{
		PlanID:      planID,
		Place:       place,
		ExpenseYuan: expenseYuan,
		StarsEarned: expenseYuan, // ¥1 = 1 star
		LoggedAt:    t.now().UTC(),
	})
	if err != nil {
		return domain.TravelFootprint{}, 0, err
	}

	_, err = t.ledger.CreditIdempotent(ctx, fp.StarsEarned, domain.CategoryTravel,
		strconv.FormatInt(fp.ID, 10), fmt.Sprintf("footprint %s (%s)", place, plan.Name), idemKey)
	if err != nil {
		return domain.TravelFootprint{}, 0, err
	}

	bal, err := t.ledger.Balance(ctx)
	return fp, bal, err
}
