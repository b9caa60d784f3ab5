package activity

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// Tasks manages daily chore tasks and their completions.
type Tasks struct {
	store  domain.TaskStore
	ledger *ledger.Ledger
	now    func() time.Time
}

// NewTasks creates the task-completion activity source.
func NewTasks(store domain.TaskStore, l *ledger.Ledger) *Tasks {
	return &Tasks{store: store, ledger: l, now: time.Now}
}

// SetClock overrides the timestamp source. Tests only.
func (t *Tasks) SetClock(now func() time.Time) { t.now = now }

// Add creates a task with its star reward.
// Fails with ErrInvalidAmount unless the reward is a positive integer.
func (t *Tasks) Add(ctx context.Context, name, description string, rewardStars int64) (domain.ChoreTask, error) {
	if rewardStars <= 0 {
		return domain.ChoreTask{}, domain.ErrInvalidAmount
	}
	return t.store.InsertTask(ctx, domain.ChoreTask{
		Name:        name,
		Description: description,
		RewardStars: rewardStars,
		CreatedAt:   t.now().UTC(),
	})
}

// Update edits a task. Past completions keep the reward they recorded.
func (t *Tasks) Update(ctx context.Context, task domain.ChoreTask) (domain.ChoreTask, error) {
	if task.RewardStars <= 0 {
		return domain.ChoreTask{}, domain.ErrInvalidAmount
	}
	return t.store.UpdateTask(ctx, task)
}

// Remove deletes a task without retracting earned stars.
func (t *Tasks) Remove(ctx context.Context, id int64) error {
	return t.store.DeleteTask(ctx, id)
}

// List returns all tasks with completion counts.
func (t *Tasks) List(ctx context.Context) ([]domain.ChoreTask, error) {
	return t.store.ListTasks(ctx)
}

// Completions returns a task's completion history.
func (t *Tasks) Completions(ctx context.Context, taskID int64) ([]domain.TaskCompletion, error) {
	return t.store.ListCompletions(ctx, taskID)
}

// Complete records a completion and credits the task-defined reward, frozen
// at completion time. idemKey, when non-empty, makes a retried call a no-op
// on the ledger side. Returns the new balance for display.
func (t *Tasks) Complete(ctx context.Context, taskID int64, idemKey string) (domain.TaskCompletion, int64, error) {
	task, err := t.store.GetTask(ctx, taskID)
	if err != nil {
		return domain.TaskCompletion{}, 0, err
	}

	comp, err := t.store.InsertCompletion(ctx, domain.TaskCompletion{
		TaskID:      taskID,
		CompletedAt: t.now().UTC(),
		StarsEarned: task.RewardStars,
	})
	if err != nil {
		return domain.TaskCompletion{}, 0, err
	}

	_, err = t.ledger.CreditIdempotent(ctx, task.RewardStars, domain.CategoryTask,
		strconv.FormatInt(comp.ID, 10), fmt.Sprintf("completed %q", task.Name), idemKey)
	if err != nil {
		return domain.TaskCompletion{}, 0, err
	}

	bal, err := t.ledger.Balance(ctx)
	return comp, bal, err
}
