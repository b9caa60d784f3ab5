package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// ─── Poem Store ─────────────────────────────────────────────────────────────

var _ domain.PoemStore = (*DB)(nil)

// InsertPoem adds a poem.
func (d *DB) InsertPoem(ctx context.Context, p domain.Poem) (domain.Poem, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO poems (title, author, content, created_at) VALUES (?, ?, ?, ?)
	`, p.Title, p.Author, p.Content, p.CreatedAt.UnixNano())
	if err != nil {
		return domain.Poem{}, err
	}
	p.ID, err = res.LastInsertId()
	return p, err
}

// UpdatePoem rewrites a poem's text fields.
func (d *DB) UpdatePoem(ctx context.Context, p domain.Poem) (domain.Poem, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE poems SET title = ?, author = ?, content = ? WHERE id = ?
	`, p.Title, p.Author, p.Content, p.ID)
	if err != nil {
		return domain.Poem{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Poem{}, domain.ErrNotFound
	}
	got, err := d.GetPoem(ctx, p.ID)
	if err != nil {
		return domain.Poem{}, err
	}
	return *got, nil
}

// DeletePoem removes a poem. Star credits it produced are kept.
func (d *DB) DeletePoem(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM poems WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetPoem looks up one poem.
func (d *DB) GetPoem(ctx context.Context, id int64) (*domain.Poem, error) {
	p, err := scanPoem(d.db.QueryRowContext(ctx, `
		SELECT id, title, author, content, created_at, memorized, memorized_at
		FROM poems WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPoems returns all poems, newest first.
func (d *DB) ListPoems(ctx context.Context) ([]domain.Poem, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, author, content, created_at, memorized, memorized_at
		FROM poems ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var poems []domain.Poem
	for rows.Next() {
		p, err := scanPoem(rows)
		if err != nil {
			return nil, err
		}
		poems = append(poems, p)
	}
	return poems, rows.Err()
}

// MarkMemorized flags a poem as memorized.
func (d *DB) MarkMemorized(ctx context.Context, id int64, at time.Time) error {
	res, err := d.db.ExecContext(ctx, `
		UPDATE poems SET memorized = 1, memorized_at = ? WHERE id = ?
	`, at.UnixNano(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPoem(row rowScanner) (domain.Poem, error) {
	var (
		p           domain.Poem
		createdAt   int64
		memorized   int
		memorizedAt sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Content, &createdAt, &memorized, &memorizedAt); err != nil {
		return domain.Poem{}, err
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	p.Memorized = memorized == 1
	if memorizedAt.Valid {
		t := time.Unix(0, memorizedAt.Int64).UTC()
		p.MemorizedAt = &t
	}
	return p, nil
}

// ─── Task Store ─────────────────────────────────────────────────────────────

var _ domain.TaskStore = (*DB)(nil)

// InsertTask adds a chore task.
func (d *DB) InsertTask(ctx context.Context, t domain.ChoreTask) (domain.ChoreTask, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO chore_tasks (name, description, reward_stars, created_at) VALUES (?, ?, ?, ?)
	`, t.Name, t.Description, t.RewardStars, t.CreatedAt.UnixNano())
	if err != nil {
		return domain.ChoreTask{}, err
	}
	t.ID, err = res.LastInsertId()
	return t, err
}

// UpdateTask rewrites a task. Past completions keep their frozen reward.
func (d *DB) UpdateTask(ctx context.Context, t domain.ChoreTask) (domain.ChoreTask, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE chore_tasks SET name = ?, description = ?, reward_stars = ? WHERE id = ?
	`, t.Name, t.Description, t.RewardStars, t.ID)
	if err != nil {
		return domain.ChoreTask{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ChoreTask{}, domain.ErrNotFound
	}
	got, err := d.GetTask(ctx, t.ID)
	if err != nil {
		return domain.ChoreTask{}, err
	}
	return *got, nil
}

// DeleteTask removes a task. Completions and their credits are kept.
func (d *DB) DeleteTask(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM chore_tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetTask looks up one task with its completion count.
func (d *DB) GetTask(ctx context.Context, id int64) (*domain.ChoreTask, error) {
	t, err := scanTask(d.db.QueryRowContext(ctx, taskSelect+` WHERE t.id = ? GROUP BY t.id`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns all tasks, newest first, with completion counts.
func (d *DB) ListTasks(ctx context.Context) ([]domain.ChoreTask, error) {
	rows, err := d.db.QueryContext(ctx, taskSelect+` GROUP BY t.id ORDER BY t.created_at DESC, t.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.ChoreTask
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const taskSelect = `
	SELECT t.id, t.name, t.description, t.reward_stars, t.created_at, COUNT(c.id)
	FROM chore_tasks t LEFT JOIN task_completions c ON c.task_id = t.id`

// InsertCompletion records one task completion.
func (d *DB) InsertCompletion(ctx context.Context, c domain.TaskCompletion) (domain.TaskCompletion, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO task_completions (task_id, completed_at, stars_earned) VALUES (?, ?, ?)
	`, c.TaskID, c.CompletedAt.UnixNano(), c.StarsEarned)
	if err != nil {
		return domain.TaskCompletion{}, err
	}
	c.ID, err = res.LastInsertId()
	return c, err
}

// ListCompletions returns a task's completions, most recent first.
func (d *DB) ListCompletions(ctx context.Context, taskID int64) ([]domain.TaskCompletion, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, task_id, completed_at, stars_earned
		FROM task_completions WHERE task_id = ? ORDER BY completed_at DESC, id DESC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comps []domain.TaskCompletion
	for rows.Next() {
		var (
			c  domain.TaskCompletion
			at int64
		)
		if err := rows.Scan(&c.ID, &c.TaskID, &at, &c.StarsEarned); err != nil {
			return nil, err
		}
		c.CompletedAt = time.Unix(0, at).UTC()
		comps = append(comps, c)
	}
	return comps, rows.Err()
}

func scanTask(row rowScanner) (domain.ChoreTask, error) {
	var (
		t         domain.ChoreTask
		createdAt int64
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.RewardStars, &createdAt, &t.Completions); err != nil {
		return domain.ChoreTask{}, err
	}
	t.CreatedAt = time.Unix(0, createdAt).UTC()
	return t, nil
}

// ─── Travel Store ───────────────────────────────────────────────────────────

var _ domain.TravelStore = (*DB)(nil)

// InsertPlan adds a travel plan.
func (d *DB) InsertPlan(ctx context.Context, p domain.TravelPlan) (domain.TravelPlan, error) {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO travel_plans (id, name, destination, budget_yuan, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Destination, p.BudgetYuan, p.StartDate, p.EndDate, p.CreatedAt.UnixNano())
	return p, err
}

// UpdatePlan rewrites a travel plan.
func (d *DB) UpdatePlan(ctx context.Context, p domain.TravelPlan) (domain.TravelPlan, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE travel_plans SET name = ?, destination = ?, budget_yuan = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`, p.Name, p.Destination, p.BudgetYuan, p.StartDate, p.EndDate, p.ID)
	if err != nil {
		return domain.TravelPlan{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.TravelPlan{}, domain.ErrNotFound
	}
	return p, nil
}

// DeletePlan removes a plan. Footprints and their credits are kept.
func (d *DB) DeletePlan(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM travel_plans WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetPlan looks up one travel plan.
func (d *DB) GetPlan(ctx context.Context, id string) (*domain.TravelPlan, error) {
	var (
		p         domain.TravelPlan
		createdAt int64
	)
	err := d.db.QueryRowContext(ctx, `
		SELECT id, name, destination, budget_yuan, start_date, end_date, created_at
		FROM travel_plans WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Destination, &p.BudgetYuan, &p.StartDate, &p.EndDate, &createdAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(0, createdAt).UTC()
	return &p, nil
}

// ListPlans returns all travel plans, newest first.
func (d *DB) ListPlans(ctx context.Context) ([]domain.TravelPlan, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, destination, budget_yuan, start_date, end_date, created_at
		FROM travel_plans ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.TravelPlan
	for rows.Next() {
		var (
			p         domain.TravelPlan
			createdAt int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Destination, &p.BudgetYuan, &p.StartDate, &p.EndDate, &createdAt); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(0, createdAt).UTC()
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// InsertFootprint records one travel stop.
func (d *DB) InsertFootprint(ctx context.Context, f domain.TravelFootprint) (domain.TravelFootprint, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO travel_footprints (plan_id, place, expense_yuan, stars_earned, logged_at)
		VALUES (?, ?, ?, ?, ?)
	`, f.PlanID, f.Place, f.ExpenseYuan, f.StarsEarned, f.LoggedAt.UnixNano())
	if err != nil {
		return domain.TravelFootprint{}, err
	}
	f.ID, err = res.LastInsertId()
	return f, err
}

// ListFootprints returns a plan's footprints, oldest first.
func (d *DB) ListFootprints(ctx context.Context, planID string) ([]domain.TravelFootprint, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, plan_id, place, expense_yuan, stars_earned, logged_at
		FROM travel_footprints WHERE plan_id = ? ORDER BY logged_at, id
	`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fps []domain.TravelFootprint
	for rows.Next() {
		var (
			f  domain.TravelFootprint
			at int64
		)
		if err := rows.Scan(&f.ID, &f.PlanID, &f.Place, &f.ExpenseYuan, &f.StarsEarned, &at); err != nil {
			return nil, err
		}
		f.LoggedAt = time.Unix(0, at).UTC()
		fps = append(fps, f)
	}
	return fps, rows.Err()
}
