package domain

import "time"

// ─── Activity Source Types ──────────────────────────────────────────────────
// Each activity source is an independent producer of star-earning events.
// Their records are decoupled from the ledger: deleting a word, poem, task
// or travel plan does not touch entries it previously produced.

// Word is one Chinese character on a flashcard.
type Word struct {
	ID           int64      `json:"id"`
	Word         string     `json:"word"`
	Pinyin       string     `json:"pinyin"`
	Meaning      string     `json:"meaning"`
	CreatedAt    time.Time  `json:"created_at"`
	Learned      bool       `json:"learned"`
	LastReviewed *time.Time `json:"last_reviewed,omitempty"`
}

// LearningRecord is one "marked learned" event for a word.
// Year and Week are the ISO week of the event, used by weekly stats.
type LearningRecord struct {
	ID        int64     `json:"id"`
	WordID    int64     `json:"word_id"`
	LearnedAt time.Time `json:"learned_at"`
	Year      int       `json:"year"`
	Week      int       `json:"week"`
}

// WeekStats summarizes learning activity for one ISO week.
type WeekStats struct {
	Year      int       `json:"year"`
	Week      int       `json:"week"`
	Count     int       `json:"count"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// ISOWeekStart returns the Monday starting the given ISO week.
func ISOWeekStart(year, week int) time.Time {
	// Jan 4 is always inside ISO week 1.
	t := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return t.AddDate(0, 0, 1-weekday).AddDate(0, 0, (week-1)*7)
}

// Poem is a poem the child is memorizing.
type Poem struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author,omitempty"`
	Content      string     `json:"content,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Memorized    bool       `json:"memorized"`
	MemorizedAt  *time.Time `json:"memorized_at,omitempty"`
}

// ChoreTask is a recurring daily task with a task-defined star reward.
type ChoreTask struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	RewardStars int64     `json:"reward_stars"`
	CreatedAt   time.Time `json:"created_at"`
	Completions int       `json:"completions"`
}

// TaskCompletion is one completion event for a chore task.
// StarsEarned is frozen at completion time; later edits to the task's
// reward do not rewrite it.
type TaskCompletion struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"task_id"`
	CompletedAt time.Time `json:"completed_at"`
	StarsEarned int64     `json:"stars_earned"`
}

// TravelPlan is a planned or taken trip.
type TravelPlan struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Destination string    `json:"destination,omitempty"`
	BudgetYuan  int64     `json:"budget_yuan,omitempty"`
	StartDate   string    `json:"start_date,omitempty"`
	EndDate     string    `json:"end_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TravelFootprint is one logged stop on a trip. Each yuan of expense earns
// one star.
type TravelFootprint struct {
	ID          int64     `json:"id"`
	PlanID      string    `json:"plan_id"`
	Place       string    `json:"place"`
	ExpenseYuan int64     `json:"expense_yuan"`
	StarsEarned int64     `json:"stars_earned"`
	LoggedAt    time.Time `json:"logged_at"`
}
