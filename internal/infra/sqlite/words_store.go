package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// ─── Word Store ─────────────────────────────────────────────────────────────

var _ domain.WordStore = (*DB)(nil)

// InsertWord adds a character flashcard.
func (d *DB) InsertWord(ctx context.Context, w domain.Word) (domain.Word, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO words (word, pinyin, meaning, created_at) VALUES (?, ?, ?, ?)
	`, w.Word, w.Pinyin, w.Meaning, w.CreatedAt.UnixNano())
	if err != nil {
		return domain.Word{}, err
	}
	w.ID, err = res.LastInsertId()
	return w, err
}

// UpdateWord rewrites a flashcard's text fields.
func (d *DB) UpdateWord(ctx context.Context, w domain.Word) (domain.Word, error) {
	res, err := d.db.ExecContext(ctx, `
		UPDATE words SET word = ?, pinyin = ?, meaning = ? WHERE id = ?
	`, w.Word, w.Pinyin, w.Meaning, w.ID)
	if err != nil {
		return domain.Word{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Word{}, domain.ErrNotFound
	}
	got, err := d.GetWord(ctx, w.ID)
	if err != nil {
		return domain.Word{}, err
	}
	return *got, nil
}

// DeleteWord removes a flashcard. Its learning records, and any star credits
// they produced, are kept.
func (d *DB) DeleteWord(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM words WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetWord looks up one flashcard with its learned status.
func (d *DB) GetWord(ctx context.Context, id int64) (*domain.Word, error) {
	w, err := scanWord(d.db.QueryRowContext(ctx, wordSelect+` WHERE w.id = ? GROUP BY w.id`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// ListWords returns all flashcards, newest first, each with learned status
// and last review time.
func (d *DB) ListWords(ctx context.Context) ([]domain.Word, error) {
	rows, err := d.db.QueryContext(ctx, wordSelect+` GROUP BY w.id ORDER BY w.created_at DESC, w.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

const wordSelect = `
	SELECT w.id, w.word, w.pinyin, w.meaning, w.created_at, MAX(r.learned_at)
	FROM words w LEFT JOIN learning_records r ON r.word_id = w.id`

// InsertLearningRecord records one "marked learned" event.
func (d *DB) InsertLearningRecord(ctx context.Context, r domain.LearningRecord) (domain.LearningRecord, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO learning_records (word_id, learned_at, year, week) VALUES (?, ?, ?, ?)
	`, r.WordID, r.LearnedAt.UnixNano(), r.Year, r.Week)
	if err != nil {
		return domain.LearningRecord{}, err
	}
	r.ID, err = res.LastInsertId()
	return r, err
}

// WeeklyStats returns per-ISO-week learning counts, most recent week first.
func (d *DB) WeeklyStats(ctx context.Context) ([]domain.WeekStats, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT year, week, COUNT(*) FROM learning_records
		GROUP BY year, week ORDER BY year DESC, week DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []domain.WeekStats
	for rows.Next() {
		var s domain.WeekStats
		if err := rows.Scan(&s.Year, &s.Week, &s.Count); err != nil {
			return nil, err
		}
		s.StartDate = domain.ISOWeekStart(s.Year, s.Week)
		s.EndDate = s.StartDate.AddDate(0, 0, 6)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// WordsLearnedInWeek lists the words learned during one ISO week, most
// recent first.
func (d *DB) WordsLearnedInWeek(ctx context.Context, year, week int) ([]domain.Word, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT w.id, w.word, w.pinyin, w.meaning, w.created_at, r.learned_at
		FROM learning_records r JOIN words w ON w.id = r.word_id
		WHERE r.year = ? AND r.week = ?
		ORDER BY r.learned_at DESC
	`, year, week)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		w, err := scanWord(rows)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

// WeekCount counts learning records in one ISO week.
func (d *DB) WeekCount(ctx context.Context, year, week int) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM learning_records WHERE year = ? AND week = ?`,
		year, week).Scan(&count)
	return count, err
}

// DeleteLearningRecords clears all learning history. Part of the explicit
// "reset progress" action.
func (d *DB) DeleteLearningRecords(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM learning_records`)
	return err
}

func scanWord(row rowScanner) (domain.Word, error) {
	var (
		w         domain.Word
		createdAt int64
		learnedAt sql.NullInt64
	)
	if err := row.Scan(&w.ID, &w.Word, &w.Pinyin, &w.Meaning, &createdAt, &learnedAt); err != nil {
		return domain.Word{}, err
	}
	w.CreatedAt = time.Unix(0, createdAt).UTC()
	if learnedAt.Valid {
		w.Learned = true
		t := time.Unix(0, learnedAt.Int64).UTC()
		w.LastReviewed = &t
	}
	return w, nil
}
