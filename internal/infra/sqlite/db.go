// Package sqlite is the persistence layer. One SQLite database holds the
// append-only star ledger, the reward catalog, redemptions, and the activity
// records (words, poems, tasks, travel) that trigger credits.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle. All store interfaces from internal/domain are
// implemented on this type.
type DB struct {
	db *sql.DB
}

// Open opens (creating if missing) the database at <dir>/xingtu.db and runs
// all migrations.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, "xingtu.db")

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	for _, pragma := range []string{
		`PRAGMA journal_mode = WAL`,
		`PRAGMA foreign_keys = ON`,
		`PRAGMA busy_timeout = 5000`,
	} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}

	db := &DB{db: sqlDB}
	if err := db.migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error { return d.db.Close() }

// migrate runs every schema statement. Each string is a single SQL statement
// (SQLite executes one at a time); all are idempotent.
func (d *DB) migrate() error {
	for _, stmt := range migrations() {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func migrations() []string {
	return []string{
		// Star ledger — append-only; timestamps are unix nanoseconds so
		// chronological ordering is a plain integer sort.
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			amount          INTEGER NOT NULL,
			category        TEXT NOT NULL,
			source_ref      TEXT NOT NULL DEFAULT '',
			idempotency_key TEXT,
			ts              INTEGER NOT NULL,
			note            TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_ts ON ledger_entries(ts)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_ledger_idem
			ON ledger_entries(category, idempotency_key)
			WHERE idempotency_key IS NOT NULL`,

		// Reward catalog
		`CREATE TABLE IF NOT EXISTS reward_items (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			icon        TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			cost_stars  INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		)`,

		// Redemptions carry their own snapshot of the item so catalog edits
		// and deletes never rewrite history.
		`CREATE TABLE IF NOT EXISTS redemptions (
			id          TEXT PRIMARY KEY,
			item_id     TEXT NOT NULL,
			item_name   TEXT NOT NULL,
			item_icon   TEXT NOT NULL DEFAULT '',
			stars_spent INTEGER NOT NULL,
			redeemed_at INTEGER NOT NULL,
			status      TEXT NOT NULL DEFAULT 'completed',
			notes       TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_item ON redemptions(item_id)`,

		// Character flashcards and learning records
		`CREATE TABLE IF NOT EXISTS words (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			word       TEXT NOT NULL,
			pinyin     TEXT NOT NULL,
			meaning    TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning_records (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			word_id    INTEGER NOT NULL,
			learned_at INTEGER NOT NULL,
			year       INTEGER NOT NULL,
			week       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_learning_word ON learning_records(word_id)`,
		`CREATE INDEX IF NOT EXISTS idx_learning_week ON learning_records(year, week)`,

		// Poems
		`CREATE TABLE IF NOT EXISTS poems (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			title        TEXT NOT NULL,
			author       TEXT NOT NULL DEFAULT '',
			content      TEXT NOT NULL DEFAULT '',
			created_at   INTEGER NOT NULL,
			memorized    INTEGER NOT NULL DEFAULT 0,
			memorized_at INTEGER
		)`,

		// Daily tasks and their completions
		`CREATE TABLE IF NOT EXISTS chore_tasks (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			name         TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			reward_stars INTEGER NOT NULL,
			created_at   INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS task_completions (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			task_id      INTEGER NOT NULL,
			completed_at INTEGER NOT NULL,
			stars_earned INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_completions_task ON task_completions(task_id)`,

		// Travel plans and footprints
		`CREATE TABLE IF NOT EXISTS travel_plans (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			destination TEXT NOT NULL DEFAULT '',
			budget_yuan INTEGER NOT NULL DEFAULT 0,
			start_date  TEXT NOT NULL DEFAULT '',
			end_date    TEXT NOT NULL DEFAULT '',
			created_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS travel_footprints (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			plan_id      TEXT NOT NULL,
			place        TEXT NOT NULL,
			expense_yuan INTEGER NOT NULL,
			stars_earned INTEGER NOT NULL,
			logged_at    INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_footprints_plan ON travel_footprints(plan_id)`,
	}
}

// withTx runs fn inside a transaction, rolling back on error.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
