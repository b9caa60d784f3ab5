package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// ─── Ledger Store ───────────────────────────────────────────────────────────

var _ domain.LedgerStore = (*DB)(nil)

// AppendEntry writes one ledger entry and returns it with its assigned ID.
func (d *DB) AppendEntry(ctx context.Context, e domain.LedgerEntry) (domain.LedgerEntry, error) {
	res, err := d.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (amount, category, source_ref, idempotency_key, ts, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Amount, string(e.Category), e.SourceRef, nullIfEmpty(e.IdempotencyKey), e.Timestamp.UnixNano(), e.Note)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	e.ID, err = res.LastInsertId()
	return e, err
}

// FindByIdempotencyKey returns the entry written with the given category and
// key, or nil if no credit carried it yet.
func (d *DB) FindByIdempotencyKey(ctx context.Context, c domain.Category, key string) (*domain.LedgerEntry, error) {
	row := d.db.QueryRowContext(ctx, `
		SELECT id, amount, category, source_ref, idempotency_key, ts, note
		FROM ledger_entries WHERE category = ? AND idempotency_key = ?
	`, string(c), key)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Balance returns the sum of all entry amounts; 0 for an empty ledger.
func (d *DB) Balance(ctx context.Context) (int64, error) {
	var bal int64
	err := d.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM ledger_entries`).Scan(&bal)
	return bal, err
}

// EntriesInRange returns entries with start <= ts < end, oldest first.
func (d *DB) EntriesInRange(ctx context.Context, start, end time.Time) ([]domain.LedgerEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, amount, category, source_ref, idempotency_key, ts, note
		FROM ledger_entries WHERE ts >= ? AND ts < ? ORDER BY ts, id
	`, start.UnixNano(), end.UnixNano())
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// AllEntries returns every ledger entry, oldest first.
func (d *DB) AllEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, amount, category, source_ref, idempotency_key, ts, note
		FROM ledger_entries ORDER BY ts, id
	`)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// ResetAll deletes the entire ledger.
func (d *DB) ResetAll(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, `DELETE FROM ledger_entries`)
	return err
}

// ─── Row Helpers ────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.LedgerEntry, error) {
	var (
		e    domain.LedgerEntry
		cat  string
		idem sql.NullString
		ts   int64
	)
	if err := row.Scan(&e.ID, &e.Amount, &cat, &e.SourceRef, &idem, &ts, &e.Note); err != nil {
		return domain.LedgerEntry{}, err
	}
	e.Category = domain.Category(cat)
	e.IdempotencyKey = idem.String
	e.Timestamp = time.Unix(0, ts).UTC()
	return e, nil
}

func collectEntries(rows *sql.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()
	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
