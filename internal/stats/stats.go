// Package stats projects ledger entries into per-day earning aggregates for
// the dashboard. It is read-only: nothing here mutates the ledger.
package stats

import (
	"sort"
	"time"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// DayStats is one calendar day's earned stars, split by source.
// Redemption debits are excluded: this view answers "how many stars did I
// earn, broken down by source", not net movement.
type DayStats struct {
	Date       string `json:"date"` // YYYY-MM-DD in the grouping location
	Characters int64  `json:"characters"`
	Poems      int64  `json:"poems"`
	Travel     int64  `json:"travel"`
	Tasks      int64  `json:"tasks"`
	Total      int64  `json:"total"`
}

// Daily groups entries by calendar day in loc, oldest day first.
// Days with no credited entries are omitted, so a day that only saw a
// redemption does not appear at all; callers slicing the most-recent-N days
// should use LastN.
func Daily(entries []domain.LedgerEntry, loc *time.Location) []DayStats {
	if loc == nil {
		loc = time.Local
	}

	byDay := make(map[string]*DayStats)
	for _, e := range entries {
		if !e.Credit() {
			continue
		}
		day := e.Timestamp.In(loc).Format(time.DateOnly)
		ds, ok := byDay[day]
		if !ok {
			ds = &DayStats{Date: day}
			byDay[day] = ds
		}
		switch e.Category {
		case domain.CategoryCharacter:
			ds.Characters += e.Amount
		case domain.CategoryPoem:
			ds.Poems += e.Amount
		case domain.CategoryTravel:
			ds.Travel += e.Amount
		case domain.CategoryTask:
			ds.Tasks += e.Amount
		}
		ds.Total += e.Amount
	}

	days := make([]DayStats, 0, len(byDay))
	for _, ds := range byDay {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

// LastN returns the most recent n day aggregates (still oldest first).
func LastN(days []DayStats, n int) []DayStats {
	if n <= 0 || len(days) <= n {
		return days
	}
	return days[len(days)-n:]
}
