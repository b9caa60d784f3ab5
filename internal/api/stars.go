package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xingtu-app/xingtu/internal/achieve"
	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/stats"
)

// ─── Star Ledger Handlers ───────────────────────────────────────────────────

// handleGetStars returns the current balance.
// GET /api/stars
func (s *Server) handleGetStars(w http.ResponseWriter, r *http.Request) {
	bal, err := s.ledger.Balance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"stars": bal})
}

// handleResetStars clears the ledger and the learning history. Destructive,
// so the request body must carry an explicit confirmation.
// POST /api/stars/reset {"confirm": true}
func (s *Server) handleResetStars(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := decode(r, &req); err != nil || !req.Confirm {
		writeDomainError(w, domain.ErrConfirmationRequired)
		return
	}

	if err := s.ledger.ResetAll(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := s.words.ResetProgress(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"stars": 0})
}

// handleDailyStats returns per-day earned-star aggregates, oldest first.
// GET /api/stars/daily-stats?days=N (default 30)
func (s *Server) handleDailyStats(w http.ResponseWriter, r *http.Request) {
	entries, err := s.ledger.AllEntries(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}

	daily := stats.LastN(stats.Daily(entries, time.Local), days)
	if daily == nil {
		daily = []stats.DayStats{}
	}
	writeJSON(w, http.StatusOK, daily)
}

// handleEntries returns raw ledger entries in a time range, oldest first.
// GET /api/stars/entries?start=RFC3339&end=RFC3339
func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	start := time.Time{}
	end := time.Now().UTC().Add(time.Hour)
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start time")
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end time")
			return
		}
		end = t
	}

	entries, err := s.ledger.EntriesInRange(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if entries == nil {
		entries = []domain.LedgerEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// handleAchievements returns the current standing plus every tier with its
// unlocked status.
// GET /api/achievements
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	bal, err := s.ledger.Balance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	standing := achieve.Evaluate(bal, s.tiers)
	unlocked := achieve.Unlocked(bal, s.tiers)

	type tierResponse struct {
		domain.AchievementTier
		Unlocked bool `json:"unlocked"`
	}
	tiers := make([]tierResponse, len(s.tiers))
	for i, t := range s.tiers {
		tiers[i] = tierResponse{AchievementTier: t, Unlocked: unlocked[i]}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"standing": standing,
		"tiers":    tiers,
	})
}

// ─── Reward Catalog Handlers ────────────────────────────────────────────────

type itemRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
	CostStars   int64  `json:"cost_stars"`
}

// handleListItems returns the catalog with redemption counts.
// GET /api/reward-items
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListItems(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if items == nil {
		items = []domain.RewardItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// handleAddItem creates a reward item.
// POST /api/reward-items
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name and cost_stars are required")
		return
	}
	item, err := s.catalog.AddItem(r.Context(), req.Name, req.Icon, req.Description, req.CostStars)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// handleUpdateItem edits a reward item.
// PUT /api/reward-items/{id}
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name and cost_stars are required")
		return
	}
	item, err := s.catalog.UpdateItem(r.Context(), domain.RewardItem{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Icon:        req.Icon,
		Description: req.Description,
		CostStars:   req.CostStars,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// handleDeleteItem removes a reward item.
// DELETE /api/reward-items/{id}
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.RemoveItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListRedemptions returns the redemption history.
// GET /api/star-redemptions
func (s *Server) handleListRedemptions(w http.ResponseWriter, r *http.Request) {
	history, err := s.catalog.History(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if history == nil {
		history = []domain.Redemption{}
	}
	writeJSON(w, http.StatusOK, history)
}

// handleRedeem exchanges stars for a reward item.
// POST /api/star-redemptions {"item_id": "...", "notes": "..."}
func (s *Server) handleRedeem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemID string `json:"item_id"`
		Notes  string `json:"notes"`
	}
	if err := decode(r, &req); err != nil || req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	redemption, err := s.catalog.Redeem(r.Context(), req.ItemID, req.Notes)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	bal, err := s.ledger.Balance(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"redemption": redemption,
		"stars":      bal,
	})
}
