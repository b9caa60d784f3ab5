package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// ─── Word Handlers ──────────────────────────────────────────────────────────

type wordRequest struct {
	Word    string `json:"word"`
	Pinyin  string `json:"pinyin"`
	Meaning string `json:"meaning"`
}

// handleListWords returns all flashcards.
// GET /api/words
func (s *Server) handleListWords(w http.ResponseWriter, r *http.Request) {
	words, err := s.words.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if words == nil {
		words = []domain.Word{}
	}
	writeJSON(w, http.StatusOK, words)
}

// handleAddWord creates a flashcard.
// POST /api/words
func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request) {
	var req wordRequest
	if err := decode(r, &req); err != nil || req.Word == "" || req.Pinyin == "" || req.Meaning == "" {
		writeError(w, http.StatusBadRequest, "word, pinyin and meaning are required")
		return
	}
	word, err := s.words.Add(r.Context(), req.Word, req.Pinyin, req.Meaning)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, word)
}

// handleUpdateWord edits a flashcard.
// PUT /api/words/{id}
func (s *Server) handleUpdateWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req wordRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	word, err := s.words.Update(r.Context(), domain.Word{
		ID:      id,
		Word:    req.Word,
		Pinyin:  req.Pinyin,
		Meaning: req.Meaning,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

// handleDeleteWord removes a flashcard. Earned stars stay on the ledger.
// DELETE /api/words/{id}
func (s *Server) handleDeleteWord(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.words.Remove(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleLearn marks a word learned and credits a star. The optional
// idempotency_key guards against double-credit from a retried request.
// POST /api/learn/{id} {"idempotency_key": "..."}
func (s *Server) handleLearn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		IdempotencyKey string `json:"idempotency_key"`
	}
	decode(r, &req) // body is optional

	rec, balance, err := s.words.MarkLearned(r.Context(), id, req.IdempotencyKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stars": balance,
		"year":  rec.Year,
		"week":  rec.Week,
	})
}

// ─── Weekly Stats Handlers ──────────────────────────────────────────────────

// handleWeeklyStats returns per-week learning counts, most recent first.
// GET /api/weekly-stats
func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	weeks, err := s.words.WeeklyStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if weeks == nil {
		weeks = []domain.WeekStats{}
	}
	writeJSON(w, http.StatusOK, weeks)
}

// handleWeeklyWords lists the words learned in one ISO week.
// GET /api/weekly-words/{year}/{week}
func (s *Server) handleWeeklyWords(w http.ResponseWriter, r *http.Request) {
	year, err1 := strconv.Atoi(chi.URLParam(r, "year"))
	week, err2 := strconv.Atoi(chi.URLParam(r, "week"))
	if err1 != nil || err2 != nil || week < 1 || week > 53 {
		writeError(w, http.StatusBadRequest, "invalid year or week")
		return
	}

	wk, words, err := s.words.WeekDetail(r.Context(), year, week)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if words == nil {
		words = []domain.Word{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":       wk.Year,
		"week":       wk.Week,
		"count":      len(words),
		"start_date": wk.StartDate.Format(time.DateOnly),
		"end_date":   wk.EndDate.Format(time.DateOnly),
		"words":      words,
	})
}

// handleCurrentWeek returns the running week's stats.
// GET /api/current-week
func (s *Server) handleCurrentWeek(w http.ResponseWriter, r *http.Request) {
	wk, err := s.words.CurrentWeek(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":       wk.Year,
		"week":       wk.Week,
		"count":      wk.Count,
		"start_date": wk.StartDate.Format(time.DateOnly),
		"end_date":   wk.EndDate.Format(time.DateOnly),
	})
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
