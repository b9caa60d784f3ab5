// Package api provides the HTTP server consumed by the single-page app.
// Every route follows the same shape the UI expects: fetch a list, submit a
// form, refresh.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xingtu-app/xingtu/internal/activity"
	"github.com/xingtu-app/xingtu/internal/catalog"
	"github.com/xingtu-app/xingtu/internal/domain"
	"github.com/xingtu-app/xingtu/internal/infra/observability"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// Server is the XingTu HTTP API server.
type Server struct {
	ledger  *ledger.Ledger
	catalog *catalog.Catalog
	words   *activity.Words
	poems   *activity.Poems
	tasks   *activity.Tasks
	travel  *activity.Travel
	tiers   []domain.AchievementTier

	metricsEnabled bool
}

// NewServer wires the services behind the REST surface.
func NewServer(l *ledger.Ledger, c *catalog.Catalog, words *activity.Words, poems *activity.Poems, tasks *activity.Tasks, travel *activity.Travel, tiers []domain.AchievementTier) *Server {
	return &Server{
		ledger:  l,
		catalog: c,
		words:   words,
		poems:   poems,
		tasks:   tasks,
		travel:  travel,
		tiers:   tiers,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)
	r.Use(requestMetrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	r.Route("/api", func(r chi.Router) {
		// Star ledger
		r.Get("/stars", s.handleGetStars)
		r.Post("/stars/reset", s.handleResetStars)
		r.Get("/stars/daily-stats", s.handleDailyStats)
		r.Get("/stars/entries", s.handleEntries)

		// Achievements
		r.Get("/achievements", s.handleAchievements)

		// Character flashcards
		r.Get("/words", s.handleListWords)
		r.Post("/words", s.handleAddWord)
		r.Put("/words/{id}", s.handleUpdateWord)
		r.Delete("/words/{id}", s.handleDeleteWord)
		r.Post("/learn/{id}", s.handleLearn)
		r.Get("/weekly-stats", s.handleWeeklyStats)
		r.Get("/weekly-words/{year}/{week}", s.handleWeeklyWords)
		r.Get("/current-week", s.handleCurrentWeek)

		// Poems
		r.Get("/poems", s.handleListPoems)
		r.Post("/poems", s.handleAddPoem)
		r.Put("/poems/{id}", s.handleUpdatePoem)
		r.Delete("/poems/{id}", s.handleDeletePoem)
		r.Post("/poems/{id}/memorize", s.handleMemorizePoem)

		// Daily tasks
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleAddTask)
		r.Put("/tasks/{id}", s.handleUpdateTask)
		r.Delete("/tasks/{id}", s.handleDeleteTask)
		r.Post("/tasks/{id}/complete", s.handleCompleteTask)
		r.Get("/tasks/{id}/completions", s.handleTaskCompletions)

		// Travel
		r.Get("/travel-plans", s.handleListPlans)
		r.Post("/travel-plans", s.handleAddPlan)
		r.Put("/travel-plans/{id}", s.handleUpdatePlan)
		r.Delete("/travel-plans/{id}", s.handleDeletePlan)
		r.Get("/travel-plans/{id}/footprints", s.handleListFootprints)
		r.Post("/travel-plans/{id}/footprints", s.handleLogFootprint)

		// Reward catalog + redemptions
		r.Get("/reward-items", s.handleListItems)
		r.Post("/reward-items", s.handleAddItem)
		r.Put("/reward-items/{id}", s.handleUpdateItem)
		r.Delete("/reward-items/{id}", s.handleDeleteItem)
		r.Get("/star-redemptions", s.handleListRedemptions)
		r.Post("/star-redemptions", s.handleRedeem)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Response Helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": msg,
	})
}

// writeDomainError maps domain failures onto HTTP statuses. Insufficient
// balance carries the quantities the UI needs for its "need N more stars"
// message.
func writeDomainError(w http.ResponseWriter, err error) {
	if ib, ok := domain.IsInsufficientBalance(err); ok {
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":     "insufficient balance",
			"balance":   ib.Balance,
			"required":  ib.Required,
			"shortfall": ib.Shortfall(),
		})
		return
	}
	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrConfirmationRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// decode reads a JSON request body into v.
func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// ─── Middleware ─────────────────────────────────────────────────────────────

// corsMiddleware adds CORS headers for the SPA dev server.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestMetrics counts served requests by route pattern and status class.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		observability.RecordHTTP(route, ww.Status())
	})
}
