package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xingtu-app/xingtu/internal/domain"
)

// ─── Poem Handlers ──────────────────────────────────────────────────────────

type poemRequest struct {
	Title   string `json:"title"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// GET /api/poems
func (s *Server) handleListPoems(w http.ResponseWriter, r *http.Request) {
	poems, err := s.poems.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if poems == nil {
		poems = []domain.Poem{}
	}
	writeJSON(w, http.StatusOK, poems)
}

// POST /api/poems
func (s *Server) handleAddPoem(w http.ResponseWriter, r *http.Request) {
	var req poemRequest
	if err := decode(r, &req); err != nil || req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	poem, err := s.poems.Add(r.Context(), req.Title, req.Author, req.Content)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, poem)
}

// PUT /api/poems/{id}
func (s *Server) handleUpdatePoem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req poemRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	poem, err := s.poems.Update(r.Context(), domain.Poem{
		ID:      id,
		Title:   req.Title,
		Author:  req.Author,
		Content: req.Content,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poem)
}

// DELETE /api/poems/{id}
func (s *Server) handleDeletePoem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.poems.Remove(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleMemorizePoem marks a poem memorized and credits five stars.
// POST /api/poems/{id}/memorize {"idempotency_key": "..."}
func (s *Server) handleMemorizePoem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		IdempotencyKey string `json:"idempotency_key"`
	}
	decode(r, &req) // body is optional

	balance, err := s.poems.MarkMemorized(r.Context(), id, req.IdempotencyKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"stars": balance})
}

// ─── Task Handlers ──────────────────────────────────────────────────────────

type taskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	RewardStars int64  `json:"reward_stars"`
}

// GET /api/tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if tasks == nil {
		tasks = []domain.ChoreTask{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// POST /api/tasks
func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name and reward_stars are required")
		return
	}
	task, err := s.tasks.Add(r.Context(), req.Name, req.Description, req.RewardStars)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// PUT /api/tasks/{id}
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req taskRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	task, err := s.tasks.Update(r.Context(), domain.ChoreTask{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		RewardStars: req.RewardStars,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DELETE /api/tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.tasks.Remove(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleCompleteTask records a completion and credits the task's reward.
// POST /api/tasks/{id}/complete {"idempotency_key": "..."}
func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		IdempotencyKey string `json:"idempotency_key"`
	}
	decode(r, &req) // body is optional

	comp, balance, err := s.tasks.Complete(r.Context(), id, req.IdempotencyKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"completion": comp,
		"stars":      balance,
	})
}

// GET /api/tasks/{id}/completions
func (s *Server) handleTaskCompletions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	comps, err := s.tasks.Completions(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if comps == nil {
		comps = []domain.TaskCompletion{}
	}
	writeJSON(w, http.StatusOK, comps)
}

// ─── Travel Handlers ────────────────────────────────────────────────────────

type planRequest struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
	BudgetYuan  int64  `json:"budget_yuan"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

// GET /api/travel-plans
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.travel.ListPlans(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if plans == nil {
		plans = []domain.TravelPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// POST /api/travel-plans
func (s *Server) handleAddPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decode(r, &req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	plan, err := s.travel.AddPlan(r.Context(), domain.TravelPlan{
		Name:        req.Name,
		Destination: req.Destination,
		BudgetYuan:  req.BudgetYuan,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// PUT /api/travel-plans/{id}
func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	plan, err := s.travel.UpdatePlan(r.Context(), domain.TravelPlan{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Destination: req.Destination,
		BudgetYuan:  req.BudgetYuan,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// DELETE /api/travel-plans/{id}
func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.travel.RemovePlan(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /api/travel-plans/{id}/footprints
func (s *Server) handleListFootprints(w http.ResponseWriter, r *http.Request) {
	fps, err := s.travel.Footprints(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if fps == nil {
		fps = []domain.TravelFootprint{}
	}
	writeJSON(w, http.StatusOK, fps)
}

// handleLogFootprint logs a stop and credits one star per yuan spent.
// POST /api/travel-plans/{id}/footprints {"place": "...", "expense_yuan": N}
func (s *Server) handleLogFootprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Place          string `json:"place"`
		ExpenseYuan    int64  `json:"expense_yuan"`
		IdempotencyKey string `json:"idempotency_key"`
	}
	if err := decode(r, &req); err != nil || req.Place == "" {
		writeError(w, http.StatusBadRequest, "place and expense_yuan are required")
		return
	}

	fp, balance, err := s.travel.LogFootprint(r.Context(), chi.URLParam(r, "id"), req.Place, req.ExpenseYuan, req.IdempotencyKey)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"footprint": fp,
		"stars":     balance,
	})
}
