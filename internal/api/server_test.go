package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/xingtu-app/xingtu/internal/achieve"
	"github.com/xingtu-app/xingtu/internal/activity"
	"github.com/xingtu-app/xingtu/internal/catalog"
	"github.com/xingtu-app/xingtu/internal/infra/sqlite"
	"github.com/xingtu-app/xingtu/internal/ledger"
)

// ─── API Tests ──────────────────────────────────────────────────────────────

func setupAPI(t *testing.T) http.Handler {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	l := ledger.New(db)
	srv := NewServer(
		l,
		catalog.New(db, l),
		activity.NewWords(db, l),
		activity.NewPoems(db, l),
		activity.NewTasks(db, l),
		activity.NewTravel(db, l),
		achieve.DefaultTiers(),
	)
	return srv.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp map[string]interface{}
	if len(w.Body.Bytes()) > 0 && w.Body.Bytes()[0] == '{' {
		json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func TestHealth(t *testing.T) {
	h := setupAPI(t)
	w, resp := doJSON(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestStarsStartAtZero(t *testing.T) {
	h := setupAPI(t)
	w, resp := doJSON(t, h, http.MethodGet, "/api/stars", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if resp["stars"] != float64(0) {
		t.Errorf("stars = %v, want 0", resp["stars"])
	}
}

func TestLearnFlow(t *testing.T) {
	h := setupAPI(t)

	w, resp := doJSON(t, h, http.MethodPost, "/api/words", map[string]string{
		"word": "星", "pinyin": "xīng", "meaning": "star",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add word: expected 201, got %d: %s", w.Code, w.Body)
	}
	id := int64(resp["id"].(float64))

	w, resp = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/learn/%d", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("learn: expected 200, got %d: %s", w.Code, w.Body)
	}
	if resp["stars"] != float64(1) {
		t.Errorf("stars = %v, want 1", resp["stars"])
	}

	// Unknown word
	w, _ = doJSON(t, h, http.MethodPost, "/api/learn/9999", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("learn missing word: expected 404, got %d", w.Code)
	}

	w, resp = doJSON(t, h, http.MethodGet, "/api/current-week", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("current-week: expected 200, got %d", w.Code)
	}
	if resp["count"] != float64(1) {
		t.Errorf("current week count = %v, want 1", resp["count"])
	}
}

func TestLearnIdempotencyKey(t *testing.T) {
	h := setupAPI(t)

	_, resp := doJSON(t, h, http.MethodPost, "/api/words", map[string]string{"word": "图"})
	id := int64(resp["id"].(float64))

	body := map[string]string{"idempotency_key": "tap-1"}
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/learn/%d", id), body)
	_, resp = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/learn/%d", id), body)
	if resp["stars"] != float64(1) {
		t.Errorf("stars = %v, want 1 after retried tap", resp["stars"])
	}
}

func TestRedeemFlow(t *testing.T) {
	h := setupAPI(t)

	// Earn 10 stars through a task.
	w, resp := doJSON(t, h, http.MethodPost, "/api/tasks", map[string]interface{}{
		"name": "read a book", "reward_stars": 10,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add task: expected 201, got %d: %s", w.Code, w.Body)
	}
	taskID := int64(resp["id"].(float64))

	w, resp = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/tasks/%d/complete", taskID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d: %s", w.Code, w.Body)
	}
	if resp["stars"] != float64(10) {
		t.Errorf("stars = %v, want 10", resp["stars"])
	}

	// Add an affordable item and redeem it.
	w, resp = doJSON(t, h, http.MethodPost, "/api/reward-items", map[string]interface{}{
		"name": "ice cream", "icon": "🍦", "cost_stars": 6,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add item: expected 201, got %d: %s", w.Code, w.Body)
	}
	itemID := resp["id"].(string)

	w, resp = doJSON(t, h, http.MethodPost, "/api/star-redemptions", map[string]string{
		"item_id": itemID, "notes": "after dinner",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("redeem: expected 201, got %d: %s", w.Code, w.Body)
	}
	if resp["stars"] != float64(4) {
		t.Errorf("stars = %v, want 4", resp["stars"])
	}

	// A second redemption cannot be afforded.
	w, resp = doJSON(t, h, http.MethodPost, "/api/star-redemptions", map[string]string{
		"item_id": itemID,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body)
	}
	if resp["balance"] != float64(4) || resp["required"] != float64(6) || resp["shortfall"] != float64(2) {
		t.Errorf("conflict body = %v, want balance 4 required 6 shortfall 2", resp)
	}

	// Missing item is 404.
	w, _ = doJSON(t, h, http.MethodPost, "/api/star-redemptions", map[string]string{
		"item_id": "no-such-item",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestRewardItemValidation(t *testing.T) {
	h := setupAPI(t)

	w, _ := doJSON(t, h, http.MethodPost, "/api/reward-items", map[string]interface{}{
		"name": "freebie", "cost_stars": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero cost: expected 400, got %d", w.Code)
	}

	w, _ = doJSON(t, h, http.MethodPost, "/api/reward-items", map[string]interface{}{
		"cost_stars": 5,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing name: expected 400, got %d", w.Code)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	h := setupAPI(t)

	_, resp := doJSON(t, h, http.MethodPost, "/api/words", map[string]string{"word": "星"})
	id := int64(resp["id"].(float64))
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/learn/%d", id), nil)

	w, _ := doJSON(t, h, http.MethodPost, "/api/stars/reset", map[string]bool{"confirm": false})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed reset: expected 400, got %d", w.Code)
	}
	_, resp = doJSON(t, h, http.MethodGet, "/api/stars", nil)
	if resp["stars"] != float64(1) {
		t.Errorf("stars = %v, want 1 (reset refused)", resp["stars"])
	}

	w, resp = doJSON(t, h, http.MethodPost, "/api/stars/reset", map[string]bool{"confirm": true})
	if w.Code != http.StatusOK {
		t.Fatalf("confirmed reset: expected 200, got %d", w.Code)
	}
	if resp["stars"] != float64(0) {
		t.Errorf("stars = %v, want 0", resp["stars"])
	}
}

func TestAchievements(t *testing.T) {
	h := setupAPI(t)

	_, resp := doJSON(t, h, http.MethodPost, "/api/words", map[string]string{"word": "星"})
	id := int64(resp["id"].(float64))
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/learn/%d", id), nil)

	w, resp := doJSON(t, h, http.MethodGet, "/api/achievements", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	standing := resp["standing"].(map[string]interface{})
	current := standing["current"].(map[string]interface{})
	if current["title"] != "初学者" {
		t.Errorf("current tier = %v, want 初学者 at 1 star", current["title"])
	}
	if standing["progress"] != float64(1)/50 {
		t.Errorf("progress = %v, want 0.02", standing["progress"])
	}

	tiers := resp["tiers"].([]interface{})
	if len(tiers) != 8 {
		t.Fatalf("len(tiers) = %d, want 8", len(tiers))
	}
	first := tiers[0].(map[string]interface{})
	if first["unlocked"] != true {
		t.Errorf("zero-threshold tier should be unlocked")
	}
	last := tiers[len(tiers)-1].(map[string]interface{})
	if last["unlocked"] != false {
		t.Errorf("top tier should be locked at 1 star")
	}
}

func TestDailyStats(t *testing.T) {
	h := setupAPI(t)

	_, resp := doJSON(t, h, http.MethodPost, "/api/words", map[string]string{"word": "星"})
	id := int64(resp["id"].(float64))
	doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/learn/%d", id), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/stars/daily-stats?days=7", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var days []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &days); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("len(days) = %d, want 1", len(days))
	}
	if days[0]["characters"] != float64(1) || days[0]["total"] != float64(1) {
		t.Errorf("days[0] = %v, want characters 1 total 1", days[0])
	}
}

func TestPoemMemorize(t *testing.T) {
	h := setupAPI(t)

	w, resp := doJSON(t, h, http.MethodPost, "/api/poems", map[string]string{
		"title": "静夜思", "author": "李白",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add poem: expected 201, got %d: %s", w.Code, w.Body)
	}
	id := int64(resp["id"].(float64))

	w, resp = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/poems/%d/memorize", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("memorize: expected 200, got %d: %s", w.Code, w.Body)
	}
	if resp["stars"] != float64(5) {
		t.Errorf("stars = %v, want 5", resp["stars"])
	}
}

func TestTravelFootprint(t *testing.T) {
	h := setupAPI(t)

	w, resp := doJSON(t, h, http.MethodPost, "/api/travel-plans", map[string]interface{}{
		"name": "chengdu trip", "destination": "成都", "budget_yuan": 2000,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add plan: expected 201, got %d: %s", w.Code, w.Body)
	}
	planID := resp["id"].(string)

	w, resp = doJSON(t, h, http.MethodPost, "/api/travel-plans/"+planID+"/footprints", map[string]interface{}{
		"place": "熊猫基地", "expense_yuan": 55,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("footprint: expected 201, got %d: %s", w.Code, w.Body)
	}
	if resp["stars"] != float64(55) {
		t.Errorf("stars = %v, want 55", resp["stars"])
	}

	w, _ = doJSON(t, h, http.MethodPost, "/api/travel-plans/"+planID+"/footprints", map[string]interface{}{
		"place": "free walk", "expense_yuan": 0,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("zero expense: expected 400, got %d", w.Code)
	}
}

func TestWeeklyWordsBadParams(t *testing.T) {
	h := setupAPI(t)

	w, _ := doJSON(t, h, http.MethodGet, "/api/weekly-words/2026/99", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("week 99: expected 400, got %d", w.Code)
	}
	w, _ = doJSON(t, h, http.MethodGet, "/api/weekly-words/abc/1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad year: expected 400, got %d", w.Code)
	}
}
