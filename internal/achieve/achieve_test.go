package achieve

import (
	"math"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tiers := DefaultTiers()

	tests := []struct {
		balance      int64
		wantCurrent  string
		wantNext     string
		wantProgress float64
	}{
		{0, "新手", "初学者", 0},
		{1, "初学者", "勤奋宝贝", 1.0 / 50},
		{49, "初学者", "勤奋宝贝", 49.0 / 50},
		{50, "勤奋宝贝", "识字小能手", 0.5},
		{299, "识字小能手", "汉字大师", 299.0 / 300},
		{300, "汉字大师", "超级学霸", 0.5},
		{1000, "识字王者", "终极目标", 1000.0 / 1500},
		{1500, "终极目标", "", 1},
		{9999, "终极目标", "", 1},
	}

	for _, tt := range tests {
		s := Evaluate(tt.balance, tiers)

		if s.Balance != tt.balance {
			t.Errorf("balance %d: Standing.Balance = %d", tt.balance, s.Balance)
		}
		if s.Current == nil {
			t.Errorf("balance %d: Current is nil, want %q", tt.balance, tt.wantCurrent)
			continue
		}
		if s.Current.Title != tt.wantCurrent {
			t.Errorf("balance %d: Current = %q, want %q", tt.balance, s.Current.Title, tt.wantCurrent)
		}
		if tt.wantNext == "" {
			if s.Next != nil {
				t.Errorf("balance %d: Next = %q, want nil", tt.balance, s.Next.Title)
			}
		} else if s.Next == nil || s.Next.Title != tt.wantNext {
			t.Errorf("balance %d: Next = %v, want %q", tt.balance, s.Next, tt.wantNext)
		}
		if math.Abs(s.Progress-tt.wantProgress) > 1e-9 {
			t.Errorf("balance %d: Progress = %v, want %v", tt.balance, s.Progress, tt.wantProgress)
		}
	}
}

func TestEvaluateEmptyTiers(t *testing.T) {
	s := Evaluate(42, nil)
	if s.Current != nil || s.Next != nil {
		t.Errorf("empty table should yield no tiers, got %+v", s)
	}
	if s.Progress != 1 {
		t.Errorf("Progress = %v, want 1", s.Progress)
	}
}

func TestUnlocked(t *testing.T) {
	tiers := DefaultTiers()

	got := Unlocked(100, tiers)
	want := []bool{true, true, true, true, false, false, false, false}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Unlocked(100)[%d] = %v, want %v (%s)", i, got[i], want[i], tiers[i].Title)
		}
	}
}

func TestDefaultTiersOrdered(t *testing.T) {
	tiers := DefaultTiers()
	for i := 1; i < len(tiers); i++ {
		if tiers[i].Threshold <= tiers[i-1].Threshold {
			t.Errorf("tier %q at index %d breaks ascending threshold order", tiers[i].Title, i)
		}
	}
	if tiers[len(tiers)-1].Threshold != 1500 {
		t.Errorf("top threshold = %d, want 1500", tiers[len(tiers)-1].Threshold)
	}
}
