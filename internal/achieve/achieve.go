// Package achieve evaluates achievement tiers. The evaluator is a pure
// function of the current star balance and a static ordered tier table — no
// state, no side effects.
package achieve

import "github.com/xingtu-app/xingtu/internal/domain"

// Standing is the result of evaluating a balance against a tier table.
type Standing struct {
	Balance int64                   `json:"balance"`
	Current *domain.AchievementTier `json:"current,omitempty"` // highest unlocked tier, nil below the first threshold
	Next    *domain.AchievementTier `json:"next,omitempty"`    // first unreached tier, nil at the top
	// Progress toward Next as a fraction in [0, 1]; 1 when every tier is
	// unlocked.
	Progress float64 `json:"progress"`
}

// Evaluate returns the highest tier whose threshold <= balance, the next
// unreached tier, and the progress toward it. tiers must be ordered by
// ascending threshold.
func Evaluate(balance int64, tiers []domain.AchievementTier) Standing {
	s := Standing{Balance: balance, Progress: 1}
	for i := range tiers {
		if tiers[i].Threshold <= balance {
			s.Current = &tiers[i]
			continue
		}
		s.Next = &tiers[i]
		s.Progress = float64(balance) / float64(tiers[i].Threshold)
		if s.Progress > 1 {
			s.Progress = 1
		}
		break
	}
	return s
}

// Unlocked returns, for each tier, whether the balance has reached it.
// Order follows the tier table.
func Unlocked(balance int64, tiers []domain.AchievementTier) []bool {
	out := make([]bool, len(tiers))
	for i, t := range tiers {
		out[i] = t.Threshold <= balance
	}
	return out
}

// DefaultTiers is the tier table shipped with the app. The zero-threshold
// starter tier means a fresh ledger still has a named standing.
func DefaultTiers() []domain.AchievementTier {
	return []domain.AchievementTier{
		{Threshold: 0, Title: "新手", Description: "开始学习之旅", Icon: "🔰"},
		{Threshold: 1, Title: "初学者", Description: "学会第1个汉字", Icon: "🌟"},
		{Threshold: 50, Title: "勤奋宝贝", Description: "学会50个汉字", Icon: "🏅"},
		{Threshold: 100, Title: "识字小能手", Description: "学会100个汉字", Icon: "🏆"},
		{Threshold: 300, Title: "汉字大师", Description: "学会300个汉字", Icon: "👑"},
		{Threshold: 600, Title: "超级学霸", Description: "学会600个汉字", Icon: "✨"},
		{Threshold: 1000, Title: "识字王者", Description: "学会1000个汉字", Icon: "⚡"},
		{Threshold: 1500, Title: "终极目标", Description: "学会1500个汉字", Icon: "🎯"},
	}
}
