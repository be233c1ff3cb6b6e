package metrics

import (
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// Portfolio aggregates all savings goals of a user.
type Portfolio struct {
	TotalCollected    decimal.Decimal
	TotalTarget       decimal.Decimal
	AccomplishedCount int
	Goals             int
}

// GoalProgress returns current/target as a percentage clamped to [0, 100].
// Goals without a positive target have no progress.
func GoalProgress(g core.SavingsGoal) float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	pct := g.CurrentAmount.Div(g.TargetAmount).Mul(hundred).InexactFloat64()
	return core.Clamp(pct, 0, 100)
}

// Accomplished reports whether the goal is completed by status or by amount.
func Accomplished(g core.SavingsGoal) bool {
	return g.Status.IsCompleted() || g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// SavingsSummary folds the goals into portfolio totals.
func SavingsSummary(goals []core.SavingsGoal) Portfolio {
	p := Portfolio{TotalCollected: decimal.Zero, TotalTarget: decimal.Zero, Goals: len(goals)}
	for _, g := range goals {
		p.TotalCollected = p.TotalCollected.Add(g.CurrentAmount)
		p.TotalTarget = p.TotalTarget.Add(g.TargetAmount)
		if Accomplished(g) {
			p.AccomplishedCount++
		}
	}
	return p
}
