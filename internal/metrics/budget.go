package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Usage is the consumption of one budget.
type Usage struct {
	BudgetID core.ID
	// Related is the number of transactions matched to the budget.
	Related  int
	Used     decimal.Decimal
	Received decimal.Decimal
	// NetUsage is Used minus Received, floored at zero.
	NetUsage  decimal.Decimal
	Remaining decimal.Decimal
	// Overspent is how far NetUsage exceeds the budget amount, or zero.
	Overspent          decimal.Decimal
	UsedPercent        float64
	TimeElapsedPercent float64
}

// Share is the part of the budget total held by one budget.
type Share struct {
	BudgetID core.ID
	Name     string
	Amount   decimal.Decimal
	Percent  float64
}

// Related reports whether tx counts against b. Both category references
// must be set and equal. When the budget has both bounds, a dated
// transaction must fall inside them by calendar day; undated transactions
// are kept. A dated transaction is dropped if its date or either bound
// does not parse.
func Related(b core.Budget, tx core.Transaction) bool {
	if !core.SameRef(tx.CategoryID, b.CategoryID) {
		return false
	}
	if b.StartDate.IsEmpty() || b.EndDate.IsEmpty() {
		return true
	}
	if tx.TransactionDate.IsEmpty() {
		return true
	}
	return tx.TransactionDate.Within(b.StartDate, b.EndDate)
}

// BudgetUsage computes how much of b has been consumed by txs as of now.
func BudgetUsage(b core.Budget, txs []core.Transaction, now time.Time) Usage {
	u := Usage{
		BudgetID: b.ID,
		Used:     decimal.Zero,
		Received: decimal.Zero,
	}
	for _, tx := range txs {
		if !Related(b, tx) {
			continue
		}
		u.Related++
		if tx.IsIncome() {
			u.Received = u.Received.Add(tx.Amount)
		} else {
			u.Used = u.Used.Add(tx.Amount.Abs())
		}
	}

	u.NetUsage = decimal.Max(decimal.Zero, u.Used.Sub(u.Received))
	u.Remaining = decimal.Max(decimal.Zero, b.Amount.Sub(u.NetUsage))
	u.Overspent = decimal.Max(decimal.Zero, u.NetUsage.Sub(b.Amount))
	if b.Amount.IsPositive() {
		pct := u.NetUsage.Div(b.Amount).Mul(hundred).InexactFloat64()
		u.UsedPercent = core.Clamp(pct, 0, 100)
	}
	u.TimeElapsedPercent = TimeElapsed(b.StartDate, b.EndDate, now)
	return u
}

// TimeElapsed returns the share of [start, end] already behind now, as a
// percentage. It is zero unless both dates are valid and end is after start.
func TimeElapsed(start, end core.Date, now time.Time) float64 {
	if !start.Valid() || !end.Valid() || !end.Time.After(start.Time) {
		return 0
	}
	span := end.Time.Sub(start.Time)
	gone := now.Sub(start.Time)
	return core.Clamp(float64(gone)/float64(span), 0, 1) * 100
}

// BudgetUsages computes the usage of every budget, preserving order.
func BudgetUsages(budgets []core.Budget, txs []core.Transaction, now time.Time) []Usage {
	out := make([]Usage, len(budgets))
	for i, b := range budgets {
		out[i] = BudgetUsage(b, txs, now)
	}
	return out
}

// BudgetShares splits the budget total across budgets. An all-zero total
// yields zero percentages.
func BudgetShares(budgets []core.Budget) []Share {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Amount)
	}
	out := make([]Share, len(budgets))
	for i, b := range budgets {
		out[i] = Share{BudgetID: b.ID, Name: b.Name, Amount: b.Amount}
		if !total.IsZero() {
			out[i].Percent = b.Amount.Div(total).Mul(hundred).InexactFloat64()
		}
	}
	return out
}
