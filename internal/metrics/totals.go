// Package metrics computes derived figures over normalized collections.
// Nothing here is stored: every value is recomputed from the current
// entity sets and an explicit clock.
package metrics

import (
	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// OverviewTotals are the quick totals of the overview page. They classify
// transactions by the sign of the amount.
type OverviewTotals struct {
	Income      decimal.Decimal
	Expenses    decimal.Decimal
	BudgetTotal decimal.Decimal
	Net         decimal.Decimal
}

// ActivityTotals are the totals of the transaction list. They classify
// transactions by type: "income" (case-insensitive) is income, anything
// else is an expense counted by absolute amount.
type ActivityTotals struct {
	Income       decimal.Decimal
	Expenses     decimal.Decimal
	Count        int
	IncomeCount  int
	ExpenseCount int
}

// Overview bundles the sign-based totals with collection sizes.
type Overview struct {
	Totals       OverviewTotals
	Categories   int
	Budgets      int
	Transactions int
}

// Totals sums strictly positive amounts as income and the absolute value of
// strictly negative amounts as expenses. Zero amounts count as neither.
func Totals(txs []core.Transaction, budgets []core.Budget) OverviewTotals {
	t := OverviewTotals{
		Income:      decimal.Zero,
		Expenses:    decimal.Zero,
		BudgetTotal: decimal.Zero,
	}
	for _, tx := range txs {
		switch tx.Amount.Sign() {
		case 1:
			t.Income = t.Income.Add(tx.Amount)
		case -1:
			t.Expenses = t.Expenses.Add(tx.Amount.Abs())
		}
	}
	for _, b := range budgets {
		t.BudgetTotal = t.BudgetTotal.Add(b.Amount)
	}
	t.Net = t.Income.Sub(t.Expenses)
	return t
}

// TypeTotals applies the type rule over txs.
func TypeTotals(txs []core.Transaction) ActivityTotals {
	t := ActivityTotals{Income: decimal.Zero, Expenses: decimal.Zero, Count: len(txs)}
	for _, tx := range txs {
		if tx.IsIncome() {
			t.Income = t.Income.Add(tx.Amount)
			t.IncomeCount++
			continue
		}
		t.Expenses = t.Expenses.Add(tx.Amount.Abs())
		t.ExpenseCount++
	}
	return t
}

// Summarize builds the overview for the given collections.
func Summarize(categories []core.Category, budgets []core.Budget, txs []core.Transaction) Overview {
	return Overview{
		Totals:       Totals(txs, budgets),
		Categories:   len(categories),
		Budgets:      len(budgets),
		Transactions: len(txs),
	}
}
