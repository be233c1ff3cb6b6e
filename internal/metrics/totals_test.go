package metrics

import (
	"testing"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

func tx(amount string, kind string) core.Transaction {
	return core.Transaction{Amount: decimal.RequireFromString(amount), TransactionType: kind}
}

func budget(amount string) core.Budget {
	return core.Budget{Amount: decimal.RequireFromString(amount)}
}

func eq(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", field, got, want)
	}
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name    string
		txs     []core.Transaction
		budgets []core.Budget
		income  string
		expense string
		budget  string
		net     string
	}{
		{
			name:    "sign rule",
			txs:     []core.Transaction{tx("100", ""), tx("-40", "")},
			budgets: []core.Budget{budget("50")},
			income:  "100", expense: "40", budget: "50", net: "60",
		},
		{
			name:   "type is ignored",
			txs:    []core.Transaction{tx("-25", "Income"), tx("10", "Expense")},
			income: "10", expense: "25", budget: "0", net: "-15",
		},
		{
			name:   "zero amounts count as neither",
			txs:    []core.Transaction{tx("0", "Income")},
			income: "0", expense: "0", budget: "0", net: "0",
		},
		{
			name:   "empty collections",
			income: "0", expense: "0", budget: "0", net: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totals(tt.txs, tt.budgets)
			eq(t, "Income", got.Income, tt.income)
			eq(t, "Expenses", got.Expenses, tt.expense)
			eq(t, "BudgetTotal", got.BudgetTotal, tt.budget)
			eq(t, "Net", got.Net, tt.net)
		})
	}
}

func TestTypeTotals(t *testing.T) {
	txs := []core.Transaction{
		tx("30", "INCOME"),
		tx("-80", "Expense"),
		tx("20", "groceries"),
		tx("5", " income "),
	}

	got := TypeTotals(txs)
	eq(t, "Income", got.Income, "35")
	eq(t, "Expenses", got.Expenses, "100")
	if got.Count != 4 || got.IncomeCount != 2 || got.ExpenseCount != 2 {
		t.Errorf("counts = %d/%d/%d, want 4/2/2", got.Count, got.IncomeCount, got.ExpenseCount)
	}
}

func TestSummarize(t *testing.T) {
	o := Summarize(
		[]core.Category{{ID: "1"}, {ID: "2"}},
		[]core.Budget{budget("10")},
		[]core.Transaction{tx("5", ""), tx("-1", ""), tx("2", "")},
	)
	if o.Categories != 2 || o.Budgets != 1 || o.Transactions != 3 {
		t.Errorf("Summarize() counts = %+v", o)
	}
	eq(t, "Net", o.Totals.Net, "6")
}
