package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

func januaryFood() core.Budget {
	return core.Budget{
		ID:         "b1",
		Amount:     decimal.NewFromInt(200),
		CategoryID: core.Int64Ptr(1),
		StartDate:  core.NewDate(2024, 1, 1),
		EndDate:    core.NewDate(2024, 1, 31),
	}
}

func dated(category int64, amount, kind, date string) core.Transaction {
	t := tx(amount, kind)
	t.CategoryID = core.Int64Ptr(category)
	t.TransactionDate = core.ParseDate(date)
	return t
}

func TestBudgetUsage(t *testing.T) {
	now := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	txs := []core.Transaction{
		dated(1, "-80", "Expense", "2024-01-10"),
		dated(1, "30", "Income", "2024-01-15"),
	}

	u := BudgetUsage(januaryFood(), txs, now)

	eq(t, "Used", u.Used, "80")
	eq(t, "Received", u.Received, "30")
	eq(t, "NetUsage", u.NetUsage, "50")
	eq(t, "Remaining", u.Remaining, "150")
	eq(t, "Overspent", u.Overspent, "0")
	if u.UsedPercent != 25 {
		t.Errorf("UsedPercent = %v, want 25", u.UsedPercent)
	}
	if u.Related != 2 {
		t.Errorf("Related = %d, want 2", u.Related)
	}
	if got, want := u.TimeElapsedPercent, 50.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("TimeElapsedPercent = %v, want %v", got, want)
	}
}

func TestBudgetUsage_Matching(t *testing.T) {
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		budget core.Budget
		tx     core.Transaction
		want   bool
	}{
		{"inside window", januaryFood(), dated(1, "-10", "Expense", "2024-01-31"), true},
		{"first day with time", januaryFood(), dated(1, "-10", "Expense", "2024-01-01T18:30:00Z"), true},
		{"outside window", januaryFood(), dated(1, "-10", "Expense", "2024-02-01"), false},
		{"other category", januaryFood(), dated(2, "-10", "Expense", "2024-01-10"), false},
		{"undated is kept", januaryFood(), dated(1, "-10", "Expense", ""), true},
		{"unparseable is dropped", januaryFood(), dated(1, "-10", "Expense", "last tuesday"), false},
		{
			name:   "unbounded budget keeps unparseable",
			budget: core.Budget{Amount: decimal.NewFromInt(100), CategoryID: core.Int64Ptr(1), StartDate: core.NewDate(2024, 1, 1)},
			tx:     dated(1, "-10", "Expense", "last tuesday"),
			want:   true,
		},
		{
			name:   "garbled bound drops dated transactions",
			budget: func() core.Budget { b := januaryFood(); b.EndDate = core.ParseDate("soon"); return b }(),
			tx:     dated(1, "-10", "Expense", "2024-01-10"),
			want:   false,
		},
		{
			name:   "garbled bound keeps undated transactions",
			budget: func() core.Budget { b := januaryFood(); b.EndDate = core.ParseDate("soon"); return b }(),
			tx:     dated(1, "-10", "Expense", ""),
			want:   true,
		},
		{
			name:   "nil budget category never matches",
			budget: core.Budget{Amount: decimal.NewFromInt(100)},
			tx:     core.Transaction{Amount: decimal.NewFromInt(-10)},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Related(tt.budget, tt.tx); got != tt.want {
				t.Errorf("Related() = %v, want %v", got, tt.want)
			}
			u := BudgetUsage(tt.budget, []core.Transaction{tt.tx}, now)
			if (u.Related == 1) != tt.want {
				t.Errorf("BudgetUsage().Related = %d, want match %v", u.Related, tt.want)
			}
		})
	}
}

func TestBudgetUsage_Overspent(t *testing.T) {
	b := januaryFood()
	txs := []core.Transaction{dated(1, "-260", "Expense", "2024-01-05")}

	u := BudgetUsage(b, txs, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	eq(t, "Remaining", u.Remaining, "0")
	eq(t, "Overspent", u.Overspent, "60")
	if u.UsedPercent != 100 {
		t.Errorf("UsedPercent = %v, want 100 (clamped)", u.UsedPercent)
	}
	if u.TimeElapsedPercent != 100 {
		t.Errorf("TimeElapsedPercent = %v, want 100", u.TimeElapsedPercent)
	}
}

func TestBudgetUsage_IncomeExceedsSpending(t *testing.T) {
	txs := []core.Transaction{
		dated(1, "-20", "Expense", "2024-01-05"),
		dated(1, "50", "income", "2024-01-06"),
	}

	u := BudgetUsage(januaryFood(), txs, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	eq(t, "NetUsage", u.NetUsage, "0")
	eq(t, "Remaining", u.Remaining, "200")
	if u.UsedPercent != 0 {
		t.Errorf("UsedPercent = %v, want 0", u.UsedPercent)
	}
}

func TestBudgetUsage_ZeroAmount(t *testing.T) {
	b := januaryFood()
	b.Amount = decimal.Zero

	u := BudgetUsage(b, []core.Transaction{dated(1, "-5", "Expense", "2024-01-05")}, time.Now())

	if u.UsedPercent != 0 {
		t.Errorf("UsedPercent = %v, want 0", u.UsedPercent)
	}
	eq(t, "Overspent", u.Overspent, "5")
}

func TestTimeElapsed(t *testing.T) {
	start := core.NewDate(2024, 1, 1)
	end := core.NewDate(2024, 1, 11)

	tests := []struct {
		name       string
		start, end core.Date
		now        time.Time
		want       float64
	}{
		{"before start", start, end, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), 0},
		{"midway", start, end, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 50},
		{"after end", start, end, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 100},
		{"end before start", end, start, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 0},
		{"equal dates", start, start, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 0},
		{"missing end", start, core.Date{}, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 0},
		{"unparseable start", core.ParseDate("soon"), end, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeElapsed(tt.start, tt.end, tt.now); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TimeElapsed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBudgetUsages_PreservesOrder(t *testing.T) {
	a, b := januaryFood(), januaryFood()
	a.ID, b.ID = "a", "b"

	got := BudgetUsages([]core.Budget{a, b}, nil, time.Now())
	if len(got) != 2 || got[0].BudgetID != "a" || got[1].BudgetID != "b" {
		t.Errorf("BudgetUsages() = %+v", got)
	}
}

func TestBudgetShares(t *testing.T) {
	shares := BudgetShares([]core.Budget{budget("50"), budget("150")})
	if shares[0].Percent != 25 || shares[1].Percent != 75 {
		t.Errorf("BudgetShares() = %v/%v, want 25/75", shares[0].Percent, shares[1].Percent)
	}

	zero := BudgetShares([]core.Budget{budget("0")})
	if zero[0].Percent != 0 {
		t.Errorf("zero total share = %v, want 0", zero[0].Percent)
	}
}
