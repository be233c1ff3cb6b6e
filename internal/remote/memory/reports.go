package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/metrics"
	"finboard/internal/normalize"
	"finboard/internal/reports"
)

var ErrUnknownReport = errors.New("unknown report")

const uncategorized = "Uncategorized"

var hundred = decimal.NewFromInt(100)

// snapshot is a normalized view of one user's data.
type snapshot struct {
	categories   map[string]core.Category
	budgets      []core.Budget
	transactions []core.Transaction
	goals        []core.SavingsGoal
}

func (s *Store) snapshot(owner core.ID) snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{categories: map[string]core.Category{}}
	for _, c := range normalize.Categories(s.categories.list("")) {
		snap.categories[c.ID.String()] = c
	}
	snap.budgets = normalize.Budgets(s.budgets.list(owner))
	snap.transactions = normalize.Transactions(s.transactions.list(owner))
	snap.goals = normalize.SavingsGoals(s.goals.list(owner))
	return snap
}

func (snap snapshot) categoryName(ref *int64) string {
	if ref == nil {
		return uncategorized
	}
	if c, ok := snap.categories[strconv.FormatInt(*ref, 10)]; ok && c.Name != "" {
		return c.Name
	}
	return uncategorized
}

// FetchReport computes the report server-side from the stored records.
func (s *Store) FetchReport(_ context.Context, req reports.Request) (any, error) {
	owner := core.ID(req.Query.Get("userId"))
	snap := s.snapshot(owner)

	switch req.Selector {
	case reports.MonthlyExpenditure:
		month, _ := strconv.Atoi(req.Query.Get("month"))
		year, _ := strconv.Atoi(req.Query.Get("year"))
		return snap.expenditure(func(d core.Date) bool {
			return d.Valid() && int(d.Month()) == month && d.Year() == year
		}), nil
	case reports.BudgetAdherence:
		return snap.adherence(), nil
	case reports.SavingsProgress:
		return snap.progress(), nil
	case reports.CategoryDistribution:
		return snap.distribution(), nil
	case reports.SavingsForecast:
		return snap.forecast(), nil
	case reports.Summary:
		start := core.ParseDate(req.Query.Get("startDate"))
		end := core.ParseDate(req.Query.Get("endDate"))
		inRange := func(d core.Date) bool {
			if !start.Valid() || !end.Valid() {
				return true
			}
			return d.Within(start, end)
		}
		return map[string]any{
			"monthlyExpenditure":   snap.expenditure(inRange),
			"budgetAdherence":      snap.adherence(),
			"savingsProgress":      snap.progress(),
			"categoryDistribution": snap.distribution(),
			"savingsForecast":      snap.forecast(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, req.Selector)
	}
}

type bucket struct {
	amount decimal.Decimal
	count  int64
}

func (snap snapshot) byCategory(keep func(core.Transaction) bool) ([]string, map[string]*bucket) {
	sums := map[string]*bucket{}
	for _, tx := range snap.transactions {
		if tx.IsIncome() || !keep(tx) {
			continue
		}
		name := snap.categoryName(tx.CategoryID)
		b, ok := sums[name]
		if !ok {
			b = &bucket{}
			sums[name] = b
		}
		b.amount = b.amount.Add(tx.Amount.Abs())
		b.count++
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, sums
}

func (snap snapshot) expenditure(when func(core.Date) bool) []any {
	names, sums := snap.byCategory(func(tx core.Transaction) bool { return when(tx.TransactionDate) })
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{
			"categoryName":     name,
			"expenditure":      number(sums[name].amount),
			"transactionCount": sums[name].count,
		})
	}
	return out
}

func (snap snapshot) distribution() []any {
	names, sums := snap.byCategory(func(core.Transaction) bool { return true })
	out := make([]any, 0, len(names))
	for _, name := range names {
		out = append(out, map[string]any{
			"categoryName": name,
			"amount":       number(sums[name].amount),
		})
	}
	return out
}

func (snap snapshot) adherence() []any {
	out := make([]any, 0, len(snap.budgets))
	for _, b := range snap.budgets {
		actual := decimal.Zero
		for _, tx := range snap.transactions {
			if !tx.IsIncome() && metrics.Related(b, tx) {
				actual = actual.Add(tx.Amount.Abs())
			}
		}
		pct := 0.0
		if b.Amount.IsPositive() {
			pct = actual.Div(b.Amount).Mul(hundred).Round(1).InexactFloat64()
		}
		out = append(out, map[string]any{
			"budgetName":          b.Name,
			"budgetedAmount":      number(b.Amount),
			"actualAmount":        number(actual),
			"adherencePercentage": pct,
		})
	}
	return out
}

func (snap snapshot) progress() []any {
	out := make([]any, 0, len(snap.goals))
	for _, g := range snap.goals {
		out = append(out, map[string]any{
			"goalName":           g.GoalName,
			"targetAmount":       number(g.TargetAmount),
			"currentAmount":      number(g.CurrentAmount),
			"progressPercentage": core.RoundTo(metrics.GoalProgress(g), 1),
		})
	}
	return out
}

// forecast projects savings linearly from the average monthly net of the
// months that have transactions.
func (snap snapshot) forecast() map[string]any {
	current := metrics.SavingsSummary(snap.goals).TotalCollected

	months := map[string]struct{}{}
	for _, tx := range snap.transactions {
		if tx.TransactionDate.Valid() {
			months[tx.TransactionDate.Format("2006-01")] = struct{}{}
		}
	}
	contribution := decimal.Zero
	if len(months) > 0 {
		net := metrics.TypeTotals(snap.transactions)
		contribution = net.Income.Sub(net.Expenses).Div(decimal.NewFromInt(int64(len(months)))).Round(2)
		if contribution.IsNegative() {
			contribution = decimal.Zero
		}
	}

	return map[string]any{
		"currentSavings":           number(current),
		"monthlyContribution":      number(contribution),
		"projectedSavings6Months":  number(current.Add(contribution.Mul(decimal.NewFromInt(6)))),
		"projectedSavings12Months": number(current.Add(contribution.Mul(decimal.NewFromInt(12)))),
		"interestRate":             0,
	}
}

// number renders amounts the way a JSON decoder with UseNumber would.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}
