package export

import (
	"strconv"

	"github.com/shopspring/decimal"

	"finboard/internal/reports"
)

// Table lays a report out as spreadsheet rows: a header row followed by
// one row per report row. Summary reports become titled sections separated
// by a blank row.
func Table(r reports.Report) [][]any {
	switch r.Selector {
	case reports.MonthlyExpenditure:
		return expenditureTable(r.Expenditure)
	case reports.BudgetAdherence:
		return adherenceTable(r.Adherence)
	case reports.SavingsProgress:
		return progressTable(r.Progress)
	case reports.CategoryDistribution:
		return ShareTable(reports.FilterCategoryDistribution(r.Distribution, nil, reports.AllTypes))
	case reports.SavingsForecast:
		return forecastTable(r.Forecast)
	case reports.Summary:
		return summaryTable(r.Summary)
	default:
		return nil
	}
}

// ShareTable lays out an already filtered category distribution.
func ShareTable(shares []reports.CategoryShare) [][]any {
	out := [][]any{{"Category", "Amount", "Share %"}}
	for _, s := range shares {
		out = append(out, []any{s.Category, money(s.Amount), percent(s.Percent)})
	}
	return out
}

func expenditureTable(rows []reports.Expenditure) [][]any {
	out := [][]any{{"Category", "Amount", "Transactions"}}
	for _, r := range rows {
		out = append(out, []any{r.Category, money(r.Amount), r.TransactionCount})
	}
	return out
}

func adherenceTable(rows []reports.Adherence) [][]any {
	out := [][]any{{"Budget", "Budgeted", "Actual", "Adherence %"}}
	for _, r := range rows {
		out = append(out, []any{r.Budget, money(r.Budgeted), money(r.Actual), percent(r.Percentage)})
	}
	return out
}

func progressTable(rows []reports.Progress) [][]any {
	out := [][]any{{"Goal", "Target", "Current", "Progress %"}}
	for _, r := range rows {
		out = append(out, []any{r.Goal, money(r.Target), money(r.Current), percent(r.Percentage)})
	}
	return out
}

func forecastTable(f *reports.Forecast) [][]any {
	out := [][]any{{"Metric", "Value"}}
	if f == nil {
		return out
	}
	return append(out,
		[]any{"Current savings", money(f.CurrentSavings)},
		[]any{"Monthly contribution", money(f.MonthlyContribution)},
		[]any{"Projected in 6 months", money(f.Projected6Months)},
		[]any{"Projected in 12 months", money(f.Projected12Months)},
		[]any{"Interest rate %", percent(f.InterestRate)},
	)
}

func summaryTable(s *reports.Overview) [][]any {
	if s == nil {
		return nil
	}
	sections := []struct {
		title string
		rows  [][]any
	}{
		{"Monthly expenditure", expenditureTable(s.Expenditure)},
		{"Budget adherence", adherenceTable(s.Adherence)},
		{"Savings progress", progressTable(s.Progress)},
		{"Category distribution", ShareTable(reports.FilterCategoryDistribution(s.Distribution, nil, reports.AllTypes))},
		{"Savings forecast", forecastTable(s.Forecast)},
	}

	var out [][]any
	for i, sec := range sections {
		if i > 0 {
			out = append(out, []any{})
		}
		out = append(out, []any{sec.title})
		out = append(out, sec.rows...)
	}
	return out
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
