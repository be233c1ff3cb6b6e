package reports

import (
	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/normalize"
)

const unknownLabel = "Unknown"

type (
	// CategoryAmount is one row of the category distribution.
	CategoryAmount struct {
		Category string
		Amount   decimal.Decimal
	}

	// Expenditure is one row of the monthly expenditure report.
	Expenditure struct {
		Category         string
		Amount           decimal.Decimal
		TransactionCount int64
	}

	// Adherence is one row of the budget adherence report.
	Adherence struct {
		Budget     string
		Budgeted   decimal.Decimal
		Actual     decimal.Decimal
		Percentage float64
	}

	// Progress is one row of the savings progress report.
	Progress struct {
		Goal       string
		Target     decimal.Decimal
		Current    decimal.Decimal
		Percentage float64
	}

	// Forecast is the savings forecast object.
	Forecast struct {
		CurrentSavings      decimal.Decimal
		MonthlyContribution decimal.Decimal
		Projected6Months    decimal.Decimal
		Projected12Months   decimal.Decimal
		InterestRate        float64
	}

	// Overview is the combined summary report.
	Overview struct {
		Expenditure  []Expenditure
		Adherence    []Adherence
		Progress     []Progress
		Distribution []CategoryAmount
		Forecast     *Forecast
	}
)

// Report holds the decoded result of one selector. Only the field that
// belongs to Selector is populated.
type Report struct {
	Selector     Selector
	Expenditure  []Expenditure
	Adherence    []Adherence
	Progress     []Progress
	Distribution []CategoryAmount
	Forecast     *Forecast
	Summary      *Overview
}

// Empty reports whether the decoded report has nothing to show.
func (r Report) Empty() bool {
	return len(r.Expenditure) == 0 && len(r.Adherence) == 0 && len(r.Progress) == 0 &&
		len(r.Distribution) == 0 && r.Forecast == nil && r.Summary == nil
}

// Decode maps a raw response body onto the report for sel. List reports
// treat anything but an array as empty; object reports treat anything but an
// object as absent.
func Decode(sel Selector, raw any) Report {
	r := Report{Selector: sel}
	switch sel {
	case MonthlyExpenditure:
		r.Expenditure = expenditures(raw)
	case BudgetAdherence:
		r.Adherence = adherences(raw)
	case SavingsProgress:
		r.Progress = progresses(raw)
	case CategoryDistribution:
		r.Distribution = distribution(raw)
	case SavingsForecast:
		r.Forecast = forecast(raw)
	case Summary:
		if p, ok := raw.(map[string]any); ok {
			r.Summary = &Overview{
				Expenditure:  expenditures(p["monthlyExpenditure"]),
				Adherence:    adherences(p["budgetAdherence"]),
				Progress:     progresses(p["savingsProgress"]),
				Distribution: distribution(p["categoryDistribution"]),
				Forecast:     forecast(p["savingsForecast"]),
			}
		}
	}
	return r
}

func label(p core.Payload, aliases ...string) string {
	if s := normalize.Text(p, "", aliases...); s != "" {
		return s
	}
	return unknownLabel
}

func rows(raw any) []core.Payload {
	items, _ := raw.([]any)
	out := make([]core.Payload, 0, len(items))
	for _, it := range items {
		if p, ok := it.(map[string]any); ok {
			out = append(out, p)
		}
	}
	return out
}

func expenditures(raw any) []Expenditure {
	var out []Expenditure
	for _, p := range rows(raw) {
		out = append(out, Expenditure{
			Category:         label(p, "categoryName", "category"),
			Amount:           normalize.Amount(p, "expenditure", "amount"),
			TransactionCount: normalize.Int(p, "transactionCount"),
		})
	}
	return out
}

func adherences(raw any) []Adherence {
	var out []Adherence
	for _, p := range rows(raw) {
		out = append(out, Adherence{
			Budget:     label(p, "budgetName", "category"),
			Budgeted:   normalize.Amount(p, "budgetedAmount"),
			Actual:     normalize.Amount(p, "actualAmount"),
			Percentage: normalize.Float(p, "adherencePercentage"),
		})
	}
	return out
}

func progresses(raw any) []Progress {
	var out []Progress
	for _, p := range rows(raw) {
		out = append(out, Progress{
			Goal:       label(p, "goalName", "category"),
			Target:     normalize.Amount(p, "targetAmount"),
			Current:    normalize.Amount(p, "currentAmount"),
			Percentage: normalize.Float(p, "progressPercentage"),
		})
	}
	return out
}

func distribution(raw any) []CategoryAmount {
	var out []CategoryAmount
	for _, p := range rows(raw) {
		out = append(out, CategoryAmount{
			Category: normalize.Text(p, "", "categoryName", "category"),
			Amount:   normalize.Amount(p, "amount", "expenditure"),
		})
	}
	return out
}

func forecast(raw any) *Forecast {
	p, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	return &Forecast{
		CurrentSavings:      normalize.Amount(p, "currentSavings"),
		MonthlyContribution: normalize.Amount(p, "monthlyContribution"),
		Projected6Months:    normalize.Amount(p, "projectedSavings6Months", "projectedSavings"),
		Projected12Months:   normalize.Amount(p, "projectedSavings12Months"),
		InterestRate:        normalize.Float(p, "interestRate"),
	}
}

// OverBudget reports whether the adherence row exceeds its budget.
func (a Adherence) OverBudget() bool {
	return a.Percentage > 100
}
