// Package reports builds report-service requests, decodes their rows and
// post-processes category distributions on the client.
package reports

import (
	"net/url"
	"strconv"

	"finboard/internal/core"
)

// Selector names one report endpoint.
type Selector string

const (
	MonthlyExpenditure   Selector = "monthly-expenditure"
	BudgetAdherence      Selector = "budget-adherence"
	SavingsProgress      Selector = "savings-progress"
	CategoryDistribution Selector = "category-distribution"
	SavingsForecast      Selector = "savings-forecast"
	Summary              Selector = "summary"
)

// Params is the full parameter set a report view can carry. Each selector
// sends only its own subset.
type Params struct {
	UserID       core.ID
	Month        int
	Year         int
	CategoryType string
	StartDate    core.Date
	EndDate      core.Date
}

// Request is one outbound report query, relative to the report base URL.
type Request struct {
	Selector Selector
	Path     string
	Query    url.Values
}

// URL joins the request onto base.
func (r Request) URL(base string) string {
	u := base + r.Path
	if q := r.Query.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

type queryFunc func(Params) url.Values

func userOnly(p Params) url.Values {
	return url.Values{"userId": {p.UserID.String()}}
}

func monthly(p Params) url.Values {
	q := userOnly(p)
	q.Set("month", strconv.Itoa(p.Month))
	q.Set("year", strconv.Itoa(p.Year))
	return q
}

func summary(p Params) url.Values {
	q := userOnly(p)
	if p.StartDate.Valid() {
		q.Set("startDate", p.StartDate.String())
	}
	if p.EndDate.Valid() {
		q.Set("endDate", p.EndDate.String())
	}
	return q
}

// queries maps each selector to the parameter subset it sends.
var queries = map[Selector]queryFunc{
	MonthlyExpenditure:   monthly,
	BudgetAdherence:      userOnly,
	SavingsProgress:      userOnly,
	CategoryDistribution: userOnly,
	SavingsForecast:      userOnly,
	Summary:              summary,
}

// Selectors lists the known selectors in display order.
func Selectors() []Selector {
	return []Selector{
		MonthlyExpenditure,
		BudgetAdherence,
		SavingsProgress,
		CategoryDistribution,
		SavingsForecast,
		Summary,
	}
}

// Known reports whether s is a registered selector.
func Known(s Selector) bool {
	_, ok := queries[s]
	return ok
}

// Build returns the request for sel. It returns false, and no request, for an
// unknown selector or when the user id is missing.
func Build(sel Selector, p Params) (Request, bool) {
	q, ok := queries[sel]
	if !ok || p.UserID.IsEmpty() {
		return Request{}, false
	}
	return Request{Selector: sel, Path: "/" + string(sel), Query: q(p)}, true
}
