package reports

import "finboard/internal/core"

// View is the display state of one report. It is a value: every transition
// returns a new View.
type View struct {
	Selector Selector
	Params   Params
	Data     Report
	Err      error
	Loaded   bool
	Loading  bool
}

// NewView returns the initial state for sel.
func NewView(sel Selector, p Params) View {
	return View{Selector: sel, Params: p, Data: Report{Selector: sel}}
}

// Begin marks a request as in flight.
func (v View) Begin() View {
	v.Loading = true
	return v
}

// Succeed replaces the data and clears any previous error.
func (v View) Succeed(r Report) View {
	v.Data = r
	v.Err = nil
	v.Loaded = true
	v.Loading = false
	return v
}

// Fail records err and keeps whatever data was shown before. Before the
// first success that data is the empty report.
func (v View) Fail(err error) View {
	v.Err = err
	v.Loading = false
	return v
}

// Stale reports whether the view shows data from an earlier request next to
// a failure.
func (v View) Stale() bool {
	return v.Err != nil && v.Loaded
}

// Shares returns the category distribution filtered by the view's
// category type.
func (v View) Shares(categories []core.Category) []CategoryShare {
	rows := v.Data.Distribution
	if rows == nil && v.Data.Summary != nil {
		rows = v.Data.Summary.Distribution
	}
	return FilterCategoryDistribution(rows, categories, v.Params.CategoryType)
}
