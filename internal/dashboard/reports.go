package dashboard

import (
	"context"
	"errors"
	"fmt"

	"finboard/internal/core"
	"finboard/internal/log"
	"finboard/internal/reports"
)

var ErrUnknownSelector = errors.New("unknown report selector")

// LoadReport fetches one report. A blank Params.UserID means the current
// user.
type LoadReport struct {
	Selector reports.Selector
	Params   reports.Params
}

// FilterReport changes the category type filter of a loaded view without
// fetching it again.
type FilterReport struct {
	Selector     reports.Selector
	CategoryType string
}

func (c LoadReport) apply(e *Engine) {
	p := c.Params
	if p.UserID.IsEmpty() {
		p.UserID = e.state.UserID
	}
	view := e.state.Report(c.Selector)
	view.Params = p

	if !reports.Known(c.Selector) {
		e.state.Reports[c.Selector] = view.Fail(fmt.Errorf("%w: %q", ErrUnknownSelector, c.Selector))
		return
	}
	req, ok := reports.Build(c.Selector, p)
	if !ok {
		e.state.Reports[c.Selector] = view.Fail(core.ErrMissingUser)
		return
	}

	e.reportGens[c.Selector]++
	gen, user := e.reportGens[c.Selector], e.state.UserID
	e.state.Reports[c.Selector] = view.Begin()
	e.spawn(func(ctx context.Context) Command {
		raw, err := e.remote.FetchReport(ctx, req)
		return reportFetched{sel: c.Selector, gen: gen, user: user, raw: raw, err: err}
	})
}

func (c FilterReport) apply(e *Engine) {
	view := e.state.Report(c.Selector)
	view.Params.CategoryType = c.CategoryType
	e.state.Reports[c.Selector] = view
}

type reportFetched struct {
	sel  reports.Selector
	gen  uint64
	user core.ID
	raw  any
	err  error
}

func (r reportFetched) apply(e *Engine) {
	e.finish()
	fields := log.NewFields().WithOperation(log.OpReport).WithSelector(string(r.sel))
	if r.gen != e.reportGens[r.sel] || r.user != e.state.UserID {
		e.logger.Debug("Discarding stale report", fields.ToSlice()...)
		return
	}
	view := e.state.Report(r.sel)
	if r.err != nil {
		e.state.Reports[r.sel] = view.Fail(r.err)
		e.logger.Warn("Report failed", fields.WithError(r.err).ToSlice()...)
		return
	}
	e.state.Reports[r.sel] = view.Succeed(reports.Decode(r.sel, r.raw))
}
