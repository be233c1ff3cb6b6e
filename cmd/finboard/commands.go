package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finboard/internal/cli"
	"finboard/internal/core"
	"finboard/internal/dashboard"
	"finboard/internal/reports"
)

type overviewCmd struct{}

func (c *overviewCmd) Run(a *app) error {
	s, err := a.login()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderOverview(s))
	fmt.Fprintln(a.out, renderUsage(s))
	fmt.Fprintln(a.out, renderGoals(s))
	return nil
}

type categoriesCmd struct {
	List   categoriesListCmd `cmd:"" default:"1" help:"List categories."`
	Add    categoryAddCmd    `cmd:"" help:"Create or update a category."`
	Delete categoryDeleteCmd `cmd:"" help:"Delete a category."`
}

type categoriesListCmd struct {
	Type string `help:"Only categories of this type (Income or Expense)."`
}

func (c *categoriesListCmd) Run(a *app) error {
	s, err := a.login()
	if err != nil {
		return err
	}
	cs := s.Categories
	if c.Type != "" {
		cs = s.CategoriesOfType(c.Type)
	}
	fmt.Fprintln(a.out, renderCategories(cs))
	return nil
}

type categoryAddCmd struct {
	ID          string `help:"Update the category with this id instead of creating one."`
	Name        string `required:"" help:"Category name."`
	Description string `help:"Free text description."`
	Type        string `default:"Expense" enum:"Income,Expense" help:"Income or Expense."`
}

func (c *categoryAddCmd) Run(a *app) error {
	s, err := a.write(dashboard.Categories, dashboard.SaveCategory{Draft: core.CategoryDraft{
		ID:          core.ID(c.ID),
		Name:        c.Name,
		Description: c.Description,
		Type:        core.CategoryType(c.Type),
	}})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderCategories(s.Categories))
	return nil
}

// DeleteArgs is shared by the four collections.
type DeleteArgs struct {
	ID string `arg:"" help:"Id of the record to delete."`
}

type (
	categoryDeleteCmd    struct{ DeleteArgs `embed:""` }
	budgetDeleteCmd      struct{ DeleteArgs `embed:""` }
	transactionDeleteCmd struct{ DeleteArgs `embed:""` }
	goalDeleteCmd        struct{ DeleteArgs `embed:""` }
)

func (c *categoryDeleteCmd) Run(a *app) error    { return c.run(a, dashboard.Categories) }
func (c *budgetDeleteCmd) Run(a *app) error      { return c.run(a, dashboard.Budgets) }
func (c *transactionDeleteCmd) Run(a *app) error { return c.run(a, dashboard.Transactions) }
func (c *goalDeleteCmd) Run(a *app) error        { return c.run(a, dashboard.Goals) }

func (c *DeleteArgs) run(a *app, coll dashboard.Collection) error {
	_, err := a.write(coll, dashboard.Delete{Collection: coll, ID: core.ID(c.ID)})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %s %s\n", strings.TrimSuffix(string(coll), "s"), c.ID)
	return nil
}

type budgetsCmd struct {
	List   budgetsListCmd  `cmd:"" default:"1" help:"List budgets with their usage."`
	Add    budgetAddCmd    `cmd:"" help:"Create or update a budget."`
	Delete budgetDeleteCmd `cmd:"" help:"Delete a budget."`
}

type budgetsListCmd struct{}

func (c *budgetsListCmd) Run(a *app) error {
	s, err := a.login()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderUsage(s))
	return nil
}

type budgetAddCmd struct {
	ID          string `help:"Update the budget with this id instead of creating one."`
	Name        string `required:"" help:"Budget name."`
	Amount      string `required:"" help:"Budgeted amount."`
	Period      string `default:"Monthly" help:"Daily, Weekly, Monthly or Yearly."`
	Start       string `required:"" help:"First day (YYYY-MM-DD)."`
	End         string `required:"" help:"Last day (YYYY-MM-DD)."`
	Category    string `required:"" help:"Category id."`
	Description string `help:"Free text description."`
}

func (c *budgetAddCmd) Run(a *app) error {
	s, err := a.write(dashboard.Budgets, dashboard.SaveBudget{Draft: core.BudgetDraft{
		ID:          core.ID(c.ID),
		Name:        c.Name,
		Amount:      c.Amount,
		Period:      core.Period(c.Period),
		Description: c.Description,
		StartDate:   c.Start,
		EndDate:     c.End,
		CategoryID:  c.Category,
	}})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderUsage(s))
	return nil
}

type transactionsCmd struct {
	List   transactionsListCmd  `cmd:"" default:"1" help:"List transactions with type totals."`
	Add    transactionAddCmd    `cmd:"" help:"Create or update a transaction."`
	Delete transactionDeleteCmd `cmd:"" help:"Delete a transaction."`
}

type transactionsListCmd struct{}

func (c *transactionsListCmd) Run(a *app) error {
	s, err := a.login()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderTransactions(s))
	return nil
}

type transactionAddCmd struct {
	ID          string `help:"Update the transaction with this id instead of creating one."`
	Amount      string `required:"" help:"Amount."`
	Type        string `default:"Expense" help:"Income or Expense."`
	Category    string `required:"" help:"Category id."`
	Date        string `help:"Transaction date (YYYY-MM-DD)."`
	Description string `help:"Free text description."`
	Payment     string `default:"Cash" help:"Payment method."`
}

func (c *transactionAddCmd) Run(a *app) error {
	s, err := a.write(dashboard.Transactions, dashboard.SaveTransaction{Draft: core.TransactionDraft{
		ID:              core.ID(c.ID),
		Amount:          c.Amount,
		TransactionType: c.Type,
		TransactionDate: c.Date,
		Description:     c.Description,
		PaymentMethod:   c.Payment,
		CategoryID:      c.Category,
	}})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderTransactions(s))
	return nil
}

type savingsCmd struct {
	List   savingsListCmd `cmd:"" default:"1" help:"List savings goals with progress."`
	Add    goalAddCmd     `cmd:"" help:"Create or update a savings goal."`
	Fund   fundCmd        `cmd:"" help:"Add funds to a savings goal."`
	Delete goalDeleteCmd  `cmd:"" help:"Delete a savings goal."`
}

type savingsListCmd struct{}

func (c *savingsListCmd) Run(a *app) error {
	s, err := a.login()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderGoals(s))
	return nil
}

type goalAddCmd struct {
	ID      string `help:"Update the goal with this id instead of creating one."`
	Name    string `required:"" help:"Goal name."`
	Target  string `required:"" help:"Target amount."`
	Current string `default:"0" help:"Amount already saved."`
	Date    string `help:"Target date (YYYY-MM-DD)."`
	Status  string `default:"Active" enum:"Active,Completed,Cancelled" help:"Goal status."`
}

func (c *goalAddCmd) Run(a *app) error {
	s, err := a.write(dashboard.Goals, dashboard.SaveGoal{Draft: core.GoalDraft{
		ID:            core.ID(c.ID),
		GoalName:      c.Name,
		TargetAmount:  c.Target,
		CurrentAmount: c.Current,
		TargetDate:    c.Date,
		Status:        core.GoalStatus(c.Status),
	}})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderGoals(s))
	return nil
}

type fundCmd struct {
	ID     string `arg:"" help:"Goal id."`
	Amount string `arg:"" help:"Amount to add."`
}

func (c *fundCmd) Run(a *app) error {
	s, err := a.write(dashboard.Goals, dashboard.AddFunds{Goal: core.ID(c.ID), Amount: c.Amount})
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderGoals(s))
	return nil
}

// ReportArgs select a report and its parameters.
type ReportArgs struct {
	Selector string `arg:"" help:"monthly-expenditure, budget-adherence, savings-progress, category-distribution, savings-forecast or summary."`
	Month    int    `help:"Month for monthly-expenditure (1-12); defaults to the current month."`
	Year     int    `help:"Year for monthly-expenditure; defaults to the current year."`
	Type     string `default:"All" help:"Category type filter for the distribution (All, Income, Expense)."`
	Start    string `help:"Summary start date (YYYY-MM-DD)."`
	End      string `help:"Summary end date (YYYY-MM-DD)."`
}

func (r ReportArgs) params() reports.Params {
	p := reports.Params{
		Month:        r.Month,
		Year:         r.Year,
		CategoryType: r.Type,
		StartDate:    core.ParseDate(r.Start),
		EndDate:      core.ParseDate(r.End),
	}
	now := time.Now()
	if p.Month == 0 {
		p.Month = int(now.Month())
	}
	if p.Year == 0 {
		p.Year = now.Year()
	}
	return p
}

// fetch logs in and loads the report view.
func (r ReportArgs) fetch(a *app) (dashboard.State, reports.View, error) {
	sel := reports.Selector(r.Selector)
	if !reports.Known(sel) {
		known := make([]string, 0, len(reports.Selectors()))
		for _, k := range reports.Selectors() {
			known = append(known, string(k))
		}
		return dashboard.State{}, reports.View{}, fmt.Errorf("%w: %q (want one of %s)",
			dashboard.ErrUnknownSelector, r.Selector, strings.Join(known, ", "))
	}
	if _, err := a.login(); err != nil {
		return dashboard.State{}, reports.View{}, err
	}
	s, err := a.do(dashboard.LoadReport{Selector: sel, Params: r.params()})
	if err != nil {
		return s, reports.View{}, err
	}
	v := s.Report(sel)
	if v.Err != nil {
		return s, v, fmt.Errorf("report %s: %w", sel, v.Err)
	}
	return s, v, nil
}

type reportCmd struct {
	ReportArgs `embed:""`
}

func (c *reportCmd) Run(a *app) error {
	s, v, err := c.fetch(a)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderReport(s, v))
	return nil
}

type exportCmd struct {
	ReportArgs `embed:""`
}

var errExportDisabled = errors.New("report export is not configured (set GOOGLE_SPREADSHEET_ID)")

func (c *exportCmd) Run(a *app) error {
	if !a.cfg.ExportEnabled() {
		return errExportDisabled
	}
	exporter, err := cli.InitExport(a.ctx, a.logger, a.cfg)
	if err != nil {
		return err
	}
	s, v, err := c.fetch(a)
	if err != nil {
		return err
	}

	var where string
	if v.Selector == reports.CategoryDistribution {
		where, err = exporter.ExportShares(a.ctx, v.Shares(s.Categories))
	} else {
		where, err = exporter.Export(a.ctx, v.Data)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported %s to %s\n", v.Selector, where)
	return nil
}

type journalCmd struct {
	Limit int `default:"20" help:"Number of entries to show; 0 shows all."`
}

func (c *journalCmd) Run(a *app) error {
	entries, err := a.journal.List(a.ctx, c.Limit)
	if err != nil {
		return err
	}
	total, err := a.journal.Count(a.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, renderJournal(entries, total))
	return nil
}

type registerCmd struct {
	Name     string `required:"" help:"Full name."`
	Email    string `required:"" help:"Email address."`
	Password string `required:"" help:"Password (at least 6 characters)."`
	Confirm  string `required:"" help:"Password again."`
}

func (c *registerCmd) Run(a *app) error {
	s, err := a.do(dashboard.Register{Registration: core.Registration{
		Fullname:        c.Name,
		Email:           c.Email,
		Password:        c.Password,
		ConfirmPassword: c.Confirm,
	}})
	if err != nil {
		return err
	}
	if s.Auth.Err != nil {
		return fmt.Errorf("register: %w", s.Auth.Err)
	}
	fmt.Fprintf(a.out, "Registered %s\n", c.Email)
	return nil
}
