package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"finboard/internal/core"
	"finboard/internal/dashboard"
	"finboard/internal/export"
	"finboard/internal/journal"
	"finboard/internal/reports"
)

var titleCaser = cases.Title(language.English)

var (
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff00"))
	spentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff0000"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func grid(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func pct(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64) + "%"
}

func section(title, body string) string {
	return titleStyle.Render(title) + "\n" + body
}

func renderOverview(s dashboard.State) string {
	t := s.Derived.Overview.Totals
	a := s.Derived.Activity
	p := s.Derived.Savings

	net := incomeStyle.Render(core.FormatMoney(t.Net))
	if t.Net.IsNegative() {
		net = spentStyle.Render(core.FormatMoney(t.Net))
	}
	lines := []string{
		titleStyle.Render("Overview"),
		fmt.Sprintf("Income      %s", incomeStyle.Render(core.FormatMoney(t.Income))),
		fmt.Sprintf("Expenses    %s", spentStyle.Render(core.FormatMoney(t.Expenses))),
		fmt.Sprintf("Net         %s", net),
		fmt.Sprintf("Budgeted    %s", core.FormatMoney(t.BudgetTotal)),
		"",
		fmt.Sprintf("%d categories, %d budgets, %d transactions",
			s.Derived.Overview.Categories, s.Derived.Overview.Budgets, s.Derived.Overview.Transactions),
		mutedStyle.Render(fmt.Sprintf("By type: %s income in %d, %s expenses in %d",
			core.FormatMoney(a.Income), a.IncomeCount, core.FormatMoney(a.Expenses), a.ExpenseCount)),
		mutedStyle.Render(fmt.Sprintf("Savings: %s of %s, %d of %d goals accomplished",
			core.FormatMoney(p.TotalCollected), core.FormatMoney(p.TotalTarget), p.AccomplishedCount, p.Goals)),
	}
	return summaryStyle.Render(strings.Join(lines, "\n"))
}

func renderCategories(cs []core.Category) string {
	if len(cs) == 0 {
		return mutedStyle.Render("No categories.")
	}
	rows := make([][]string, 0, len(cs))
	for _, c := range cs {
		rows = append(rows, []string{c.ID.String(), c.Name, string(c.Type), c.Description})
	}
	return grid([]string{"ID", "Name", "Type", "Description"}, rows)
}

func renderUsage(s dashboard.State) string {
	if len(s.Budgets) == 0 {
		return section("Budgets", mutedStyle.Render("No budgets yet."))
	}
	rows := make([][]string, 0, len(s.Budgets))
	for i, b := range s.Budgets {
		u := s.Derived.Usage[i]
		remaining := core.FormatMoney(u.Remaining)
		if u.Overspent.IsPositive() {
			remaining = spentStyle.Render("over by " + core.FormatMoney(u.Overspent))
		}
		rows = append(rows, []string{
			b.ID.String(),
			b.Name,
			s.CategoryName(b.CategoryID),
			string(b.Period),
			core.FormatMoney(b.Amount),
			core.FormatMoney(u.Used),
			core.FormatMoney(u.Received),
			remaining,
			pct(u.UsedPercent),
			pct(u.TimeElapsedPercent),
		})
	}
	return section("Budgets", grid(
		[]string{"ID", "Budget", "Category", "Period", "Amount", "Used", "Received", "Remaining", "Used", "Time"},
		rows))
}

func renderTransactions(s dashboard.State) string {
	if len(s.Transactions) == 0 {
		return section("Transactions", mutedStyle.Render("No transactions yet."))
	}
	rows := make([][]string, 0, len(s.Transactions))
	for _, tx := range s.Transactions {
		amount := spentStyle.Render(core.FormatMoney(tx.Amount))
		if tx.IsIncome() {
			amount = incomeStyle.Render(core.FormatMoney(tx.Amount))
		}
		rows = append(rows, []string{
			tx.ID.String(),
			tx.TransactionDate.String(),
			tx.TransactionType,
			s.CategoryName(tx.CategoryID),
			amount,
			tx.PaymentMethod,
			tx.Description,
		})
	}
	a := s.Derived.Activity
	footer := fmt.Sprintf("%d transactions: %s income, %s expenses",
		a.Count, core.FormatMoney(a.Income), core.FormatMoney(a.Expenses))
	return section("Transactions",
		grid([]string{"ID", "Date", "Type", "Category", "Amount", "Payment", "Description"}, rows)+
			"\n"+mutedStyle.Render(footer))
}

func renderGoals(s dashboard.State) string {
	if len(s.Goals) == 0 {
		return section("Savings goals", mutedStyle.Render("No savings goals yet."))
	}
	rows := make([][]string, 0, len(s.Goals))
	for i, g := range s.Goals {
		progress := pct(s.Derived.Progress[i])
		if g.Status.IsCompleted() || s.Derived.Progress[i] >= 100 {
			progress = incomeStyle.Render(progress)
		}
		rows = append(rows, []string{
			g.ID.String(),
			g.GoalName,
			core.FormatMoney(g.CurrentAmount),
			core.FormatMoney(g.TargetAmount),
			progress,
			g.TargetDate.String(),
			string(g.Status),
		})
	}
	return section("Savings goals",
		grid([]string{"ID", "Goal", "Saved", "Target", "Progress", "Target date", "Status"}, rows))
}

func renderReport(s dashboard.State, v reports.View) string {
	title := titleCaser.String(strings.ReplaceAll(string(v.Selector), "-", " "))
	switch {
	case v.Selector == reports.CategoryDistribution:
		return section(title, tableOf(export.ShareTable(v.Shares(s.Categories))))
	case v.Selector == reports.Summary && v.Data.Summary != nil:
		sum := v.Data.Summary
		parts := []string{
			section("Monthly expenditure", tableOf(export.Table(reports.Report{
				Selector: reports.MonthlyExpenditure, Expenditure: sum.Expenditure}))),
			section("Budget adherence", tableOf(export.Table(reports.Report{
				Selector: reports.BudgetAdherence, Adherence: sum.Adherence}))),
			section("Savings progress", tableOf(export.Table(reports.Report{
				Selector: reports.SavingsProgress, Progress: sum.Progress}))),
			section("Category distribution", tableOf(export.ShareTable(v.Shares(s.Categories)))),
			section("Savings forecast", tableOf(export.Table(reports.Report{
				Selector: reports.SavingsForecast, Forecast: sum.Forecast}))),
		}
		return titleStyle.Render(title) + "\n\n" + strings.Join(parts, "\n\n")
	case v.Data.Empty():
		return section(title, mutedStyle.Render("No data."))
	case v.Selector == reports.BudgetAdherence:
		over := 0
		for _, a := range v.Data.Adherence {
			if a.OverBudget() {
				over++
			}
		}
		body := tableOf(export.Table(v.Data))
		if over > 0 {
			body += "\n" + spentStyle.Render(fmt.Sprintf("%d of %d budgets over their amount", over, len(v.Data.Adherence)))
		}
		return section(title, body)
	default:
		return section(title, tableOf(export.Table(v.Data)))
	}
}

// tableOf renders export rows, the first of which is the header.
func tableOf(rows [][]any) string {
	if len(rows) == 0 {
		return ""
	}
	headers := cells(rows[0])
	body := make([][]string, 0, len(rows)-1)
	for _, r := range rows[1:] {
		body = append(body, cells(r))
	}
	return grid(headers, body)
}

func cells(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		switch x := v.(type) {
		case decimal.Decimal:
			out[i] = x.StringFixed(2)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

// renderJournal shows the newest entries; total is the size of the whole
// journal.
func renderJournal(entries []journal.Entry, total int) string {
	if len(entries) == 0 {
		return mutedStyle.Render("The sync journal is empty.")
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		status := e.Status
		if status == journal.StatusFailed {
			status = spentStyle.Render(status)
		}
		rows = append(rows, []string{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.Action,
			e.Entity,
			e.EntityID,
			status,
		})
	}
	out := grid([]string{"When", "Action", "Entity", "ID", "Status"}, rows)
	return out + "\n" + mutedStyle.Render(fmt.Sprintf("%d of %d entries", len(entries), total))
}
