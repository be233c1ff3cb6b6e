package dashboard

import (
	"maps"
	"slices"
	"strings"
	"time"

	"finboard/internal/core"
	"finboard/internal/metrics"
	"finboard/internal/reports"
)

// Collection names one of the four entity sets held by the engine.
type Collection string

const (
	Categories   Collection = "categories"
	Budgets      Collection = "budgets"
	Transactions Collection = "transactions"
	Goals        Collection = "goals"
)

// AllCollections lists the collections in refresh order.
func AllCollections() []Collection {
	return []Collection{Categories, Budgets, Transactions, Goals}
}

// entity is the singular name used in the sync log and change events.
func (c Collection) entity() string {
	switch c {
	case Categories:
		return "category"
	case Budgets:
		return "budget"
	case Transactions:
		return "transaction"
	case Goals:
		return "goal"
	}
	return string(c)
}

// userScoped reports whether the collection is listed per user.
func (c Collection) userScoped() bool {
	return c != Categories
}

// Drafts are the four entry forms.
type Drafts struct {
	Category    core.CategoryDraft
	Budget      core.BudgetDraft
	Transaction core.TransactionDraft
	Goal        core.GoalDraft
}

// NewDrafts returns every form in its reset state.
func NewDrafts() Drafts {
	return Drafts{
		Category:    core.NewCategoryDraft(),
		Budget:      core.NewBudgetDraft(),
		Transaction: core.NewTransactionDraft(),
		Goal:        core.NewGoalDraft(),
	}
}

// Derived holds every figure computed from the collections. It is rebuilt
// after each collection change.
type Derived struct {
	Overview metrics.Overview
	Activity metrics.ActivityTotals
	// Usage is aligned with State.Budgets.
	Usage   []metrics.Usage
	Shares  []metrics.Share
	Savings metrics.Portfolio
	// Progress is aligned with State.Goals.
	Progress []float64
}

// Auth is the outcome of the last login or registration attempt.
type Auth struct {
	Err        error
	Registered core.Payload
}

// State is the complete application state. The engine owns it; callers
// only ever see copies.
type State struct {
	User   core.Payload
	UserID core.ID

	Categories   []core.Category
	Budgets      []core.Budget
	Transactions []core.Transaction
	Goals        []core.SavingsGoal

	// Loaded marks collections that received at least one listing.
	Loaded map[Collection]bool
	// Errors holds the last fetch, validation or write failure per
	// collection. Collections keep their last good data on failure.
	Errors map[Collection]error

	Derived Derived
	Reports map[reports.Selector]reports.View
	Drafts  Drafts
	Auth    Auth
}

func newState() State {
	return State{
		Loaded:  map[Collection]bool{},
		Errors:  map[Collection]error{},
		Reports: map[reports.Selector]reports.View{},
		Drafts:  NewDrafts(),
	}
}

func (s State) clone() State {
	out := s
	out.User = maps.Clone(s.User)
	out.Categories = slices.Clone(s.Categories)
	out.Budgets = slices.Clone(s.Budgets)
	out.Transactions = slices.Clone(s.Transactions)
	out.Goals = slices.Clone(s.Goals)
	out.Loaded = maps.Clone(s.Loaded)
	out.Errors = maps.Clone(s.Errors)
	out.Reports = maps.Clone(s.Reports)
	out.Derived.Usage = slices.Clone(s.Derived.Usage)
	out.Derived.Shares = slices.Clone(s.Derived.Shares)
	out.Derived.Progress = slices.Clone(s.Derived.Progress)
	return out
}

// Err returns the scoped error of c, or nil.
func (s State) Err(c Collection) error {
	return s.Errors[c]
}

// CategoriesOfType returns the categories whose type matches kind,
// case-insensitively, keeping the name order.
func (s State) CategoriesOfType(kind string) []core.Category {
	var out []core.Category
	for _, c := range s.Categories {
		if c.Type.Is(kind) {
			out = append(out, c)
		}
	}
	return out
}

// TransactionCategories is the category picker of the transaction form.
func (s State) TransactionCategories() []core.Category {
	return s.CategoriesOfType(s.Drafts.Transaction.TransactionType)
}

// Category looks up a category by id.
func (s State) Category(id core.ID) (core.Category, bool) {
	i := slices.IndexFunc(s.Categories, func(c core.Category) bool { return c.ID == id })
	if i < 0 {
		return core.Category{}, false
	}
	return s.Categories[i], true
}

// CategoryName resolves a category reference for display.
func (s State) CategoryName(ref *int64) string {
	if ref == nil {
		return ""
	}
	if c, ok := s.Category(core.IDFromInt(*ref)); ok {
		return c.Name
	}
	return ""
}

// Report returns the view of sel, or a fresh one.
func (s State) Report(sel reports.Selector) reports.View {
	if v, ok := s.Reports[sel]; ok {
		return v
	}
	return reports.NewView(sel, reports.Params{UserID: s.UserID})
}

func sortCategories(cs []core.Category) {
	slices.SortStableFunc(cs, func(a, b core.Category) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// derive recomputes every metric from the current collections.
func (s *State) derive(now func() time.Time) {
	at := now()
	s.Derived = Derived{
		Overview: metrics.Summarize(s.Categories, s.Budgets, s.Transactions),
		Activity: metrics.TypeTotals(s.Transactions),
		Usage:    metrics.BudgetUsages(s.Budgets, s.Transactions, at),
		Shares:   metrics.BudgetShares(s.Budgets),
		Savings:  metrics.SavingsSummary(s.Goals),
		Progress: make([]float64, len(s.Goals)),
	}
	for i, g := range s.Goals {
		s.Derived.Progress[i] = metrics.GoalProgress(g)
	}
}
