package core

// Drafts hold form input as typed by the user. They are plain values: a
// form is reset by assigning the result of its New constructor, and an
// edit starts from the Edit constructor of the stored record.

type CategoryDraft struct {
	ID          ID
	Name        string
	Description string
	Type        CategoryType
}

type BudgetDraft struct {
	ID          ID
	Name        string
	Amount      string
	Period      Period
	Description string
	StartDate   string
	EndDate     string
	CategoryID  string
}

type TransactionDraft struct {
	ID              ID
	Amount          string
	TransactionType string
	TransactionDate string
	Description     string
	PaymentMethod   string
	CategoryID      string
}

type GoalDraft struct {
	ID            ID
	GoalName      string
	TargetAmount  string
	CurrentAmount string
	TargetDate    string
	Status        GoalStatus
}

// Credentials is the login form.
type Credentials struct {
	Username string
	Password string
}

// Registration is the sign-up form.
type Registration struct {
	Fullname        string
	Email           string
	Password        string
	ConfirmPassword string
}

func NewCategoryDraft() CategoryDraft {
	return CategoryDraft{Type: Expense}
}

func NewBudgetDraft() BudgetDraft {
	return BudgetDraft{Period: Monthly}
}

func NewTransactionDraft() TransactionDraft {
	return TransactionDraft{TransactionType: string(Expense), PaymentMethod: DefaultPaymentMethod}
}

func NewGoalDraft() GoalDraft {
	return GoalDraft{Status: Active}
}

// EditCategory prefills a draft from a stored category.
func EditCategory(c Category) CategoryDraft {
	return CategoryDraft{ID: c.ID, Name: c.Name, Description: c.Description, Type: c.Type}
}

// EditBudget prefills a draft from a stored budget.
func EditBudget(b Budget) BudgetDraft {
	return BudgetDraft{
		ID:          b.ID,
		Name:        b.Name,
		Amount:      b.Amount.String(),
		Period:      b.Period,
		Description: b.Description,
		StartDate:   b.StartDate.String(),
		EndDate:     b.EndDate.String(),
		CategoryID:  refText(b.CategoryID),
	}
}

// EditTransaction prefills a draft from a stored transaction.
func EditTransaction(t Transaction) TransactionDraft {
	d := TransactionDraft{
		ID:              t.ID,
		Amount:          t.Amount.String(),
		TransactionType: t.TransactionType,
		TransactionDate: t.TransactionDate.String(),
		Description:     t.Description,
		PaymentMethod:   t.PaymentMethod,
		CategoryID:      refText(t.CategoryID),
	}
	if d.TransactionType == "" {
		d.TransactionType = string(Expense)
	}
	if d.PaymentMethod == "" {
		d.PaymentMethod = DefaultPaymentMethod
	}
	return d
}

// EditGoal prefills a draft from a stored savings goal.
func EditGoal(g SavingsGoal) GoalDraft {
	return GoalDraft{
		ID:            g.ID,
		GoalName:      g.GoalName,
		TargetAmount:  g.TargetAmount.String(),
		CurrentAmount: g.CurrentAmount.String(),
		TargetDate:    g.TargetDate.String(),
		Status:        g.Status,
	}
}

// IsNew reports whether the draft creates a record rather than updating one.
func (d BudgetDraft) IsNew() bool      { return d.ID.IsEmpty() }
func (d CategoryDraft) IsNew() bool    { return d.ID.IsEmpty() }
func (d TransactionDraft) IsNew() bool { return d.ID.IsEmpty() }
func (d GoalDraft) IsNew() bool        { return d.ID.IsEmpty() }

func refText(r *int64) string {
	if r == nil {
		return ""
	}
	return IDFromInt(*r).String()
}
