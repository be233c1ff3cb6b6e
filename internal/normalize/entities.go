package normalize

import (
	"encoding/json"
	"strings"

	"finboard/internal/core"
)

// Alias tables. Order is precedence: canonical name, camelCase service alias,
// snake_case service alias, then legacy spellings.
var (
	CategoryID          = []string{"id", "categoryId", "category_id"}
	CategoryName        = []string{"name", "categoryName", "category_name"}
	CategoryDescription = []string{"description", "categoryDescription", "category_description"}
	CategoryKind        = []string{"type", "categoryType", "category_type"}

	BudgetID          = []string{"id", "budgetId", "budget_id"}
	BudgetName        = []string{"name", "budgetName", "budget_name", "title"}
	BudgetAmount      = []string{"amount", "budgetAmount", "budget_amount"}
	BudgetPeriod      = []string{"period", "budgetPeriod", "budget_period"}
	BudgetDescription = []string{"description", "budgetDescription", "budget_description", "Budget_description"}
	BudgetStart       = []string{"startDate", "start_date"}
	BudgetEnd         = []string{"endDate", "end_date"}
	BudgetUser        = []string{"userId", "user_id", "userID", "budgetUserId"}
	BudgetCategory    = []string{"categoryId", "category_id", "budgetCategoryId"}

	TransactionID          = []string{"id", "transactionId", "transaction_id"}
	TransactionAmount      = []string{"amount", "transactionAmount", "transaction_amount"}
	TransactionKind        = []string{"transactionType", "transaction_type", "type"}
	TransactionCategory    = []string{"categoryId", "category_id"}
	TransactionDate        = []string{"transactionDate", "transaction_date", "date"}
	TransactionDescription = []string{"description", "transactionDescription", "transaction_description"}
	TransactionPayment     = []string{"paymentMethod", "payment_method"}
	TransactionUser        = []string{"userId", "user_id"}

	GoalID      = []string{"id", "goalId", "goal_id"}
	GoalUser    = []string{"userId", "user_id"}
	GoalName    = []string{"goalName", "goal_name", "name"}
	GoalTarget  = []string{"targetAmount", "target_amount"}
	GoalCurrent = []string{"currentAmount", "current_amount"}
	GoalDate    = []string{"targetDate", "target_date"}
	GoalStatus  = []string{"status", "goalStatus", "goal_status"}
)

// Category maps a category payload. Nil in, nil out.
func Category(p core.Payload) *core.Category {
	if p == nil {
		return nil
	}
	return &core.Category{
		ID:          Identifier(p, CategoryID...),
		Name:        Text(p, "", CategoryName...),
		Description: Text(p, "", CategoryDescription...),
		Type:        categoryType(Text(p, "", CategoryKind...)),
	}
}

// Budget maps a budget payload. Nil in, nil out.
func Budget(p core.Payload) *core.Budget {
	if p == nil {
		return nil
	}
	return &core.Budget{
		ID:          Identifier(p, BudgetID...),
		Name:        Text(p, "", BudgetName...),
		Amount:      Amount(p, BudgetAmount...),
		Period:      period(Text(p, "", BudgetPeriod...)),
		Description: Text(p, "", BudgetDescription...),
		StartDate:   Date(p, BudgetStart...),
		EndDate:     Date(p, BudgetEnd...),
		UserID:      Ref(p, BudgetUser...),
		CategoryID:  Ref(p, BudgetCategory...),
	}
}

// Transaction maps a transaction payload. Nil in, nil out.
func Transaction(p core.Payload) *core.Transaction {
	if p == nil {
		return nil
	}
	payment := Text(p, "", TransactionPayment...)
	if strings.TrimSpace(payment) == "" {
		payment = core.DefaultPaymentMethod
	}
	return &core.Transaction{
		ID:              Identifier(p, TransactionID...),
		Amount:          Amount(p, TransactionAmount...),
		TransactionType: Text(p, "", TransactionKind...),
		CategoryID:      Ref(p, TransactionCategory...),
		TransactionDate: Date(p, TransactionDate...),
		Description:     Text(p, "", TransactionDescription...),
		PaymentMethod:   payment,
		UserID:          Ref(p, TransactionUser...),
	}
}

// SavingsGoal maps a savings goal payload. Nil in, nil out.
func SavingsGoal(p core.Payload) *core.SavingsGoal {
	if p == nil {
		return nil
	}
	return &core.SavingsGoal{
		ID:            Identifier(p, GoalID...),
		UserID:        Ref(p, GoalUser...),
		GoalName:      Text(p, "", GoalName...),
		TargetAmount:  Amount(p, GoalTarget...),
		CurrentAmount: Amount(p, GoalCurrent...),
		TargetDate:    Date(p, GoalDate...),
		Status:        goalStatus(Text(p, "", GoalStatus...)),
	}
}

// Categories maps a list, dropping entries that are not objects.
func Categories(items []any) []core.Category {
	out := make([]core.Category, 0, len(items))
	for _, it := range items {
		if c := Category(object(it)); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// Budgets maps a list, dropping entries that are not objects.
func Budgets(items []any) []core.Budget {
	out := make([]core.Budget, 0, len(items))
	for _, it := range items {
		if b := Budget(object(it)); b != nil {
			out = append(out, *b)
		}
	}
	return out
}

// Transactions maps a list, dropping entries that are not objects.
func Transactions(items []any) []core.Transaction {
	out := make([]core.Transaction, 0, len(items))
	for _, it := range items {
		if t := Transaction(object(it)); t != nil {
			out = append(out, *t)
		}
	}
	return out
}

// SavingsGoals maps a list, dropping entries that are not objects.
func SavingsGoals(items []any) []core.SavingsGoal {
	out := make([]core.SavingsGoal, 0, len(items))
	for _, it := range items {
		if g := SavingsGoal(object(it)); g != nil {
			out = append(out, *g)
		}
	}
	return out
}

// CategoryPayload renders a canonical record with canonical keys only.
func CategoryPayload(c core.Category) core.Payload {
	return core.Payload{
		"id":          c.ID.String(),
		"name":        c.Name,
		"description": c.Description,
		"type":        string(c.Type),
	}
}

// BudgetPayload renders a canonical record with canonical keys only.
func BudgetPayload(b core.Budget) core.Payload {
	return core.Payload{
		"id":          b.ID.String(),
		"name":        b.Name,
		"amount":      json.Number(b.Amount.String()),
		"period":      string(b.Period),
		"description": b.Description,
		"startDate":   b.StartDate.String(),
		"endDate":     b.EndDate.String(),
		"userId":      refValue(b.UserID),
		"categoryId":  refValue(b.CategoryID),
	}
}

// TransactionPayload renders a canonical record with canonical keys only.
func TransactionPayload(t core.Transaction) core.Payload {
	return core.Payload{
		"id":              t.ID.String(),
		"amount":          json.Number(t.Amount.String()),
		"transactionType": t.TransactionType,
		"categoryId":      refValue(t.CategoryID),
		"transactionDate": t.TransactionDate.String(),
		"description":     t.Description,
		"paymentMethod":   t.PaymentMethod,
		"userId":          refValue(t.UserID),
	}
}

// SavingsGoalPayload renders a canonical record with canonical keys only.
func SavingsGoalPayload(g core.SavingsGoal) core.Payload {
	return core.Payload{
		"id":            g.ID.String(),
		"userId":        refValue(g.UserID),
		"goalName":      g.GoalName,
		"targetAmount":  json.Number(g.TargetAmount.String()),
		"currentAmount": json.Number(g.CurrentAmount.String()),
		"targetDate":    g.TargetDate.String(),
		"status":        string(g.Status),
	}
}

func categoryType(s string) core.CategoryType {
	if core.Income.Is(s) {
		return core.Income
	}
	return core.Expense
}

func period(s string) core.Period {
	if p, err := core.ParsePeriod(s); err == nil {
		return p
	}
	return core.Monthly
}

func goalStatus(s string) core.GoalStatus {
	for _, st := range []core.GoalStatus{core.Active, core.Completed, core.Cancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st
		}
	}
	return core.Active
}

func refValue(r *int64) any {
	if r == nil {
		return nil
	}
	return *r
}

func object(v any) core.Payload {
	m, _ := v.(map[string]any)
	return m
}

// Field lists group the alias tables of each entity.
var (
	CategoryFields = [][]string{CategoryID, CategoryName, CategoryDescription, CategoryKind}
	BudgetFields   = [][]string{
		BudgetID, BudgetName, BudgetAmount, BudgetPeriod, BudgetDescription,
		BudgetStart, BudgetEnd, BudgetUser, BudgetCategory,
	}
	TransactionFields = [][]string{
		TransactionID, TransactionAmount, TransactionKind, TransactionCategory,
		TransactionDate, TransactionDescription, TransactionPayment, TransactionUser,
	}
	GoalFields = [][]string{GoalID, GoalUser, GoalName, GoalTarget, GoalCurrent, GoalDate, GoalStatus}
)

// Fill returns a copy of primary where every field that primary does not
// define is taken from fallback under its canonical key. It is used to keep
// the submitted values when a write response comes back empty or partial.
func Fill(primary, fallback core.Payload, fields [][]string) core.Payload {
	out := make(core.Payload, len(primary)+len(fields))
	for k, v := range primary {
		out[k] = v
	}
	for _, aliases := range fields {
		if _, ok := First(primary, aliases...); ok {
			continue
		}
		if v, ok := First(fallback, aliases...); ok {
			out[aliases[0]] = v
		}
	}
	return out
}
