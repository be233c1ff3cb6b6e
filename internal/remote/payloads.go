package remote

import (
	"encoding/json"
	"strings"

	"finboard/internal/core"
)

// The services bind request fields under different conventions, so writes
// send every field under each of its known spellings.

// CategoryPayload builds the create/update body for a category.
func CategoryPayload(d core.CategoryDraft) core.Payload {
	name := strings.TrimSpace(d.Name)
	desc := strings.TrimSpace(d.Description)
	typ := string(d.Type)
	if strings.TrimSpace(typ) == "" {
		typ = string(core.Expense)
	}
	return core.Payload{
		"name":                 name,
		"description":          desc,
		"type":                 typ,
		"categoryName":         name,
		"categoryType":         typ,
		"categoryDescription":  desc,
		"category_name":        name,
		"category_type":        typ,
		"category_description": desc,
	}
}

// BudgetPayload builds the create body for a budget. For an existing
// budget the id is added under its three spellings.
func BudgetPayload(d core.BudgetDraft, user core.ID) core.Payload {
	name := strings.TrimSpace(d.Name)
	desc := strings.TrimSpace(d.Description)
	amount := number(d.Amount)
	period := string(d.Period)
	if p, err := core.ParsePeriod(period); err == nil {
		period = string(p)
	} else if strings.TrimSpace(period) == "" {
		period = string(core.Monthly)
	}
	userID := ref(user.Ref())
	categoryID := ref(core.ID(d.CategoryID).Ref())

	p := core.Payload{
		"name":               name,
		"amount":             amount,
		"period":             period,
		"description":        desc,
		"startDate":          d.StartDate,
		"endDate":            d.EndDate,
		"userId":             userID,
		"categoryId":         categoryID,
		"budgetName":         name,
		"budgetAmount":       amount,
		"budgetPeriod":       period,
		"budgetDescription":  desc,
		"userID":             userID,
		"budgetUserId":       userID,
		"budgetCategoryId":   categoryID,
		"budget_name":        name,
		"budget_amount":      amount,
		"budget_period":      period,
		"budget_description": desc,
		"Budget_description": desc,
		"start_date":         d.StartDate,
		"end_date":           d.EndDate,
		"user_id":            userID,
		"category_id":        categoryID,
	}
	if !d.IsNew() {
		id := ref(d.ID.Ref())
		p["id"] = id
		p["budgetId"] = id
		p["budget_id"] = id
	}
	return p
}

// TransactionPayload builds the create/update body for a transaction.
func TransactionPayload(d core.TransactionDraft, user core.ID) core.Payload {
	p := core.Payload{
		"userId":          ref(user.Ref()),
		"categoryId":      ref(core.ID(d.CategoryID).Ref()),
		"amount":          number(d.Amount),
		"transactionType": d.TransactionType,
		"transactionDate": d.TransactionDate,
		"description":     d.Description,
		"paymentMethod":   d.PaymentMethod,
	}
	if !d.IsNew() {
		p["transactionId"] = d.ID.String()
	}
	return p
}

// GoalPayload builds the create/update body for a savings goal.
func GoalPayload(d core.GoalDraft, user core.ID) core.Payload {
	status := d.Status
	if strings.TrimSpace(string(status)) == "" {
		status = core.Active
	}
	p := core.Payload{
		"userId":        ref(user.Ref()),
		"goalName":      d.GoalName,
		"targetAmount":  number(d.TargetAmount),
		"currentAmount": number(d.CurrentAmount),
		"targetDate":    d.TargetDate,
		"status":        string(status),
	}
	if !d.IsNew() {
		p["goalId"] = d.ID.String()
	}
	return p
}

// LoginPayload builds the login body.
func LoginPayload(c core.Credentials) core.Payload {
	return core.Payload{"username": c.Username, "password": c.Password}
}

// RegisterPayload builds the registration body. The service stores the
// full name as the username.
func RegisterPayload(r core.Registration) core.Payload {
	return core.Payload{
		"username":      r.Fullname,
		"email":         r.Email,
		"password_hash": r.Password,
	}
}

// number renders a typed amount as a JSON number; blank or invalid input is
// sent as 0.
func number(s string) json.Number {
	d, err := core.ParseAmount(s)
	if err != nil {
		return json.Number("0")
	}
	return json.Number(d.String())
}

func ref(r *int64) any {
	if r == nil {
		return nil
	}
	return *r
}
