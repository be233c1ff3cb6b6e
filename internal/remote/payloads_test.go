package remote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"finboard/internal/core"
	"finboard/internal/normalize"
)

func TestBudgetPayloadAliases(t *testing.T) {
	d := core.NewBudgetDraft()
	d.Name = " Food "
	d.Amount = "200,50"
	d.StartDate = "2024-01-01"
	d.EndDate = "2024-01-31"
	d.CategoryID = "3"

	p := BudgetPayload(d, "5")

	for _, key := range []string{"name", "budgetName", "budget_name"} {
		assert.Equal(t, "Food", p[key], key)
	}
	for _, key := range []string{"amount", "budgetAmount", "budget_amount"} {
		assert.Equal(t, json.Number("200.5"), p[key], key)
	}
	for _, key := range []string{"userId", "userID", "budgetUserId", "user_id"} {
		assert.Equal(t, int64(5), p[key], key)
	}
	for _, key := range []string{"categoryId", "budgetCategoryId", "category_id"} {
		assert.Equal(t, int64(3), p[key], key)
	}
	assert.Equal(t, "Monthly", p["budget_period"])
	assert.NotContains(t, p, "budgetId", "create has no id")
	assert.GreaterOrEqual(t, len(p), 10)

	d.ID = "12"
	p = BudgetPayload(d, "5")
	assert.Equal(t, int64(12), p["id"])
	assert.Equal(t, int64(12), p["budgetId"])
	assert.Equal(t, int64(12), p["budget_id"])
}

func TestBudgetPayloadRoundTrips(t *testing.T) {
	d := core.NewBudgetDraft()
	d.Name = "Rent"
	d.Amount = "900"
	d.Period = "weekly"
	d.StartDate = "2024-02-01"
	d.EndDate = "2024-02-29"
	d.CategoryID = "2"

	b := normalize.Budget(BudgetPayload(d, "7"))

	assert.Equal(t, "Rent", b.Name)
	assert.Equal(t, "900", b.Amount.String())
	assert.Equal(t, core.Weekly, b.Period)
	assert.Equal(t, core.Int64Ptr(7), b.UserID)
	assert.Equal(t, core.Int64Ptr(2), b.CategoryID)
}

func TestCategoryPayloadDefaultsType(t *testing.T) {
	p := CategoryPayload(core.CategoryDraft{Name: "Books"})
	assert.Equal(t, "Expense", p["type"])
	assert.Equal(t, "Expense", p["category_type"])
	assert.Len(t, p, 9)
}

func TestNonNumericUserIsNull(t *testing.T) {
	p := TransactionPayload(core.TransactionDraft{Amount: "-3", CategoryID: ""}, "alice")
	assert.Nil(t, p["userId"])
	assert.Nil(t, p["categoryId"])
	assert.Equal(t, json.Number("-3"), p["amount"])
}

func TestGoalPayload(t *testing.T) {
	d := core.EditGoal(core.SavingsGoal{ID: "g1", GoalName: "Car"})
	d.TargetAmount = "1000"
	d.CurrentAmount = ""

	p := GoalPayload(d, "5")
	assert.Equal(t, "g1", p["goalId"])
	assert.Equal(t, json.Number("0"), p["currentAmount"])
	assert.Equal(t, "Active", p["status"])
}

func TestRegisterPayload(t *testing.T) {
	p := RegisterPayload(core.Registration{Fullname: "Bob", Email: "b@x.io", Password: "secret", ConfirmPassword: "secret"})
	assert.Equal(t, core.Payload{"username": "Bob", "email": "b@x.io", "password_hash": "secret"}, p)
}
