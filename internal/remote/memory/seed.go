package memory

import (
	"encoding/json"

	"finboard/internal/core"
)

// Demo account created by NewSeeded.
const (
	DemoUsername = "demo"
	DemoEmail    = "demo@finboard.local"
	DemoPassword = "demo123"
)

// NewSeeded returns a store with one demo user and a handful of records
// spelled the way each service actually spells them.
func NewSeeded() *Store {
	s := New()
	s.AddUser(DemoUsername, DemoEmail, DemoPassword)

	n := func(v string) json.Number { return json.Number(v) }

	s.categories.items = []core.Payload{
		{"category_id": int64(1), "category_name": "Salary", "category_type": "Income", "category_description": "Monthly pay"},
		{"categoryId": int64(2), "categoryName": "Groceries", "categoryType": "Expense"},
		{"id": int64(3), "name": "Rent", "type": "expense", "description": "Flat"},
		{"id": int64(4), "name": "Transport", "type": "Expense"},
	}
	s.categories.next = 5

	s.budgets.items = []core.Payload{
		{
			"budget_id": int64(1), "budget_name": "Food", "budget_amount": n("400"), "budget_period": "Monthly",
			"start_date": "2024-01-01", "end_date": "2024-01-31", "user_id": int64(1), "category_id": int64(2),
		},
		{
			"budgetId": int64(2), "budgetName": "Commute", "budgetAmount": "120.50", "budgetPeriod": "monthly",
			"startDate": "2024-01-01", "endDate": "2024-03-31", "userID": n("1"), "budgetCategoryId": "4",
		},
	}
	s.budgets.next = 3

	s.transactions.items = []core.Payload{
		{"transaction_id": int64(1), "amount": n("2500"), "transaction_type": "Income", "category_id": int64(1),
			"transaction_date": "2024-01-02", "payment_method": "Bank Transfer", "user_id": int64(1), "description": "January salary"},
		{"transactionId": int64(2), "transactionAmount": n("82.40"), "transactionType": "Expense", "categoryId": int64(2),
			"transactionDate": "2024-01-06", "paymentMethod": "Card", "userId": int64(1)},
		{"id": int64(3), "amount": n("900"), "type": "expense", "categoryId": "3",
			"date": "2024-01-05T09:30:00", "userId": n("1"), "description": "Rent"},
		{"id": int64(4), "amount": "-35", "transactionType": "Expense", "category_id": int64(4),
			"transactionDate": "2024-01-20", "user_id": int64(1)},
		{"id": int64(5), "amount": n("12.5"), "transactionType": "Income", "categoryId": int64(2),
			"transactionDate": "2024-01-21", "userId": int64(1), "description": "Refund"},
	}
	s.transactions.next = 6

	s.goals.items = []core.Payload{
		{"goal_id": int64(1), "goal_name": "Emergency fund", "target_amount": n("3000"), "current_amount": n("750"),
			"target_date": "2024-12-31", "status": "active", "user_id": int64(1)},
		{"goalId": int64(2), "goalName": "Bike", "targetAmount": "600", "currentAmount": "600",
			"targetDate": "2024-06-01", "goalStatus": "Completed", "userId": int64(1)},
	}
	s.goals.next = 3

	return s
}
