// Package remote declares the ports to the six backend services and builds
// the payloads sent to them. Adapters live in the rest and memory
// subpackages.
package remote

import (
	"context"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
	"finboard/internal/reports"
)

// Ports for outbound adapters. List calls return the decoded JSON array as
// is; writes return the decoded response object, or nil when the service
// answered with an empty body.
type (
	CategoryService interface {
		ListCategories(ctx context.Context) ([]any, error)
		CreateCategory(ctx context.Context, p core.Payload) (core.Payload, error)
		UpdateCategory(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error)
		DeleteCategory(ctx context.Context, id core.ID) error
	}

	BudgetService interface {
		ListBudgets(ctx context.Context, user core.ID) ([]any, error)
		CreateBudget(ctx context.Context, p core.Payload) (core.Payload, error)
		UpdateBudget(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error)
		DeleteBudget(ctx context.Context, id core.ID) error
	}

	TransactionService interface {
		ListTransactions(ctx context.Context, user core.ID) ([]any, error)
		CreateTransaction(ctx context.Context, p core.Payload) (core.Payload, error)
		UpdateTransaction(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error)
		DeleteTransaction(ctx context.Context, id core.ID) error
	}

	SavingsService interface {
		ListGoals(ctx context.Context, user core.ID) ([]any, error)
		CreateGoal(ctx context.Context, p core.Payload) (core.Payload, error)
		UpdateGoal(ctx context.Context, id core.ID, p core.Payload) (core.Payload, error)
		DeleteGoal(ctx context.Context, id core.ID) error
		AddFunds(ctx context.Context, id core.ID, amount decimal.Decimal) (core.Payload, error)
	}

	// ReportService fetches one report. The result is the decoded JSON body:
	// an array for list reports, an object for forecast and summary.
	ReportService interface {
		FetchReport(ctx context.Context, req reports.Request) (any, error)
	}

	// UserService authenticates users. Login returns the "current user"
	// value consumed by identity.Resolve.
	UserService interface {
		Login(ctx context.Context, p core.Payload) (core.Payload, error)
		Register(ctx context.Context, p core.Payload) (core.Payload, error)
	}
)

// Backend is implemented by every adapter.
type Backend interface {
	CategoryService
	BudgetService
	TransactionService
	SavingsService
	ReportService
	UserService
}
