package validate

import (
	"time"

	"github.com/go-playground/validator/v10"

	"finboard/internal/core"
)

const (
	msgFillAll   = "Please fill all fields"
	msgDates     = "Start and end dates are required"
	msgDateShape = "Dates must use the YYYY-MM-DD format"
)

type categoryInput struct {
	Name string `validate:"notblank"`
}

var categoryRules = []rule{
	{"Name", "notblank", "Name is required"},
}

// Category checks a category draft.
func Category(d core.CategoryDraft) error {
	return check(categoryInput{Name: d.Name}, categoryRules)
}

type budgetInput struct {
	Name       string `validate:"notblank"`
	Amount     string `validate:"amount=gt"`
	Period     string `validate:"omitempty,period"`
	StartDate  string `validate:"notblank,isodate"`
	EndDate    string `validate:"notblank,isodate"`
	CategoryID string `validate:"notblank,ref"`
	UserID     string `validate:"notblank"`
}

var budgetRules = []rule{
	{"Name", "notblank", "Name is required"},
	{"Amount", "amount", "Amount must be greater than 0"},
	{"Period", "period", "Invalid period"},
	{"StartDate", "notblank", msgDates},
	{"EndDate", "notblank", msgDates},
	{"StartDate", "isodate", msgDateShape},
	{"EndDate", "isodate", msgDateShape},
	{"EndDate", "after", "End date must be after start date"},
	{"CategoryID", "notblank", "Please select a category"},
	{"CategoryID", "ref", "Please select a category"},
	{"UserID", "notblank", "User is not logged in properly. Please re-login."},
}

// Budget checks a budget draft for the resolved user.
func Budget(d core.BudgetDraft, user core.ID) error {
	return check(budgetInput{
		Name:       d.Name,
		Amount:     d.Amount,
		Period:     string(d.Period),
		StartDate:  d.StartDate,
		EndDate:    d.EndDate,
		CategoryID: d.CategoryID,
		UserID:     user.String(),
	}, budgetRules)
}

func budgetRange(sl validator.StructLevel) {
	in := sl.Current().Interface().(budgetInput)
	start, err := time.Parse("2006-01-02", in.StartDate)
	if err != nil {
		return
	}
	end, err := time.Parse("2006-01-02", in.EndDate)
	if err != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(in.EndDate, "EndDate", "EndDate", "after", "StartDate")
	}
}

type transactionInput struct {
	Amount          string `validate:"amount=ne"`
	UserID          string `validate:"notblank"`
	CategoryID      string `validate:"notblank,ref"`
	TransactionDate string `validate:"omitempty,isodate"`
}

var transactionRules = []rule{
	{"Amount", "amount", "Amount is required"},
	{"UserID", "notblank", "Missing user"},
	{"CategoryID", "notblank", "Select category"},
	{"CategoryID", "ref", "Select category"},
	{"TransactionDate", "isodate", msgDateShape},
}

// Transaction checks a transaction draft for the resolved user.
func Transaction(d core.TransactionDraft, user core.ID) error {
	return check(transactionInput{
		Amount:          d.Amount,
		UserID:          user.String(),
		CategoryID:      d.CategoryID,
		TransactionDate: d.TransactionDate,
	}, transactionRules)
}

type goalInput struct {
	UserID        string `validate:"notblank"`
	TargetAmount  string `validate:"amount=gt"`
	CurrentAmount string `validate:"amount=gte"`
	TargetDate    string `validate:"omitempty,isodate"`
}

var goalRules = []rule{
	{"UserID", "notblank", "Missing user"},
	{"TargetAmount", "amount", "Target amount must be > 0"},
	{"CurrentAmount", "amount", "Current amount must be >= 0"},
	{"TargetDate", "isodate", msgDateShape},
}

// Goal checks a savings goal draft for the resolved user.
func Goal(d core.GoalDraft, user core.ID) error {
	return check(goalInput{
		UserID:        user.String(),
		TargetAmount:  d.TargetAmount,
		CurrentAmount: d.CurrentAmount,
		TargetDate:    d.TargetDate,
	}, goalRules)
}

type fundsInput struct {
	Amount string `validate:"amount=gt"`
}

// Funds checks an add-funds amount.
func Funds(amount string) error {
	return check(fundsInput{Amount: amount}, []rule{
		{"Amount", "amount", "Amount must be greater than 0"},
	})
}

type loginInput struct {
	Username string `validate:"notblank"`
	Password string `validate:"notblank"`
}

// Login checks the login form.
func Login(c core.Credentials) error {
	return check(loginInput(c), []rule{
		{"Username", "notblank", msgFillAll},
		{"Password", "notblank", msgFillAll},
	})
}

type registerInput struct {
	Fullname        string `validate:"notblank"`
	Email           string `validate:"notblank,email"`
	Password        string `validate:"notblank,min=6"`
	ConfirmPassword string `validate:"notblank,eqfield=Password"`
}

var registerRules = []rule{
	{"Fullname", "notblank", msgFillAll},
	{"Email", "notblank", msgFillAll},
	{"Password", "notblank", msgFillAll},
	{"ConfirmPassword", "notblank", msgFillAll},
	{"ConfirmPassword", "eqfield", "Passwords do not match"},
	{"Password", "min", "Password must be at least 6 characters"},
	{"Email", "email", "Please enter a valid email"},
}

// Register checks the sign-up form.
func Register(r core.Registration) error {
	return check(registerInput(r), registerRules)
}
