package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  CategoryType = "Income"
	Expense CategoryType = "Expense"

	Daily   Period = "Daily"
	Weekly  Period = "Weekly"
	Monthly Period = "Monthly"
	Yearly  Period = "Yearly"

	Active    GoalStatus = "Active"
	Completed GoalStatus = "Completed"
	Cancelled GoalStatus = "Cancelled"

	// DefaultPaymentMethod is used when a transaction carries none.
	DefaultPaymentMethod = "Cash"

	dateLayout = "2006-01-02"
)

type (
	// ID is an opaque identifier issued by a remote service. Numeric ids are
	// kept in their canonical integer form ("12", never "12.0").
	ID string

	CategoryType string
	Period       string
	GoalStatus   string

	// Date is a calendar date as received from a service. Raw keeps the
	// text as received when it could not be parsed, so a missing date and an
	// unparseable one stay distinguishable.
	Date struct {
		time.Time
		Raw string
	}

	Category struct {
		ID          ID
		Name        string
		Description string
		Type        CategoryType
	}

	Budget struct {
		ID          ID
		Name        string
		Amount      decimal.Decimal
		Period      Period
		Description string
		StartDate   Date
		EndDate     Date
		UserID      *int64
		CategoryID  *int64
	}

	Transaction struct {
		ID              ID
		Amount          decimal.Decimal
		TransactionType string
		CategoryID      *int64
		TransactionDate Date
		Description     string
		PaymentMethod   string
		UserID          *int64
	}

	SavingsGoal struct {
		ID            ID
		UserID        *int64
		GoalName      string
		TargetAmount  decimal.Decimal
		CurrentAmount decimal.Decimal
		TargetDate    Date
		Status        GoalStatus
	}
)

var (
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrMissingUser    = errors.New("missing user identifier")
	ErrUnknownPeriod  = errors.New("unknown budget period")
	ErrInvalidRange   = errors.New("end date must be after start date")
	ErrMissingDates   = errors.New("start and end dates are required")
	ErrNotFound       = errors.New("entity not found")
	ErrUnknownCommand = errors.New("unknown command")
)

// IDFromInt renders a numeric identifier in canonical form.
func IDFromInt(v int64) ID {
	return ID(strconv.FormatInt(v, 10))
}

// IDFromFloat renders an integral float as an integer id and anything else
// with the shortest float formatting.
func IDFromFloat(f float64) ID {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return IDFromInt(int64(f))
	}
	return ID(strconv.FormatFloat(f, 'f', -1, 64))
}

func (id ID) String() string {
	return string(id)
}

// IsEmpty reports whether the id is blank.
func (id ID) IsEmpty() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Int64 returns the numeric form of the id when it has one.
func (id ID) Int64() (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Ref returns a pointer to the numeric form of the id, or nil.
func (id ID) Ref() *int64 {
	v, ok := id.Int64()
	if !ok {
		return nil
	}
	return &v
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// SameRef reports whether two nullable references point at the same id.
// Two nil references never match.
func SameRef(a, b *int64) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return Date{Time: t, Raw: t.Format(dateLayout)}
}

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate never fails: an empty string yields an empty Date and text that
// matches no known layout is kept in Raw with a zero Time.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), int(t.Month()), t.Day())
		}
	}
	return Date{Raw: s}
}

// IsEmpty returns true when no date text was supplied at all
func (d Date) IsEmpty() bool {
	return d.Time.IsZero() && d.Raw == ""
}

// Valid returns true when the date parsed to a calendar day
func (d Date) Valid() bool {
	return !d.Time.IsZero()
}

// String returns the canonical YYYY-MM-DD form, or the raw text for
// unparseable dates.
func (d Date) String() string {
	if d.Valid() {
		return d.Time.Format(dateLayout)
	}
	return d.Raw
}

// Equal compares two dates by calendar day and raw text.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time) && d.Raw == o.Raw
}

// Within reports whether d falls on a calendar day in [start, end].
func (d Date) Within(start, end Date) bool {
	if !d.Valid() || !start.Valid() || !end.Valid() {
		return false
	}
	return !d.Time.Before(start.Time) && !d.Time.After(end.Time)
}

// ParsePeriod matches a period name case-insensitively.
func ParsePeriod(s string) (Period, error) {
	for _, p := range []Period{Daily, Weekly, Monthly, Yearly} {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", ErrUnknownPeriod
}

// IsIncome reports whether the free-form transaction type denotes income.
func (t Transaction) IsIncome() bool {
	return strings.EqualFold(strings.TrimSpace(t.TransactionType), "income")
}

// Is compares category types case-insensitively.
func (c CategoryType) Is(other string) bool {
	return strings.EqualFold(strings.TrimSpace(string(c)), strings.TrimSpace(other))
}

// IsCompleted compares the status with Completed case-insensitively.
func (s GoalStatus) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(Completed))
}
