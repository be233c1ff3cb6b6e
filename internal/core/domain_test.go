package core

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
		empty bool
		out   string
	}{
		{"2024-01-10", true, false, "2024-01-10"},
		{"2024-01-10T15:04:05Z", true, false, "2024-01-10"},
		{"2024-01-10T15:04:05", true, false, "2024-01-10"},
		{"2024-01-10 15:04:05", true, false, "2024-01-10"},
		{"  2024-02-29 ", true, false, "2024-02-29"},
		{"", false, true, ""},
		{"   ", false, true, ""},
		{"next tuesday", false, false, "next tuesday"},
		{"2024-13-01", false, false, "2024-13-01"},
	}
	for _, tc := range cases {
		d := ParseDate(tc.in)
		if d.Valid() != tc.valid || d.IsEmpty() != tc.empty || d.String() != tc.out {
			t.Fatalf("%q: valid=%v empty=%v string=%q", tc.in, d.Valid(), d.IsEmpty(), d.String())
		}
	}
}

func TestParseDateIsStable(t *testing.T) {
	first := ParseDate("2024-03-05T10:00:00Z")
	again := ParseDate(first.String())
	if !first.Equal(again) {
		t.Fatalf("expected %v, got %v", first, again)
	}
}

func TestDateWithin(t *testing.T) {
	start, end := NewDate(2024, 1, 1), NewDate(2024, 1, 31)
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2024, 1, 1), true},
		{NewDate(2024, 1, 31), true},
		{ParseDate("2024-01-31T23:00:00Z"), true},
		{NewDate(2023, 12, 31), false},
		{NewDate(2024, 2, 1), false},
		{ParseDate("garbage"), false},
		{Date{Time: time.Time{}}, false},
	}
	for i, tc := range cases {
		if got := tc.d.Within(start, end); got != tc.ok {
			t.Fatalf("case %d: expected %v, got %v", i, tc.ok, got)
		}
	}
}

func TestIDConversions(t *testing.T) {
	if IDFromFloat(12) != "12" {
		t.Fatalf("expected integral float to render without decimals")
	}
	if IDFromFloat(1.5) != "1.5" {
		t.Fatalf("unexpected %q", IDFromFloat(1.5))
	}
	if v, ok := ID(" 42 ").Int64(); !ok || v != 42 {
		t.Fatalf("expected 42, got %d %v", v, ok)
	}
	if ID("abc").Ref() != nil {
		t.Fatalf("expected nil ref for non-numeric id")
	}
	if !ID("  ").IsEmpty() {
		t.Fatalf("expected blank id to be empty")
	}
}

func TestSameRef(t *testing.T) {
	if SameRef(nil, nil) {
		t.Fatalf("nil references must not match")
	}
	if SameRef(Int64Ptr(1), nil) {
		t.Fatalf("nil reference must not match")
	}
	if !SameRef(Int64Ptr(3), Int64Ptr(3)) {
		t.Fatalf("equal references must match")
	}
}

func TestParsePeriod(t *testing.T) {
	if p, err := ParsePeriod("monthly"); err != nil || p != Monthly {
		t.Fatalf("expected Monthly, got %q %v", p, err)
	}
	if _, err := ParsePeriod("fortnightly"); err != ErrUnknownPeriod {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestCaseInsensitiveKinds(t *testing.T) {
	if !(Transaction{TransactionType: " INCOME "}).IsIncome() {
		t.Fatalf("expected income")
	}
	if (Transaction{TransactionType: "Expense"}).IsIncome() {
		t.Fatalf("expected expense")
	}
	if !GoalStatus("completed").IsCompleted() {
		t.Fatalf("expected completed")
	}
	if !Income.Is("income") || Expense.Is("income") {
		t.Fatalf("unexpected category type comparison")
	}
}
