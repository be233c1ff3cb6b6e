package core

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-40", "-40", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(decimal.NewFromFloat(12.345)); got != "$12.35" {
		t.Fatalf("unexpected %q", got)
	}
	if got := FormatMoney(decimal.NewFromInt(-5)); got != "-$5.00" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(150, 0, 100) != 100 || Clamp(-1, 0, 100) != 0 || Clamp(42, 0, 100) != 42 {
		t.Fatalf("clamp out of bounds")
	}
	if Clamp(math.NaN(), 0, 100) != 0 {
		t.Fatalf("NaN must clamp to the lower bound")
	}
}

func TestRoundTo(t *testing.T) {
	if RoundTo(33.333333, 1) != 33.3 || RoundTo(66.66666, 1) != 66.7 {
		t.Fatalf("unexpected rounding")
	}
}
