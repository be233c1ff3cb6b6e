package reports

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
)

func TestBuild(t *testing.T) {
	params := Params{
		UserID:       "5",
		Month:        3,
		Year:         2024,
		CategoryType: "Expense",
		StartDate:    core.NewDate(2024, 1, 1),
		EndDate:      core.NewDate(2024, 3, 31),
	}

	tests := []struct {
		sel  Selector
		want url.Values
	}{
		{MonthlyExpenditure, url.Values{"userId": {"5"}, "month": {"3"}, "year": {"2024"}}},
		{BudgetAdherence, url.Values{"userId": {"5"}}},
		{SavingsProgress, url.Values{"userId": {"5"}}},
		{CategoryDistribution, url.Values{"userId": {"5"}}},
		{SavingsForecast, url.Values{"userId": {"5"}}},
		{Summary, url.Values{"userId": {"5"}, "startDate": {"2024-01-01"}, "endDate": {"2024-03-31"}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sel), func(t *testing.T) {
			req, ok := Build(tt.sel, params)
			require.True(t, ok)
			assert.Equal(t, tt.sel, req.Selector)
			assert.Equal(t, "/"+string(tt.sel), req.Path)
			assert.Equal(t, tt.want, req.Query)
		})
	}
}

func TestBuild_SummaryWithoutDates(t *testing.T) {
	req, ok := Build(Summary, Params{UserID: "5"})
	require.True(t, ok)
	assert.Equal(t, url.Values{"userId": {"5"}}, req.Query)
}

func TestBuild_NoRequest(t *testing.T) {
	_, ok := Build("weekly-mood", Params{UserID: "5"})
	assert.False(t, ok, "unknown selector issues no request")

	_, ok = Build(BudgetAdherence, Params{})
	assert.False(t, ok, "missing user issues no request")
}

func TestRequestURL(t *testing.T) {
	req, _ := Build(MonthlyExpenditure, Params{UserID: "7", Month: 1, Year: 2025})
	assert.Equal(t,
		"http://localhost:8095/api/reports/monthly-expenditure?month=1&userId=7&year=2025",
		req.URL("http://localhost:8095/api/reports"))
}

func TestSelectorsAreKnown(t *testing.T) {
	for _, s := range Selectors() {
		assert.True(t, Known(s), s)
	}
	assert.False(t, Known("nope"))
}
