package export

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"

	"finboard/internal/reports"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTable(t *testing.T) {
	tests := []struct {
		name string
		r    reports.Report
		want [][]any
	}{
		{
			name: "monthly expenditure",
			r: reports.Report{Selector: reports.MonthlyExpenditure, Expenditure: []reports.Expenditure{
				{Category: "Rent", Amount: dec("900"), TransactionCount: 1},
			}},
			want: [][]any{{"Category", "Amount", "Transactions"}, {"Rent", "900.00", int64(1)}},
		},
		{
			name: "distribution gets shares",
			r: reports.Report{Selector: reports.CategoryDistribution, Distribution: []reports.CategoryAmount{
				{Category: "A", Amount: dec("100")}, {Category: "B", Amount: dec("200")},
			}},
			want: [][]any{{"Category", "Amount", "Share %"}, {"A", "100.00", "33.3"}, {"B", "200.00", "66.7"}},
		},
		{
			name: "budget adherence",
			r: reports.Report{Selector: reports.BudgetAdherence, Adherence: []reports.Adherence{
				{Budget: "Food", Budgeted: dec("400"), Actual: dec("82.4"), Percentage: 20.6},
			}},
			want: [][]any{{"Budget", "Budgeted", "Actual", "Adherence %"}, {"Food", "400.00", "82.40", "20.6"}},
		},
		{
			name: "missing forecast keeps header",
			r:    reports.Report{Selector: reports.SavingsForecast},
			want: [][]any{{"Metric", "Value"}},
		},
		{
			name: "unknown selector",
			r:    reports.Report{Selector: "nope"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Table(tt.r))
		})
	}
}

func TestSummaryTableSections(t *testing.T) {
	rows := Table(reports.Report{Selector: reports.Summary, Summary: &reports.Overview{
		Forecast: &reports.Forecast{CurrentSavings: dec("1350")},
	}})

	var titles []string
	for _, row := range rows {
		if len(row) == 1 {
			titles = append(titles, row[0].(string))
		}
	}
	assert.Equal(t, []string{
		"Monthly expenditure", "Budget adherence", "Savings progress",
		"Category distribution", "Savings forecast",
	}, titles)
	assert.Contains(t, rows, []any{"Current savings", "1350.00"})
}

type sheetsServer struct {
	mu      sync.Mutex
	cleared []string
	updated []string
	values  [][]any
}

func (s *sheetsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, ":clear"):
		s.cleared = append(s.cleared, r.URL.Path)
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodPut:
		var body struct {
			Values [][]any `json:"values"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.values = body.Values
		s.updated = append(s.updated, r.URL.Path+"?"+r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode(map[string]any{"updatedRange": "'Reports summary'!A1:C4"})
	default:
		http.NotFound(w, r)
	}
}

func TestClient_Export(t *testing.T) {
	srv := &sheetsServer{}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	c, err := NewWithOptions(context.Background(), Config{SpreadsheetID: "sheet-1"}, nil,
		goption.WithEndpoint(ts.URL+"/"),
		goption.WithoutAuthentication())
	require.NoError(t, err)
	assert.Equal(t, "Reports savings-progress", c.Tab(reports.SavingsProgress))

	got, err := c.Export(context.Background(), reports.Report{
		Selector: reports.SavingsProgress,
		Progress: []reports.Progress{{Goal: "Bike", Target: dec("600"), Current: dec("150"), Percentage: 25}},
	})
	require.NoError(t, err)
	assert.Equal(t, "'Reports summary'!A1:C4", got)

	require.Len(t, srv.cleared, 1)
	assert.Contains(t, srv.cleared[0], "/v4/spreadsheets/sheet-1/values/")
	require.Len(t, srv.updated, 1)
	assert.Contains(t, srv.updated[0], "valueInputOption=USER_ENTERED")
	require.Len(t, srv.values, 2)
	assert.Equal(t, []any{"Bike", "600.00", "150.00", "25.0"}, srv.values[1])

	_, err = c.Export(context.Background(), reports.Report{Selector: "nope"})
	assert.Error(t, err)
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "x"}, nil)
	assert.ErrorContains(t, err, "missing service account credentials")

	_, err = New(context.Background(), Config{SpreadsheetID: "x", CredentialsFile: "/does/not/exist.json"}, nil)
	assert.ErrorContains(t, err, "read service account file")

	_, err = NewWithOptions(context.Background(), Config{}, nil, goption.WithoutAuthentication())
	assert.ErrorContains(t, err, "missing spreadsheet id")
}
