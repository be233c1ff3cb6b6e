package reports

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/core"
)

func amountRow(name string, amount int64) CategoryAmount {
	return CategoryAmount{Category: name, Amount: decimal.NewFromInt(amount)}
}

var testCategories = []core.Category{
	{ID: "1", Name: "Food", Type: core.Expense},
	{ID: "2", Name: "Rent", Type: core.Expense},
	{ID: "3", Name: "Salary", Type: core.Income},
}

func TestFilterCategoryDistribution_RecomputesOverFilteredTotal(t *testing.T) {
	rows := []CategoryAmount{
		amountRow("food", 100),
		amountRow("RENT", 200),
		amountRow("Salary", 700),
	}

	got := FilterCategoryDistribution(rows, testCategories, "expense")

	require.Len(t, got, 2)
	assert.Equal(t, "food", got[0].Category)
	assert.Equal(t, 33.3, got[0].Percent)
	assert.Equal(t, 66.7, got[1].Percent)
	assert.InDelta(t, 100, got[0].Percent+got[1].Percent, 0.1)
}

func TestFilterCategoryDistribution_All(t *testing.T) {
	rows := []CategoryAmount{amountRow("Food", 100), amountRow("Mystery", 300)}

	for _, typ := range []string{"All", "", "all"} {
		got := FilterCategoryDistribution(rows, testCategories, typ)
		require.Len(t, got, 2, typ)
		assert.Equal(t, 25.0, got[0].Percent)
		assert.Equal(t, 75.0, got[1].Percent)
	}
}

func TestFilterCategoryDistribution_DropsUnresolved(t *testing.T) {
	rows := []CategoryAmount{amountRow("Mystery", 50), amountRow("", 10), amountRow("Salary", 40)}

	got := FilterCategoryDistribution(rows, testCategories, "Income")

	require.Len(t, got, 1)
	assert.Equal(t, "Salary", got[0].Category)
	assert.Equal(t, 100.0, got[0].Percent)
}

func TestFilterCategoryDistribution_ZeroTotal(t *testing.T) {
	got := FilterCategoryDistribution([]CategoryAmount{amountRow("Food", 0)}, testCategories, "Expense")

	require.Len(t, got, 1)
	assert.Zero(t, got[0].Percent)
	assert.Empty(t, FilterCategoryDistribution(nil, testCategories, "Expense"))
}
