package reports

import (
	"strings"

	"github.com/shopspring/decimal"

	"finboard/internal/core"
)

// AllTypes disables the category-type filter.
const AllTypes = "All"

var hundred = decimal.NewFromInt(100)

// CategoryShare is a distribution row with its share of the shown total,
// rounded to one decimal.
type CategoryShare struct {
	Category string
	Amount   decimal.Decimal
	Percent  float64
}

// FilterCategoryDistribution keeps the rows whose category name resolves,
// case-insensitively, to a category of categoryType and recomputes every
// percentage over the kept rows only. "All" or an empty type keeps every
// row. Rows that cannot be resolved are dropped while a filter is active.
func FilterCategoryDistribution(rows []CategoryAmount, categories []core.Category, categoryType string) []CategoryShare {
	byName := make(map[string]core.Category, len(categories))
	for _, c := range categories {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			continue
		}
		if _, seen := byName[name]; !seen {
			byName[name] = c
		}
	}

	filtering := !isAll(categoryType)
	kept := make([]CategoryShare, 0, len(rows))
	total := decimal.Zero
	for _, r := range rows {
		if filtering {
			c, ok := byName[strings.ToLower(strings.TrimSpace(r.Category))]
			if !ok || !c.Type.Is(categoryType) {
				continue
			}
		}
		kept = append(kept, CategoryShare{Category: r.Category, Amount: r.Amount})
		total = total.Add(r.Amount)
	}

	if total.IsZero() {
		return kept
	}
	for i := range kept {
		kept[i].Percent = kept[i].Amount.Div(total).Mul(hundred).Round(1).InexactFloat64()
	}
	return kept
}

func isAll(categoryType string) bool {
	t := strings.TrimSpace(categoryType)
	return t == "" || strings.EqualFold(t, AllTypes)
}
