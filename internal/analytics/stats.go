// Package analytics turns transaction and budget snapshots into the derived
// figures shown on the dashboard. Every function is a pure computation over
// its arguments.
package analytics

import (
	"slices"

	"moneypilot/internal/categories"
	"moneypilot/internal/core"
	"moneypilot/internal/finmath"
)

// CategoryStat aggregates the transactions of one category/subcategory.
type CategoryStat struct {
	CategoryID    string  `json:"categoryId"`
	SubcategoryID string  `json:"subcategoryId,omitempty"`
	Name          string  `json:"name"`
	Color         string  `json:"color"`
	Amount        float64 `json:"amount"`
	Count         int     `json:"count"`
	Percentage    float64 `json:"percentage"`
}

// CategoryStats is the per-category breakdown of one transaction type.
// Total sums the categorized amounts; Count includes uncategorized
// transactions of the type, Uncategorized counts only those.
type CategoryStats struct {
	Stats         []CategoryStat `json:"stats"`
	Total         float64        `json:"total"`
	Count         int            `json:"count"`
	Uncategorized int            `json:"uncategorized"`
}

type groupKey struct {
	category, subcategory string
}

// Stats groups transactions of type typ by category and subcategory,
// ordered by amount descending. Groups with equal amounts keep the order
// in which they first appeared.
func Stats(txs []core.Transaction, typ core.TransactionType, table *categories.Table) CategoryStats {
	if table == nil {
		table = categories.Default()
	}

	index := make(map[groupKey]int)
	result := CategoryStats{Stats: []CategoryStat{}}
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		result.Count++
		if tx.CategoryID == "" {
			result.Uncategorized++
			continue
		}
		key := groupKey{tx.CategoryID, tx.SubcategoryID}
		i, ok := index[key]
		if !ok {
			i = len(result.Stats)
			index[key] = i
			result.Stats = append(result.Stats, CategoryStat{
				CategoryID:    tx.CategoryID,
				SubcategoryID: tx.SubcategoryID,
				Name:          table.Name(tx.CategoryID, tx.SubcategoryID),
				Color:         table.Color(tx.CategoryID),
			})
		}
		result.Stats[i].Amount += tx.Amount
		result.Stats[i].Count++
	}

	slices.SortStableFunc(result.Stats, byAmountDesc)

	for _, s := range result.Stats {
		result.Total += s.Amount
	}
	for i := range result.Stats {
		result.Stats[i].Percentage = finmath.Percentage(result.Stats[i].Amount, result.Total)
	}
	return result
}

func byAmountDesc(a, b CategoryStat) int {
	switch {
	case a.Amount > b.Amount:
		return -1
	case a.Amount < b.Amount:
		return 1
	}
	return 0
}

// TopN keeps the n largest groups and folds the rest into a trailing
// "other" bucket. No bucket is added when nothing is folded.
func (cs CategoryStats) TopN(n int) []CategoryStat {
	n = max(n, 0)
	if n >= len(cs.Stats) {
		return slices.Clone(cs.Stats)
	}

	top := slices.Clone(cs.Stats[:n])
	other := CategoryStat{
		CategoryID: categories.OtherID,
		Name:       categories.OtherName,
		Color:      categories.OtherColor,
	}
	for _, s := range cs.Stats[n:] {
		other.Amount += s.Amount
		other.Count += s.Count
	}
	other.Percentage = finmath.Percentage(other.Amount, cs.Total)
	return append(top, other)
}
