package vehicle

import (
	"slices"

	"moneypilot/internal/core"
	"moneypilot/internal/finmath"
)

// AutoCategory describes a vehicle expense category for display.
type AutoCategory struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

const (
	CategoryFuel        = "fuel"
	CategoryMaintenance = "maintenance"

	otherLabel = "Другое"
	otherColor = "#71717a"
	otherIcon  = "circle"
)

// AutoCategories lists the known vehicle expense categories.
var AutoCategories = []AutoCategory{
	{ID: CategoryFuel, Label: "Топливо", Icon: "fuel", Color: "#f97316"},
	{ID: CategoryMaintenance, Label: "ТО и ремонт", Icon: "wrench", Color: "#3b82f6"},
	{ID: "parking", Label: "Парковка", Icon: "parking-circle", Color: "#8b5cf6"},
	{ID: "insurance", Label: "Страховка", Icon: "shield", Color: "#10b981"},
	{ID: "fines", Label: "Штрафы", Icon: "alert-triangle", Color: "#ef4444"},
	{ID: "carwash", Label: "Мойка", Icon: "droplets", Color: "#06b6d4"},
	{ID: "parts", Label: "Запчасти", Icon: "package", Color: "#f59e0b"},
	{ID: "tires", Label: "Шины", Icon: "circle", Color: "#64748b"},
}

// LookupAutoCategory returns the category with id, or a neutral fallback
// carrying the id.
func LookupAutoCategory(id string) AutoCategory {
	for _, c := range AutoCategories {
		if c.ID == id {
			return c
		}
	}
	return AutoCategory{ID: id, Label: otherLabel, Icon: otherIcon, Color: otherColor}
}

// BreakdownItem is the share of one category in vehicle spending.
type BreakdownItem struct {
	AutoCategory
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// ExpenseBreakdown totals vehicle spending per category. Fuel logs count
// as fuel, maintenance logs under their own category and other expenses
// under theirs. The result is empty when nothing was spent.
func ExpenseBreakdown(fuel []core.FuelLog, maintenance []core.MaintenanceLog, other []core.AutoExpense) []BreakdownItem {
	totals := make(map[string]float64)
	var order []string
	add := func(id string, amount float64) {
		if _, ok := totals[id]; !ok {
			order = append(order, id)
		}
		totals[id] += amount
	}

	for _, l := range fuel {
		add(CategoryFuel, l.Amount)
	}
	for _, l := range maintenance {
		id := l.Category
		if id == "" {
			id = CategoryMaintenance
		}
		add(id, l.Amount)
	}
	for _, e := range other {
		add(e.Category, e.Amount)
	}

	var total float64
	for _, v := range totals {
		total += v
	}
	if total == 0 {
		return []BreakdownItem{}
	}

	items := make([]BreakdownItem, 0, len(order))
	for _, id := range order {
		items = append(items, BreakdownItem{
			AutoCategory: LookupAutoCategory(id),
			Amount:       totals[id],
			Percentage:   finmath.Percentage(totals[id], total),
		})
	}
	slices.SortStableFunc(items, func(a, b BreakdownItem) int {
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		}
		return 0
	})
	return items
}
