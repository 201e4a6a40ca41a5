package analytics

import (
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/finmath"
)

// DailyBudget spreads what is left of all budgets over the remaining days
// of the month, today included, rounded to whole units. It is 0 when the
// budgets are exhausted.
func DailyBudget(budgets []core.Budget, now time.Time) int64 {
	var remaining float64
	for _, b := range budgets {
		remaining += b.Limit - b.Used
	}
	if remaining <= 0 {
		return 0
	}

	days := dates.DaysRemainingInMonth(now)
	if days <= 0 {
		return int64(finmath.Round(remaining, 0))
	}
	return int64(finmath.Round(remaining/float64(days), 0))
}

// Health classifies how much of a budget has been used.
type Health string

const (
	OnTrack   Health = "on-track"
	Warning   Health = "warning"
	Overspent Health = "overspent"
)

const warningUtilization = 80

var healthColors = map[Health]string{
	OnTrack:   "#22c55e",
	Warning:   "#f59e0b",
	Overspent: "#ef4444",
}

// BudgetAnalytics is a budget with its utilisation figures.
type BudgetAnalytics struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Used               float64 `json:"used"`
	Limit              float64 `json:"limit"`
	UtilizationPercent float64 `json:"utilizationPercent"`
	PercentOfTotal     float64 `json:"percentOfTotal"` // share of all spending
	Health             Health  `json:"health"`
	Color              string  `json:"color"`
}

// ClassifyHealth maps a utilisation percentage to a health state:
// below 80 on-track, up to 100 warning, above 100 overspent.
func ClassifyHealth(utilization float64) Health {
	switch {
	case utilization > 100:
		return Overspent
	case utilization >= warningUtilization:
		return Warning
	default:
		return OnTrack
	}
}

// BudgetHealth evaluates every budget in input order.
func BudgetHealth(budgets []core.Budget) []BudgetAnalytics {
	var totalUsed float64
	for _, b := range budgets {
		totalUsed += b.Used
	}

	out := make([]BudgetAnalytics, 0, len(budgets))
	for _, b := range budgets {
		util := finmath.Percentage(b.Used, b.Limit)
		h := ClassifyHealth(util)
		out = append(out, BudgetAnalytics{
			ID:                 b.ID,
			Name:               b.Name,
			Used:               b.Used,
			Limit:              b.Limit,
			UtilizationPercent: finmath.Round(util, 1),
			PercentOfTotal:     finmath.Round(finmath.Percentage(b.Used, totalUsed), 1),
			Health:             h,
			Color:              healthColors[h],
		})
	}
	return out
}
