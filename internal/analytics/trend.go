package analytics

import (
	"slices"
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/finmath"
)

// Direction of week-over-week spending.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// Trend compares expenses of the current ISO week with the previous one.
// PercentageChange is rounded to whole percent and nil when the previous
// week had no expenses.
type Trend struct {
	CurrentWeek      float64   `json:"currentWeek"`
	PreviousWeek     float64   `json:"previousWeek"`
	PercentageChange *float64  `json:"percentageChange"`
	Direction        Direction `json:"direction"`
}

// WeeklyTrend sums expense transactions of the week containing now and of
// the week before it.
func WeeklyTrend(txs []core.Transaction, now time.Time) Trend {
	current := dates.WeekBoundaries(now)
	previous := dates.WeekBoundaries(now.AddDate(0, 0, -7))

	var t Trend
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		d := dates.ParseTransactionDate(tx.Date, now)
		switch {
		case current.Contains(d):
			t.CurrentWeek += tx.Amount
		case previous.Contains(d):
			t.PreviousWeek += tx.Amount
		}
	}

	t.Direction = DirectionNeutral
	if change := finmath.PercentageChange(t.PreviousWeek, t.CurrentWeek); change != nil {
		switch {
		case *change > 0:
			t.Direction = DirectionUp
		case *change < 0:
			t.Direction = DirectionDown
		}
		rounded := finmath.Round(*change, 0)
		t.PercentageChange = &rounded
	}
	return t
}

// TransactionGroup collects the transactions of one calendar day.
type TransactionGroup struct {
	Date         string             `json:"date"` // YYYY-MM-DD
	DisplayDate  string             `json:"displayDate"`
	Transactions []core.Transaction `json:"transactions"`
	TotalIncome  float64            `json:"totalIncome"`
	TotalExpense float64            `json:"totalExpense"`
	NetAmount    float64            `json:"netAmount"`
}

// TransactionGroups buckets transactions by calendar day, newest day first.
// Within a day transactions keep their input order.
func TransactionGroups(txs []core.Transaction, locale string, now time.Time) []TransactionGroup {
	index := make(map[string]int)
	groups := []TransactionGroup{}

	for _, tx := range txs {
		d := dates.ParseTransactionDate(tx.Date, now)
		iso := dates.ToISODate(d)
		i, ok := index[iso]
		if !ok {
			i = len(groups)
			index[iso] = i
			groups = append(groups, TransactionGroup{
				Date:        iso,
				DisplayDate: dates.FormatForDisplay(d, locale, now),
			})
		}
		g := &groups[i]
		g.Transactions = append(g.Transactions, tx)
		if tx.Type == core.Income {
			g.TotalIncome += tx.Amount
		} else {
			g.TotalExpense += tx.Amount
		}
	}

	for i := range groups {
		groups[i].NetAmount = groups[i].TotalIncome - groups[i].TotalExpense
	}
	slices.SortFunc(groups, func(a, b TransactionGroup) int {
		// ISO dates order lexicographically.
		switch {
		case a.Date > b.Date:
			return -1
		case a.Date < b.Date:
			return 1
		}
		return 0
	})
	return groups
}

// UnparseableDates returns the ids of transactions whose date could not be
// read and was treated as today.
func UnparseableDates(txs []core.Transaction, now time.Time) []string {
	var ids []string
	for _, tx := range txs {
		if _, ok := dates.ResolveTransactionDate(tx.Date, now); !ok {
			ids = append(ids, tx.ID)
		}
	}
	return ids
}
