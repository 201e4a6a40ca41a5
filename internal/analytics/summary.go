package analytics

import (
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/finmath"
)

// Summary is income against expense over a set of transactions.
// SavingsRate is the share of income kept, nil without income.
type Summary struct {
	TotalIncome  float64  `json:"totalIncome"`
	TotalExpense float64  `json:"totalExpense"`
	NetBalance   float64  `json:"netBalance"`
	SavingsRate  *float64 `json:"savingsRate"`
}

func Summarize(txs []core.Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			s.TotalIncome += tx.Amount
		case core.Expense:
			s.TotalExpense += tx.Amount
		}
	}
	s.NetBalance = s.TotalIncome - s.TotalExpense
	if rate := finmath.SafeDivide(s.NetBalance, s.TotalIncome); rate != nil {
		pct := finmath.Round(*rate*100, 1)
		s.SavingsRate = &pct
	}
	return s
}

// DayTotals is the income and expense of one calendar day.
type DayTotals struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// DailySeries returns totals for the last days calendar days ending today,
// oldest first. Days without transactions are present with zero totals.
func DailySeries(txs []core.Transaction, days int, locale string, now time.Time) []DayTotals {
	if days <= 0 {
		return []DayTotals{}
	}

	today := dates.StartOfDay(now)
	series := make([]DayTotals, days)
	index := make(map[string]int, days)
	for i := range series {
		d := today.AddDate(0, 0, i-days+1)
		iso := dates.ToISODate(d)
		series[i] = DayTotals{Date: iso, Label: dates.FormatForDisplay(d, locale, now)}
		index[iso] = i
	}

	for _, tx := range txs {
		i, ok := index[dates.ToISODate(dates.ParseTransactionDate(tx.Date, now))]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			series[i].Income += tx.Amount
		case core.Expense:
			series[i].Expense += tx.Amount
		}
	}
	return series
}
