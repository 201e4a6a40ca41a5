package analytics

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
)

// maxTitleDistance is the largest normalized edit distance between titles
// of transactions still considered the same purchase.
const maxTitleDistance = 0.4

// DuplicatePair flags two transactions that look like the same entry.
type DuplicatePair struct {
	FirstID    string  `json:"firstId"`
	SecondID   string  `json:"secondId"`
	Similarity float64 `json:"similarity"`
}

// PossibleDuplicates finds pairs with the same type and amount, dates at
// most windowDays apart and similar titles.
func PossibleDuplicates(txs []core.Transaction, windowDays int, now time.Time) []DuplicatePair {
	days := make([]time.Time, len(txs))
	titles := make([]string, len(txs))
	for i, tx := range txs {
		days[i] = dates.ParseTransactionDate(tx.Date, now)
		titles[i] = strings.ToUpper(strings.TrimSpace(tx.Title))
	}

	pairs := []DuplicatePair{}
	for i := 0; i < len(txs); i++ {
		for j := i + 1; j < len(txs); j++ {
			a, b := txs[i], txs[j]
			if a.Type != b.Type || math.Abs(a.Amount-b.Amount) > 0.005 {
				continue
			}
			if abs(dates.DaysBetween(days[i], days[j])) > windowDays {
				continue
			}
			sim := titleSimilarity(titles[i], titles[j])
			if 1-sim >= maxTitleDistance {
				continue
			}
			pairs = append(pairs, DuplicatePair{FirstID: a.ID, SecondID: b.ID, Similarity: sim})
		}
	}
	return pairs
}

func titleSimilarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
