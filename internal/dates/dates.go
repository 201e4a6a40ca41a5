// Package dates holds the calendar arithmetic used by the analytics:
// ISO week and month boundaries, tolerant parsing of user-entered
// transaction dates and relative "Today"/"Yesterday" display labels.
//
// Every function that needs the current day takes it as an argument.
// "Today" is the calendar day of now in now.Location(); date-only strings
// are interpreted in that same location.
package dates

import (
	"strings"
	"time"
)

// ISOLayout is the layout of ISO calendar dates (YYYY-MM-DD).
const ISOLayout = "2006-01-02"

// Range is a closed time interval.
type Range struct {
	Start time.Time
	End   time.Time
}

var (
	todayTokens     = []string{"Сегодня", "Today"}
	yesterdayTokens = []string{"Вчера", "Yesterday"}
)

// parseLayouts are tried in order by Parse.
var parseLayouts = []string{
	ISOLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// WeekBoundaries returns the ISO week (Monday 00:00:00.000 to Sunday
// 23:59:59.999) containing t.
func WeekBoundaries(t time.Time) Range {
	// Sunday counts as day 7.
	offset := (int(t.Weekday()) + 6) % 7
	monday := StartOfDay(t).AddDate(0, 0, -offset)
	sunday := endOfDay(monday.AddDate(0, 0, 6))
	return Range{Start: monday, End: sunday}
}

// MonthBoundaries returns the first and last instants of t's month.
func MonthBoundaries(t time.Time) Range {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	last := time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location())
	return Range{Start: start, End: endOfDay(last)}
}

// DaysRemainingInMonth counts the days left in t's month, today included.
func DaysRemainingInMonth(t time.Time) int {
	y, m, d := t.Date()
	lastDay := time.Date(y, m+1, 0, 0, 0, 0, 0, t.Location()).Day()
	return lastDay - d + 1
}

// IsInRange reports whether t lies within r, both ends inclusive.
func IsInRange(t time.Time, r Range) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Contains is IsInRange as a method.
func (r Range) Contains(t time.Time) bool {
	return IsInRange(t, r)
}

// ToISODate formats the calendar date of t in t's own location.
func ToISODate(t time.Time) string {
	return t.Format(ISOLayout)
}

// Parse reads a date or timestamp in one of the supported layouts and
// returns it in loc. A nil loc means time.Local.
func Parse(text string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, text, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// ParseTransactionDate turns a user-entered transaction date into a calendar
// day at midnight. Unparseable input yields today; it never fails.
func ParseTransactionDate(text string, now time.Time) time.Time {
	t, _ := ResolveTransactionDate(text, now)
	return t
}

// ResolveTransactionDate is ParseTransactionDate with a flag that is false
// when the input could not be understood and today was substituted.
func ResolveTransactionDate(text string, now time.Time) (time.Time, bool) {
	today := StartOfDay(now)
	text = strings.TrimSpace(text)

	if matchesToken(text, todayTokens) {
		return today, true
	}
	if matchesToken(text, yesterdayTokens) {
		return today.AddDate(0, 0, -1), true
	}
	if t, ok := Parse(text, now.Location()); ok {
		return StartOfDay(t), true
	}
	return today, false
}

func matchesToken(text string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.EqualFold(text, tok) {
			return true
		}
	}
	return false
}

// DaysBetween counts calendar days from a to b (positive when b is later),
// ignoring clock time and DST shifts.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
