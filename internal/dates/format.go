package dates

import (
	"fmt"
	"strings"
	"time"
)

// Russian month names in the genitive case, as used after a day number.
var ruMonths = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// IsRussian reports whether a locale tag selects Russian output.
func IsRussian(locale string) bool {
	return strings.HasPrefix(strings.ToLower(locale), "ru")
}

// FormatForDisplay renders t relative to now: "Today"/"Yesterday" (or the
// Russian tokens) for offsets of 0 and 1 day, otherwise "day month".
func FormatForDisplay(t time.Time, locale string, now time.Time) string {
	ru := IsRussian(locale)
	switch DaysBetween(t, now) {
	case 0:
		if ru {
			return todayTokens[0]
		}
		return todayTokens[1]
	case 1:
		if ru {
			return yesterdayTokens[0]
		}
		return yesterdayTokens[1]
	}

	if ru {
		return fmt.Sprintf("%d %s", t.Day(), ruMonths[t.Month()-1])
	}
	if strings.EqualFold(locale, "en-US") || locale == "" {
		return fmt.Sprintf("%s %d", t.Month(), t.Day())
	}
	return fmt.Sprintf("%d %s", t.Day(), t.Month())
}
