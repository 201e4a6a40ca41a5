package reminders

import (
	"fmt"

	"moneypilot/internal/dates"
)

// Messages holds the display texts of reminder statuses for one locale.
type Messages struct {
	OverdueKm    string // takes the overdue distance
	InKm         string // takes the remaining distance
	OverdueDays  string // takes the overdue days
	InDays       string // takes the remaining days
	Today        string
	Tomorrow     string
	Unconfigured string
}

var (
	russianMessages = Messages{
		OverdueKm:    "Просрочено на %d км",
		InKm:         "Через %d км",
		OverdueDays:  "Просрочено на %d дн.",
		InDays:       "Через %d дн.",
		Today:        "Сегодня",
		Tomorrow:     "Завтра",
		Unconfigured: "Не настроено",
	}
	englishMessages = Messages{
		OverdueKm:    "Overdue by %d km",
		InKm:         "In %d km",
		OverdueDays:  "Overdue by %d days",
		InDays:       "In %d days",
		Today:        "Today",
		Tomorrow:     "Tomorrow",
		Unconfigured: "Not configured",
	}
)

// MessagesFor picks Russian texts for ru-* locales and English otherwise.
func MessagesFor(locale string) Messages {
	if dates.IsRussian(locale) {
		return russianMessages
	}
	return englishMessages
}

func (m Messages) kmText(remaining int) string {
	if remaining < 0 {
		return fmt.Sprintf(m.OverdueKm, -remaining)
	}
	return fmt.Sprintf(m.InKm, remaining)
}

func (m Messages) daysText(remaining int) string {
	switch {
	case remaining < 0:
		return fmt.Sprintf(m.OverdueDays, -remaining)
	case remaining == 0:
		return m.Today
	case remaining == 1:
		return m.Tomorrow
	default:
		return fmt.Sprintf(m.InDays, remaining)
	}
}
