package reminders

import (
	"slices"
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
)

// Scheduler evaluates reminders with the texts of one locale.
type Scheduler struct {
	msgs Messages
}

func NewScheduler(locale string) *Scheduler {
	return &Scheduler{msgs: MessagesFor(locale)}
}

// Status evaluates a reminder against the current odometer and clock.
// Reminders missing their target fields get a non-overdue fallback status.
func (s *Scheduler) Status(r core.Reminder, currentMileage int, now time.Time) Status {
	if strategy, err := GetStatusStrategy(r.Type); err == nil {
		if st, ok := strategy.Status(r, currentMileage, now, s.msgs); ok {
			return st
		}
	}
	return Status{ID: r.ID, DisplayText: s.msgs.Unconfigured}
}

// Ranked pairs a reminder with its status.
type Ranked struct {
	Reminder core.Reminder `json:"reminder"`
	Status   Status        `json:"status"`
}

// Rank returns reminders with their statuses, most urgent first: overdue
// before upcoming, then by remaining days or, failing that, remaining km.
// Reminders that cannot be compared keep their relative order.
func (s *Scheduler) Rank(reminders []core.Reminder, currentMileage int, now time.Time) []Ranked {
	ranked := make([]Ranked, len(reminders))
	for i, r := range reminders {
		ranked[i] = Ranked{Reminder: r, Status: s.Status(r, currentMileage, now)}
	}
	slices.SortStableFunc(ranked, func(a, b Ranked) int {
		return compareUrgency(a.Status, b.Status)
	})
	return ranked
}

// SortByUrgency is Rank without the statuses.
func (s *Scheduler) SortByUrgency(reminders []core.Reminder, currentMileage int, now time.Time) []core.Reminder {
	ranked := s.Rank(reminders, currentMileage, now)
	out := make([]core.Reminder, len(ranked))
	for i, r := range ranked {
		out[i] = r.Reminder
	}
	return out
}

func compareUrgency(a, b Status) int {
	if a.IsOverdue != b.IsOverdue {
		if a.IsOverdue {
			return -1
		}
		return 1
	}
	// Same overdue state: a more negative or smaller remainder is more urgent.
	if a.RemainingDays != nil && b.RemainingDays != nil {
		return *a.RemainingDays - *b.RemainingDays
	}
	if a.RemainingKm != nil && b.RemainingKm != nil {
		return *a.RemainingKm - *b.RemainingKm
	}
	return 0
}

// Active drops completed reminders.
func Active(reminders []core.Reminder) []core.Reminder {
	out := make([]core.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if !r.Completed {
			out = append(out, r)
		}
	}
	return out
}

// OverdueCount counts active reminders that are overdue.
func (s *Scheduler) OverdueCount(reminders []core.Reminder, currentMileage int, now time.Time) int {
	n := 0
	for _, r := range reminders {
		if !r.Completed && s.Status(r, currentMileage, now).IsOverdue {
			n++
		}
	}
	return n
}

// DueSoon reports whether a status is overdue or within the given number
// of days or kilometres.
func DueSoon(st Status, withinDays, withinKm int) bool {
	if st.IsOverdue {
		return true
	}
	if st.RemainingDays != nil && *st.RemainingDays <= withinDays {
		return true
	}
	return st.RemainingKm != nil && *st.RemainingKm <= withinKm
}

// NextOccurrence returns the follow-up of a recurring reminder with its
// target date advanced by one period. It reports false for reminders that
// do not recur or whose target date cannot be read.
func NextOccurrence(r core.Reminder, loc *time.Location) (core.Reminder, bool) {
	if r.Type != core.RecurringReminder || !r.Recurrence.IsValid() {
		return core.Reminder{}, false
	}
	target, ok := dates.Parse(r.TargetDate, loc)
	if !ok {
		return core.Reminder{}, false
	}
	switch r.Recurrence {
	case core.Weekly:
		target = target.AddDate(0, 0, 7)
	case core.Monthly:
		target = addMonthClamped(target, 1)
	case core.Yearly:
		target = addMonthClamped(target, 12)
	}
	next := r
	next.ID = ""
	next.Completed = false
	next.TargetDate = dates.ToISODate(target)
	return next, true
}

// addMonthClamped adds months keeping the day of month, clamped to the
// last day of the resulting month (Jan 31 + 1 month = Feb 28/29).
func addMonthClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(d, lastDay)-1)
}
