// Package reminders computes how far away vehicle reminders are and orders
// them by urgency.
//
// Each reminder type has its own StatusStrategy, looked up in a registry so
// that new kinds of reminders only need a new strategy.
package reminders

import (
	"fmt"
	"math"
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
)

// Status describes where a reminder stands. Exactly one of RemainingKm and
// RemainingDays is set for a configured reminder; neither for an
// unconfigured one.
type Status struct {
	ID            string `json:"id"`
	IsOverdue     bool   `json:"isOverdue"`
	RemainingKm   *int   `json:"remainingKm,omitempty"`
	RemainingDays *int   `json:"remainingDays,omitempty"`
	DisplayText   string `json:"displayText"`
}

// StatusStrategy computes the status of one reminder type. It reports
// false when the reminder lacks the fields it needs.
type StatusStrategy interface {
	Status(r core.Reminder, currentMileage int, now time.Time, msgs Messages) (Status, bool)
}

// MileageStrategy measures the distance to the target odometer reading.
type MileageStrategy struct{}

func (MileageStrategy) Status(r core.Reminder, currentMileage int, _ time.Time, msgs Messages) (Status, bool) {
	if r.TargetMileage == nil {
		return Status{}, false
	}
	remaining := *r.TargetMileage - currentMileage
	return Status{
		ID:          r.ID,
		IsOverdue:   remaining < 0,
		RemainingKm: &remaining,
		DisplayText: msgs.kmText(remaining),
	}, true
}

// DateStrategy counts whole days, rounded up, until the target date.
type DateStrategy struct{}

func (DateStrategy) Status(r core.Reminder, _ int, now time.Time, msgs Messages) (Status, bool) {
	target, ok := dates.Parse(r.TargetDate, now.Location())
	if !ok {
		return Status{}, false
	}
	remaining := int(math.Ceil(target.Sub(now).Hours() / 24))
	return Status{
		ID:            r.ID,
		IsOverdue:     remaining < 0,
		RemainingDays: &remaining,
		DisplayText:   msgs.daysText(remaining),
	}, true
}

// statusStrategies maps reminder types to their strategy. Recurring
// reminders are scheduled by their next target date.
var statusStrategies = map[core.ReminderType]StatusStrategy{
	core.MileageReminder:   MileageStrategy{},
	core.DateReminder:      DateStrategy{},
	core.RecurringReminder: DateStrategy{},
}

// GetStatusStrategy returns the strategy for a reminder type.
func GetStatusStrategy(t core.ReminderType) (StatusStrategy, error) {
	s, ok := statusStrategies[t]
	if !ok {
		return nil, fmt.Errorf("unsupported reminder type: %s", t)
	}
	return s, nil
}
