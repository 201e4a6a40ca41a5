package amqp

import (
	"encoding/json"
	"errors"
	"time"
)

// ReminderDueMessage announces that a vehicle reminder is overdue or close
// to its target. The consumer needs nothing beyond the message itself.
type ReminderDueMessage struct {
	ReminderID    string    `json:"reminderId"`
	Title         string    `json:"title"`
	Type          string    `json:"type"`
	IsOverdue     bool      `json:"isOverdue"`
	RemainingDays *int      `json:"remainingDays,omitempty"`
	RemainingKm   *int      `json:"remainingKm,omitempty"`
	DisplayText   string    `json:"displayText"`
	Timestamp     time.Time `json:"timestamp"`
}

// DedupKey identifies the notification for one reminder on one day, so a
// consumer can drop repeats published by consecutive worker ticks.
func (m *ReminderDueMessage) DedupKey() string {
	return m.ReminderID + "@" + m.Timestamp.Format("2006-01-02")
}

func (m *ReminderDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderDueMessageFromJSON(data []byte) (*ReminderDueMessage, error) {
	var msg ReminderDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ReminderID == "" {
		return nil, errors.New("reminder id missing")
	}
	return &msg, nil
}
