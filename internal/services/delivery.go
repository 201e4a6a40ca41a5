package services

import (
	"context"
	"sync"
	"time"

	"moneypilot/internal/amqp"
	"moneypilot/internal/log"
)

// LogSink delivers reminder notifications as structured log records. A
// message seen before (same reminder, same day) is acknowledged without
// being delivered again.
type LogSink struct {
	logger *log.Logger

	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  Clock
}

func NewLogSink(logger *log.Logger, opts ...Option) *LogSink {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	o := newOptions(opts)
	return &LogSink{
		logger: logger.WithComponent(log.ComponentReminders),
		seen:   make(map[string]time.Time),
		ttl:    48 * time.Hour,
		now:    o.now,
	}
}

// Deliver matches amqp.ReminderDueHandler.
func (s *LogSink) Deliver(ctx context.Context, msg *amqp.ReminderDueMessage) error {
	if !s.firstDelivery(msg.DedupKey()) {
		s.logger.DebugContext(ctx, "Duplicate reminder notification dropped", log.FieldReminderID, msg.ReminderID)
		return nil
	}

	args := []any{
		log.FieldReminderID, msg.ReminderID,
		"title", msg.Title,
		"type", msg.Type,
		"text", msg.DisplayText,
	}
	if msg.RemainingDays != nil {
		args = append(args, "remaining_days", *msg.RemainingDays)
	}
	if msg.RemainingKm != nil {
		args = append(args, "remaining_km", *msg.RemainingKm)
	}
	if msg.IsOverdue {
		s.logger.WarnContext(ctx, "Reminder overdue", args...)
	} else {
		s.logger.InfoContext(ctx, "Reminder due soon", args...)
	}
	return nil
}

func (s *LogSink) firstDelivery(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, at := range s.seen {
		if now.Sub(at) > s.ttl {
			delete(s.seen, k)
		}
	}
	if _, ok := s.seen[key]; ok {
		return false
	}
	s.seen[key] = now
	return true
}
