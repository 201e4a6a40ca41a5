package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"moneypilot/internal/amqp"
	"moneypilot/internal/dates"
	"moneypilot/internal/log"
	"moneypilot/internal/ports"
	"moneypilot/internal/reminders"
)

// Publisher sends reminder notifications; *amqp.Client implements it.
type Publisher interface {
	PublishReminderDue(ctx context.Context, msg *amqp.ReminderDueMessage) error
}

type ReminderNotifierConfig struct {
	// CheckInterval is how often reminders are evaluated (default: 1h)
	CheckInterval time.Duration

	// DueDays and DueKm define "due soon" for reminders that are not yet overdue
	DueDays int
	DueKm   int

	// Locale selects the language of DisplayText (default: ru-RU)
	Locale string
}

func DefaultReminderNotifierConfig() ReminderNotifierConfig {
	return ReminderNotifierConfig{
		CheckInterval: time.Hour,
		DueDays:       7,
		DueKm:         500,
		Locale:        "ru-RU",
	}
}

// ReminderNotifier periodically publishes a message for every active
// reminder that is overdue or due soon, at most once per reminder per day.
type ReminderNotifier struct {
	store     ports.SnapshotReader
	publisher Publisher
	scheduler *reminders.Scheduler
	config    ReminderNotifierConfig
	logger    *log.Logger
	options

	sentMu  sync.Mutex
	sentDay string
	sent    map[string]struct{}

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewReminderNotifier(store ports.SnapshotReader, publisher Publisher, config ReminderNotifierConfig, logger *log.Logger, opts ...Option) *ReminderNotifier {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	def := DefaultReminderNotifierConfig()
	if config.CheckInterval <= 0 {
		config.CheckInterval = def.CheckInterval
	}
	if config.Locale == "" {
		config.Locale = def.Locale
	}
	return &ReminderNotifier{
		store:     store,
		publisher: publisher,
		scheduler: reminders.NewScheduler(config.Locale),
		config:    config,
		logger:    logger.WithComponent(log.ComponentReminders),
		options:   newOptions(opts),
		sent:      make(map[string]struct{}),
	}
}

// Start begins the check loop. Returns an error if already running.
func (n *ReminderNotifier) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return errors.New("reminder notifier is already running")
	}
	n.running = true
	n.stopCh = make(chan struct{})
	n.doneCh = make(chan struct{})
	n.mu.Unlock()

	go n.runLoop(ctx)

	n.logger.InfoContext(ctx, "Reminder notifier started",
		"check_interval", n.config.CheckInterval,
		"due_days", n.config.DueDays,
		"due_km", n.config.DueKm)
	return nil
}

// Stop signals the loop and waits for it to finish or for ctx to expire.
func (n *ReminderNotifier) Stop(ctx context.Context) error {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return nil
	}
	n.running = false
	stopCh, doneCh := n.stopCh, n.doneCh
	n.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		n.logger.InfoContext(ctx, "Reminder notifier stopped gracefully")
		return nil
	case <-ctx.Done():
		n.logger.WarnContext(ctx, "Reminder notifier stop timed out")
		return ctx.Err()
	}
}

func (n *ReminderNotifier) IsRunning() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.running
}

func (n *ReminderNotifier) runLoop(ctx context.Context) {
	n.mu.Lock()
	stopCh, doneCh := n.stopCh, n.doneCh
	n.mu.Unlock()
	defer close(doneCh)

	ticker := time.NewTicker(n.config.CheckInterval)
	defer ticker.Stop()

	check := func() {
		if _, err := n.CheckAndPublish(ctx); err != nil {
			n.logger.ErrorContext(ctx, "Reminder check failed", log.FieldError, err)
		}
	}

	// Check immediately on startup
	check()

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// CheckAndPublish evaluates every active reminder once and returns the
// number of messages published. Publish failures are collected; the
// affected reminders are retried on the next check.
func (n *ReminderNotifier) CheckAndPublish(ctx context.Context) (int, error) {
	if n.publisher == nil {
		return 0, errors.New("notifier has no publisher")
	}
	snap, err := n.store.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshot: %w", err)
	}

	now := n.current()
	n.rollDay(dates.ToISODate(now))

	ranked := n.scheduler.Rank(reminders.Active(snap.Reminders), snap.CurrentMileage(), now)
	published := 0
	var errs []error
	for _, rk := range ranked {
		st := rk.Status
		if !reminders.DueSoon(st, n.config.DueDays, n.config.DueKm) {
			continue
		}
		msg := &amqp.ReminderDueMessage{
			ReminderID:    rk.Reminder.ID,
			Title:         rk.Reminder.Title,
			Type:          string(rk.Reminder.Type),
			IsOverdue:     st.IsOverdue,
			RemainingDays: st.RemainingDays,
			RemainingKm:   st.RemainingKm,
			DisplayText:   st.DisplayText,
			Timestamp:     now,
		}
		if n.alreadySent(msg.DedupKey()) {
			continue
		}
		if err := n.publisher.PublishReminderDue(ctx, msg); err != nil {
			n.logger.WarnContext(ctx, "Failed to publish reminder",
				log.FieldReminderID, msg.ReminderID, log.FieldError, err)
			errs = append(errs, fmt.Errorf("reminder %s: %w", msg.ReminderID, err))
			continue
		}
		n.markSent(msg.DedupKey())
		published++
	}

	if published > 0 {
		n.logger.InfoContext(ctx, "Reminder notifications published", log.FieldCount, published)
	}
	return published, errors.Join(errs...)
}

func (n *ReminderNotifier) rollDay(day string) {
	n.sentMu.Lock()
	defer n.sentMu.Unlock()
	if n.sentDay != day {
		n.sentDay = day
		clear(n.sent)
	}
}

func (n *ReminderNotifier) alreadySent(key string) bool {
	n.sentMu.Lock()
	defer n.sentMu.Unlock()
	_, ok := n.sent[key]
	return ok
}

func (n *ReminderNotifier) markSent(key string) {
	n.sentMu.Lock()
	defer n.sentMu.Unlock()
	n.sent[key] = struct{}{}
}
