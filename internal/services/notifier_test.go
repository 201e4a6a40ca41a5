package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneypilot/internal/core"
	"moneypilot/internal/memory"
)

func reminderSeed() core.Snapshot {
	oil := 61200
	return core.Snapshot{
		CarProfile: &core.CarProfile{Brand: "Kia", Model: "Rio", Year: 2019, Mileage: 61000, FuelConsumption: 7.5, TankCapacity: 50, FuelPrice: 55},
		Reminders: []core.Reminder{
			{ID: "late", Title: "Техосмотр", Type: core.DateReminder, TargetDate: "2024-03-01"},
			{ID: "soon", Title: "Страховка", Type: core.DateReminder, TargetDate: "2024-03-16"},
			{ID: "far", Title: "Шины", Type: core.DateReminder, TargetDate: "2024-05-01"},
			{ID: "oil", Title: "Масло", Type: core.MileageReminder, TargetMileage: &oil},
			{ID: "done", Title: "Старое", Type: core.DateReminder, TargetDate: "2024-01-01", Completed: true},
		},
	}
}

func newNotifier(pub Publisher, c *clock) *ReminderNotifier {
	cfg := DefaultReminderNotifierConfig()
	cfg.CheckInterval = 10 * time.Millisecond
	return NewReminderNotifier(memory.New(reminderSeed()), pub, cfg, quietLogger(), testOptions(c)...)
}

func TestDefaultReminderNotifierConfig(t *testing.T) {
	cfg := DefaultReminderNotifierConfig()

	if cfg.CheckInterval != time.Hour {
		t.Errorf("expected CheckInterval 1h, got %v", cfg.CheckInterval)
	}
	if cfg.DueDays != 7 {
		t.Errorf("expected DueDays 7, got %d", cfg.DueDays)
	}
	if cfg.DueKm != 500 {
		t.Errorf("expected DueKm 500, got %d", cfg.DueKm)
	}
}

func TestReminderNotifier_CheckAndPublish(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	c := &clock{t: testNow}
	n := newNotifier(pub, c)

	count, err := n.CheckAndPublish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	ids := pub.ids()
	assert.ElementsMatch(t, []string{"late", "oil", "soon"}, ids)
	assert.Equal(t, "late", ids[0], "overdue reminders go first")

	first := pub.msgs[0]
	assert.True(t, first.IsOverdue)
	assert.Equal(t, "Техосмотр", first.Title)
	assert.Equal(t, "Просрочено на 12 дн.", first.DisplayText)
	assert.Equal(t, "late@2024-03-13", first.DedupKey())
	for _, m := range pub.msgs {
		if m.ReminderID == "oil" {
			require.NotNil(t, m.RemainingKm)
			assert.Equal(t, 200, *m.RemainingKm)
			assert.Equal(t, "Через 200 км", m.DisplayText)
		}
	}

	count, err = n.CheckAndPublish(ctx)
	require.NoError(t, err)
	assert.Zero(t, count, "same day repeats are suppressed")

	c.advance(24 * time.Hour)
	count, err = n.CheckAndPublish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReminderNotifier_RetriesFailedPublishes(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	n := newNotifier(pub, &clock{t: testNow})

	count, err := n.CheckAndPublish(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Zero(t, count)

	pub.err = nil
	count, err = n.CheckAndPublish(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestReminderNotifier_NoPublisher(t *testing.T) {
	n := NewReminderNotifier(memory.New(core.Snapshot{}), nil, ReminderNotifierConfig{}, quietLogger())

	_, err := n.CheckAndPublish(context.Background())
	assert.Error(t, err)
	assert.Equal(t, time.Hour, n.config.CheckInterval)
}

func TestReminderNotifier_IsRunning(t *testing.T) {
	n := newNotifier(&recordingPublisher{}, &clock{t: testNow})

	if n.IsRunning() {
		t.Error("notifier should not be running initially")
	}
}

func TestReminderNotifier_StopNotRunning(t *testing.T) {
	n := newNotifier(&recordingPublisher{}, &clock{t: testNow})

	if err := n.Stop(context.Background()); err != nil {
		t.Errorf("Stop should not error when not running: %v", err)
	}
}

func TestReminderNotifier_StartStop(t *testing.T) {
	pub := &recordingPublisher{}
	n := newNotifier(pub, &clock{t: testNow})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, n.Start(ctx))
	assert.Error(t, n.Start(ctx), "second start must fail")
	assert.True(t, n.IsRunning())

	assert.Eventually(t, func() bool { return len(pub.ids()) == 3 }, time.Second, 5*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	require.NoError(t, n.Stop(stopCtx))
	assert.False(t, n.IsRunning())

	// Restart after a clean stop.
	require.NoError(t, n.Start(ctx))
	require.NoError(t, n.Stop(stopCtx))
}
