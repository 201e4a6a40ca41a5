package reminders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneypilot/internal/core"
)

var now = time.Date(2024, time.March, 13, 12, 0, 0, 0, time.UTC)

func km(v int) *int { return &v }

func dateReminder(id, target string) core.Reminder {
	return core.Reminder{ID: id, Title: id, Type: core.DateReminder, TargetDate: target}
}

func mileageReminder(id string, target int) core.Reminder {
	return core.Reminder{ID: id, Title: id, Type: core.MileageReminder, TargetMileage: km(target)}
}

func TestScheduler_Status(t *testing.T) {
	ru := NewScheduler("ru-RU")
	en := NewScheduler("en-US")

	tests := []struct {
		name        string
		s           *Scheduler
		r           core.Reminder
		wantOverdue bool
		wantKm      *int
		wantDays    *int
		wantText    string
	}{
		{"mileage ahead", ru, mileageReminder("oil", 61000), false, km(500), nil, "Через 500 км"},
		{"mileage overdue", ru, mileageReminder("oil", 60000), true, km(-500), nil, "Просрочено на 500 км"},
		{"mileage exactly reached", en, mileageReminder("oil", 60500), false, km(0), nil, "In 0 km"},
		{"date overdue", ru, dateReminder("ins", "2024-03-08"), true, nil, km(-5), "Просрочено на 5 дн."},
		{"date today", ru, dateReminder("ins", "2024-03-13"), false, nil, km(0), "Сегодня"},
		{"date tomorrow", en, dateReminder("ins", "2024-03-14"), false, nil, km(1), "Tomorrow"},
		{"date later", en, dateReminder("ins", "2024-03-20"), false, nil, km(7), "In 7 days"},
		{
			"recurring uses target date", ru,
			core.Reminder{ID: "wash", Type: core.RecurringReminder, TargetDate: "2024-03-16", Recurrence: core.Weekly},
			false, nil, km(3), "Через 3 дн.",
		},
		{"mileage without target", ru, core.Reminder{ID: "x", Type: core.MileageReminder}, false, nil, nil, "Не настроено"},
		{"date without target", en, core.Reminder{ID: "x", Type: core.DateReminder}, false, nil, nil, "Not configured"},
		{"unreadable date", en, dateReminder("x", "soon"), false, nil, nil, "Not configured"},
		{"unknown type", en, core.Reminder{ID: "x", Type: "lunar"}, false, nil, nil, "Not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.s.Status(tt.r, 60500, now)
			assert.Equal(t, tt.r.ID, got.ID)
			assert.Equal(t, tt.wantOverdue, got.IsOverdue)
			assert.Equal(t, tt.wantKm, got.RemainingKm)
			assert.Equal(t, tt.wantDays, got.RemainingDays)
			assert.Equal(t, tt.wantText, got.DisplayText)
		})
	}
}

func ids(rs []core.Reminder) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestScheduler_SortByUrgency(t *testing.T) {
	s := NewScheduler("ru-RU")

	t.Run("overdue first, most overdue leading", func(t *testing.T) {
		in := []core.Reminder{
			dateReminder("five-days-late", "2024-03-08"),
			dateReminder("in-three-days", "2024-03-16"),
			dateReminder("one-day-late", "2024-03-12"),
		}
		got := s.SortByUrgency(in, 0, now)
		assert.Equal(t, []string{"five-days-late", "one-day-late", "in-three-days"}, ids(got))
		assert.Equal(t, "five-days-late", in[0].ID, "input must not be reordered")
	})

	t.Run("mileage reminders by remaining km", func(t *testing.T) {
		in := []core.Reminder{
			mileageReminder("far", 70000),
			mileageReminder("late", 59000),
			mileageReminder("near", 61000),
			mileageReminder("very-late", 50000),
		}
		got := s.SortByUrgency(in, 60500, now)
		assert.Equal(t, []string{"very-late", "late", "near", "far"}, ids(got))
	})

	t.Run("incomparable reminders keep their order", func(t *testing.T) {
		in := []core.Reminder{
			mileageReminder("km", 61000),
			dateReminder("date", "2024-03-20"),
			{ID: "broken", Type: core.DateReminder},
		}
		got := s.SortByUrgency(in, 60500, now)
		assert.Equal(t, []string{"km", "date", "broken"}, ids(got))
	})
}

func TestScheduler_Rank(t *testing.T) {
	s := NewScheduler("en")
	got := s.Rank([]core.Reminder{dateReminder("b", "2024-03-20"), dateReminder("a", "2024-03-01")}, 0, now)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Reminder.ID)
	assert.True(t, got[0].Status.IsOverdue)
	assert.Equal(t, "In 7 days", got[1].Status.DisplayText)
}

func TestActiveAndOverdueCount(t *testing.T) {
	s := NewScheduler("ru-RU")
	done := dateReminder("done", "2024-01-01")
	done.Completed = true
	in := []core.Reminder{
		done,
		dateReminder("late", "2024-03-01"),
		mileageReminder("late-km", 100),
		dateReminder("future", "2024-05-01"),
	}

	assert.Equal(t, []string{"late", "late-km", "future"}, ids(Active(in)))
	assert.Equal(t, 2, s.OverdueCount(in, 500, now))
	assert.Empty(t, Active(nil))
}

func TestDueSoon(t *testing.T) {
	s := NewScheduler("en")
	tests := []struct {
		name string
		r    core.Reminder
		want bool
	}{
		{"overdue", dateReminder("a", "2024-03-01"), true},
		{"within days", dateReminder("a", "2024-03-15"), true},
		{"beyond days", dateReminder("a", "2024-04-15"), false},
		{"within km", mileageReminder("a", 60900), true},
		{"beyond km", mileageReminder("a", 65000), false},
		{"unconfigured", core.Reminder{Type: core.MileageReminder}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DueSoon(s.Status(tt.r, 60500, now), 3, 500))
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	base := core.Reminder{ID: "r1", Title: "Wash", Type: core.RecurringReminder, TargetDate: "2024-01-31", Completed: true}

	tests := []struct {
		name       string
		recurrence core.Recurrence
		want       string
	}{
		{"weekly", core.Weekly, "2024-02-07"},
		{"monthly clamps to month end", core.Monthly, "2024-02-29"},
		{"yearly", core.Yearly, "2025-01-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base
			r.Recurrence = tt.recurrence
			next, ok := NextOccurrence(r, time.UTC)
			require.True(t, ok)
			assert.Equal(t, tt.want, next.TargetDate)
			assert.False(t, next.Completed)
			assert.Empty(t, next.ID)
			assert.Equal(t, "Wash", next.Title)
		})
	}

	_, ok := NextOccurrence(dateReminder("d", "2024-01-01"), time.UTC)
	assert.False(t, ok)

	r := base
	r.Recurrence = core.Monthly
	r.TargetDate = "whenever"
	_, ok = NextOccurrence(r, time.UTC)
	assert.False(t, ok)
}
