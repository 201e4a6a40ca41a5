package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneypilot/internal/categories"
	"moneypilot/internal/core"
	"moneypilot/internal/memory"
	"moneypilot/internal/vehicle"
)

func newInsights(store *memory.Store, c *clock) *Insights {
	matcher := categories.NewMatcher(categories.Default(), categories.DefaultWeights())
	cfg := DefaultInsightsConfig()
	cfg.TopCategories = 1
	return NewInsights(store, matcher, cfg, quietLogger(), testOptions(c)...)
}

func financeSeed() core.Snapshot {
	return core.Snapshot{
		Transactions: []core.Transaction{
			{ID: "t1", Title: "Пятёрочка", Amount: 1200, Type: core.Expense, Date: "2024-03-12", CategoryID: "food", SubcategoryID: "groceries"},
			{ID: "t2", Title: "Такси", Amount: 800, Type: core.Expense, Date: "2024-03-11", CategoryID: "transport", SubcategoryID: "taxi"},
			{ID: "t3", Title: "Такси", Amount: 800, Type: core.Expense, Date: "2024-03-12", CategoryID: "transport", SubcategoryID: "taxi"},
			{ID: "t4", Title: "Зарплата", Amount: 50000, Type: core.Income, Date: "2024-03-05"},
			{ID: "t5", Title: "Кофе", Amount: 300, Type: core.Expense, Date: "2024-03-04", CategoryID: "food", SubcategoryID: "coffee"},
		},
		Budgets: []core.Budget{{ID: "b1", Name: "Еда", Used: 1500, Limit: 10000}},
	}
}

func TestInsights_Dashboard(t *testing.T) {
	ctx := context.Background()
	store := memory.New(financeSeed())
	s := newInsights(store, &clock{t: testNow})

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-13", d.Date)
	assert.Equal(t, 19, d.DaysRemaining)
	assert.Equal(t, int64(447), d.DailyBudget)
	assert.Equal(t, 2800.0, d.Trend.CurrentWeek)
	assert.Equal(t, 300.0, d.Trend.PreviousWeek)
	assert.Equal(t, 50000.0, d.Summary.TotalIncome)
	assert.Equal(t, 3100.0, d.Summary.TotalExpense)
	require.Len(t, d.TopCategories, 2)
	assert.Equal(t, "transport", d.TopCategories[0].CategoryID)
	assert.Equal(t, categories.OtherID, d.TopCategories[1].CategoryID)
	require.Len(t, d.Budgets, 1)
	assert.Len(t, d.Series, dashboardSeriesDays)
	assert.Equal(t, "2024-03-13", d.Series[dashboardSeriesDays-1].Date)
}

func TestInsights_DashboardCachedUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	store := memory.New(financeSeed())
	c := &clock{t: testNow}
	s := newInsights(store, c)

	first, err := s.Dashboard(ctx)
	require.NoError(t, err)

	require.NoError(t, store.AddTransaction(ctx, core.Transaction{ID: "t9", Title: "Бонус", Amount: 1000, Type: core.Income, Date: "2024-03-13"}))
	cached, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Summary.TotalIncome, cached.Summary.TotalIncome)

	s.Invalidate()
	fresh, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 51000.0, fresh.Summary.TotalIncome)

	require.NoError(t, store.AddTransaction(ctx, core.Transaction{ID: "t10", Title: "Бонус", Amount: 1000, Type: core.Income, Date: "2024-03-14"}))
	c.advance(24 * time.Hour)
	nextDay, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-14", nextDay.Date)
	assert.Equal(t, 52000.0, nextDay.Summary.TotalIncome)
}

func TestInsights_LedgerInvalidates(t *testing.T) {
	ctx := context.Background()
	store := memory.New(financeSeed())
	c := &clock{t: testNow}
	s := newInsights(store, c)
	matcher := categories.NewMatcher(categories.Default(), categories.DefaultWeights())
	l := NewLedger(store, matcher, s, quietLogger(), testOptions(c)...)

	_, err := s.Dashboard(ctx)
	require.NoError(t, err)

	_, err = l.AddTransaction(ctx, core.Transaction{Title: "Аптека", Amount: 900, Type: core.Expense})
	require.NoError(t, err)

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4000.0, d.Summary.TotalExpense)
}

func TestInsights_CategoryStats(t *testing.T) {
	ctx := context.Background()
	s := newInsights(memory.New(financeSeed()), &clock{t: testNow})

	all, err := s.CategoryStats(ctx, core.Expense, 0)
	require.NoError(t, err)
	assert.Len(t, all.Stats, 3)
	assert.Equal(t, 3100.0, all.Total)

	top, err := s.CategoryStats(ctx, core.Expense, 1)
	require.NoError(t, err)
	require.Len(t, top.Stats, 2)
	assert.Equal(t, 1500.0, top.Stats[1].Amount)

	income, err := s.CategoryStats(ctx, core.Income, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, income.Uncategorized)

	_, err = s.CategoryStats(ctx, "gift", 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInsights_GroupsAndDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newInsights(memory.New(financeSeed()), &clock{t: testNow})

	groups, err := s.TransactionGroups(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, groups)
	assert.Equal(t, "2024-03-12", groups[0].Date)

	pairs, err := s.Duplicates(ctx, 3)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.ElementsMatch(t, []string{"t2", "t3"}, []string{pairs[0].FirstID, pairs[0].SecondID})

	_, err = s.Duplicates(ctx, -1)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestInsights_CategoriesAndDetect(t *testing.T) {
	s := newInsights(memory.New(core.Snapshot{}), &clock{t: testNow})

	assert.NotEmpty(t, s.Categories())
	d := s.Detect("Starbucks")
	require.NotNil(t, d)
	assert.Equal(t, "coffee", d.SubcategoryID)
	assert.Nil(t, s.Detect("qwerty"))
	assert.Len(t, s.Caches(), 2)
}

func TestInsights_Vehicle(t *testing.T) {
	ctx := context.Background()
	target := 60800
	store := memory.New(core.Snapshot{
		CarProfile: &core.CarProfile{Brand: "Kia", Model: "Rio", Year: 2019, Mileage: 61000, FuelConsumption: 7.5, FuelType: "AI-95", TankCapacity: 50, FuelPrice: 55},
		FuelLogs: []core.FuelLog{
			{ID: "f1", Date: "2024-02-01", Liters: 40, Amount: 2200, Mileage: 60000, FullTank: true},
			{ID: "f2", Date: "2024-03-01", Liters: 40, Amount: 2200, Mileage: 60500, FullTank: true},
		},
		Reminders: []core.Reminder{
			{ID: "r1", Title: "Страховка", Type: core.DateReminder, TargetDate: "2024-04-01"},
			{ID: "r2", Title: "Масло", Type: core.MileageReminder, TargetMileage: &target},
			{ID: "r3", Title: "Старое", Type: core.DateReminder, TargetDate: "2024-01-01", Completed: true},
		},
	})
	s := newInsights(store, &clock{t: testNow})

	v, err := s.Vehicle(ctx)
	require.NoError(t, err)
	require.NotNil(t, v.Profile)
	require.Len(t, v.Consumption, 1)
	assert.Equal(t, 8.0, v.Consumption[0].Consumption)
	assert.Equal(t, 8.0, v.AverageConsumption)
	assert.Equal(t, vehicle.Trend("stable"), v.ConsumptionTrend)
	require.Len(t, v.Reminders, 2)
	assert.Equal(t, "r2", v.Reminders[0].Reminder.ID)
	assert.True(t, v.Reminders[0].Status.IsOverdue)
	assert.Equal(t, 1, v.OverdueCount)
	require.Len(t, v.Breakdown, 1)
	assert.Equal(t, vehicle.CategoryFuel, v.Breakdown[0].ID)
}
