package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneypilot/internal/categories"
	"moneypilot/internal/core"
	"moneypilot/internal/log"
	"moneypilot/internal/memory"
	"moneypilot/internal/services"
	"moneypilot/internal/sheets"
	sheetsmem "moneypilot/internal/sheets/memory"
)

var testNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	srv   *Server
	store *memory.Store
}

type envOption func(*Config, *Services)

func withRateLimit(n int) envOption {
	return func(c *Config, _ *Services) { c.RateLimitPerMinute = n }
}

func withPing(ping func(context.Context) error) envOption {
	return func(_ *Config, s *Services) { s.Ping = ping }
}

func newTestEnv(t *testing.T, seed core.Snapshot, writer sheets.ReportWriter, opts ...envOption) *testEnv {
	t.Helper()
	store := memory.New(seed)
	logger := log.New(log.Config{Output: io.Discard})
	matcher := categories.NewMatcher(categories.Default(), categories.DefaultWeights())
	clock := []services.Option{
		services.WithClock(func() time.Time { return testNow }),
		services.WithLocation(time.UTC),
	}

	insights := services.NewInsights(store, matcher, services.DefaultInsightsConfig(), logger, clock...)
	svc := Services{
		Ledger:   services.NewLedger(store, matcher, insights, logger, clock...),
		Insights: insights,
		Reports:  services.NewReports(insights, writer, logger, clock...),
	}
	cfg := Config{Addr: ":0", RateLimitPerMinute: 1000}
	for _, o := range opts {
		o(&cfg, &svc)
	}

	srv, err := NewServer(cfg, svc, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store}
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, rdr)
	if body != "" {
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rec, r)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestNewServer_RequiresServices(t *testing.T) {
	_, err := NewServer(Config{}, Services{}, nil)
	assert.Error(t, err)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)

	rec := env.do(http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = env.do(http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[readyResponse](t, rec)
	assert.Equal(t, "ready", ready.Status)
	assert.False(t, ready.ReportsExport)
	assert.Equal(t, int64(2), ready.Requests)
}

func TestReady_StoreDown(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil, withPing(func(context.Context) error {
		return errors.New("database is locked")
	}))

	rec := env.do(http.MethodGet, "/readyz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	ready := decode[readyResponse](t, rec)
	assert.Equal(t, "unavailable", ready.Status)
	assert.Equal(t, "store unavailable", ready.Error)
}

func TestDashboard(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{
		Transactions: []core.Transaction{
			{ID: "t1", Title: "Зарплата", Amount: 50000, Type: core.Income, Date: "2024-03-05"},
			{ID: "t2", Title: "Такси", Amount: 800, Type: core.Expense, Date: "2024-03-12", CategoryID: "transport"},
		},
	}, nil)

	rec := env.do(http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)
	d := decode[services.Dashboard](t, rec)
	assert.Equal(t, "2024-03-13", d.Date)
	assert.Equal(t, 50000.0, d.Summary.TotalIncome)
	assert.Equal(t, 800.0, d.Summary.TotalExpense)
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)

	rec := env.do(http.MethodGet, "/api/transactions", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Contains(t, rec.Header().Get("Allow"), http.MethodPost)

	rec = env.do(http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransactionAndBudgetLifecycle(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)
	ctx := context.Background()

	rec := env.do(http.MethodPost, "/api/budgets", `{"name":"Еда","limit":"10 000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	budget := decode[core.Budget](t, rec)
	assert.Equal(t, 10000.0, budget.Limit)

	rec = env.do(http.MethodPost, "/api/transactions",
		`{"title":"Пятёрочка","amount":"1 200,50","type":"expense","date":"2024-03-12","budgetId":"`+budget.ID+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	tx := decode[core.Transaction](t, rec)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, 1200.5, tx.Amount)
	assert.Equal(t, "food", tx.CategoryID, "category is detected from the title")

	b, err := env.store.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, 1200.5, b.Used)

	rec = env.do(http.MethodPut, "/api/transactions/"+tx.ID,
		`{"title":"Пятёрочка","amount":1000,"type":"expense","date":"2024-03-12","budgetId":"`+budget.ID+`","categoryId":"food"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	b, err = env.store.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, b.Used)

	rec = env.do(http.MethodPut, "/api/transactions/missing",
		`{"title":"x","amount":1,"type":"expense","date":"2024-03-12"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/api/transactions/"+tx.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	b, err = env.store.GetBudget(ctx, budget.ID)
	require.NoError(t, err)
	assert.Zero(t, b.Used)

	rec = env.do(http.MethodDelete, "/api/transactions/"+tx.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodDelete, "/api/budgets/"+budget.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCreateTransaction_Rejections(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "zero amount", body: `{"title":"Кофе","amount":0,"type":"expense"}`},
		{name: "unparseable amount", body: `{"title":"Кофе","amount":"ten","type":"expense"}`},
		{name: "unknown type", body: `{"title":"Кофе","amount":100,"type":"gift"}`},
		{name: "empty title", body: `{"title":"  ","amount":100,"type":"expense"}`},
		{name: "unknown budget", body: `{"title":"Кофе","amount":100,"type":"expense","budgetId":"nope"}`},
		{name: "unknown category", body: `{"title":"Кофе","amount":100,"type":"expense","categoryId":"nope"}`},
		{name: "unknown field", body: `{"title":"Кофе","amount":100,"type":"expense","tip":5}`},
		{name: "malformed", body: `{"title":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPost, "/api/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			body := decode[ErrorBody](t, rec)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestCategories(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{
		Transactions: []core.Transaction{
			{ID: "t1", Title: "Такси", Amount: 800, Type: core.Expense, Date: "2024-03-11", CategoryID: "transport"},
			{ID: "t2", Title: "Такси", Amount: 800, Type: core.Expense, Date: "2024-03-12", CategoryID: "transport"},
		},
	}, nil)

	rec := env.do(http.MethodGet, "/api/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[map[string][]categories.Category](t, rec)
	assert.NotEmpty(t, cats["categories"])

	rec = env.do(http.MethodGet, "/api/categories/detect?title=Starbucks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	det := decode[detectResponse](t, rec)
	require.NotNil(t, det.Detection)
	assert.Equal(t, "coffee", det.Detection.SubcategoryID)

	rec = env.do(http.MethodGet, "/api/categories/detect?title=qwerty", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[detectResponse](t, rec).Detection)

	rec = env.do(http.MethodGet, "/api/categories/detect", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodGet, "/api/categories/stats?type=expense&top=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"transport"`)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/categories/stats?type=gift", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/categories/stats?top=many", "").Code)

	rec = env.do(http.MethodGet, "/api/transactions/groups", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2024-03-12"`)

	rec = env.do(http.MethodGet, "/api/transactions/duplicates", "")
	require.Equal(t, http.StatusOK, rec.Code)
	dups := decode[struct {
		Window int `json:"window"`
		Pairs  []struct {
			FirstID string `json:"firstId"`
		} `json:"pairs"`
	}](t, rec)
	assert.Equal(t, defaultDuplicateWindow, dups.Window)
	assert.Len(t, dups.Pairs, 1)

	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodGet, "/api/transactions/duplicates?window=-1", "").Code)
}

func TestVehicleLifecycle(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)
	ctx := context.Background()

	rec := env.do(http.MethodPut, "/api/vehicle/profile",
		`{"brand":"Kia","model":"Rio","year":2019,"mileage":60000,"fuelConsumption":7.5,"fuelType":"AI-95","tankCapacity":50,"fuelPrice":55}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPut, "/api/vehicle/profile", `{"brand":"Kia","model":"Rio","year":1800}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/vehicle/fuel", `{"date":"2024-02-01","liters":40,"amount":2200,"mileage":60000,"fullTank":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	first := decode[core.FuelLog](t, rec)
	assert.Equal(t, 55.0, first.PricePerLiter)
	assert.Equal(t, "AI-95", first.FuelType)

	rec = env.do(http.MethodPost, "/api/vehicle/fuel", `{"date":"2024-03-01","liters":40,"amount":"2 200","mileage":60500,"fullTank":true}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPut, "/api/vehicle/fuel/"+first.ID, `{"date":"2024-02-01","liters":41,"amount":2255,"mileage":60000,"fullTank":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(http.MethodPost, "/api/vehicle/fuel", `{"date":"someday","liters":40,"amount":2200,"mileage":60600}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/vehicle/maintenance",
		`{"date":"2024-03-10","type":"maintenance","description":"Замена масла","amount":"4 500","mileage":60500,"nextServiceMileage":70500}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decode[maintenanceResponse](t, rec)
	require.Len(t, m.Reminders, 1)
	assert.Equal(t, core.MileageReminder, m.Reminders[0].Type)

	rec = env.do(http.MethodPost, "/api/vehicle/maintenance",
		`{"date":"2024-03-10","type":"maintenance","amount":100,"mileage":60500,"nextServiceMileage":60000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/api/vehicle/expenses", `{"title":"Парковка","category":"parking","amount":300,"date":"2024-03-11"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	expense := decode[core.AutoExpense](t, rec)

	rec = env.do(http.MethodGet, "/api/vehicle", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[services.VehicleView](t, rec)
	require.NotNil(t, view.Profile)
	assert.Equal(t, 60500, view.Profile.Mileage)
	assert.Len(t, view.Consumption, 1)
	assert.Len(t, view.Reminders, 1)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/vehicle/expenses/"+expense.ID, "").Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/vehicle/maintenance/"+m.Log.ID, "").Code)
	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/vehicle/fuel/"+first.ID, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/vehicle/fuel/"+first.ID, "").Code)

	snap, err := env.store.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.FuelLogs, 1)
	assert.Empty(t, snap.AutoExpenses)
}

func TestReminderLifecycle(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)

	rec := env.do(http.MethodPost, "/api/reminders", `{"title":"Страховка","type":"recurring","targetDate":"2024-03-31","recurrence":"monthly"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	r := decode[core.Reminder](t, rec)
	assert.False(t, r.Completed)
	assert.True(t, testNow.Equal(r.CreatedAt))

	rec = env.do(http.MethodPost, "/api/reminders/"+r.ID+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[completeResponse](t, rec)
	require.NotNil(t, done.Next)
	assert.Equal(t, "2024-04-30", done.Next.TargetDate)

	rec = env.do(http.MethodPost, "/api/reminders/"+r.ID+"/complete", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/reminders/missing/complete", "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(http.MethodPost, "/api/reminders", `{"title":"Шины","type":"mileage"}`).Code)

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/reminders/"+done.Next.ID, "").Code)
}

func TestReportExport(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil)
	rec := env.do(http.MethodPost, "/api/reports/export", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, services.ErrExportDisabled.Error(), decode[ErrorBody](t, rec).Error)

	writer := sheetsmem.New()
	env = newTestEnv(t, core.Snapshot{}, writer)
	rec = env.do(http.MethodPost, "/api/reports/export", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "mem:1", decode[map[string]string](t, rec)["ref"])
	require.Len(t, writer.Reports(), 1)
	assert.Equal(t, "MoneyPilot report 2024-03-13", writer.Reports()[0].Title)
}

func TestRateLimitAppliesToMutations(t *testing.T) {
	env := newTestEnv(t, core.Snapshot{}, nil, withRateLimit(1))

	body := `{"name":"Еда","limit":100}`
	assert.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/budgets", body).Code)

	rec := env.do(http.MethodPost, "/api/budgets", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/dashboard", "").Code)
	}
	assert.Equal(t, int64(1), env.srv.Stats().RateLimit.TotalHits)
}
