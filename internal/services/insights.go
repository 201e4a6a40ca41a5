package services

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"moneypilot/internal/analytics"
	"moneypilot/internal/cache"
	"moneypilot/internal/categories"
	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/log"
	"moneypilot/internal/ports"
	"moneypilot/internal/reminders"
	"moneypilot/internal/vehicle"
)

const dashboardSeriesDays = 7

type InsightsConfig struct {
	Locale              string
	TopCategories       int
	MetricsWindowMonths int
	ForecastMonths      int
	CacheSize           int
	CacheTTL            time.Duration
}

func DefaultInsightsConfig() InsightsConfig {
	return InsightsConfig{
		Locale:              "ru-RU",
		TopCategories:       5,
		MetricsWindowMonths: vehicle.DefaultMonthsWindow,
		ForecastMonths:      vehicle.DefaultForecastMonths,
		CacheSize:           100,
		CacheTTL:            5 * time.Minute,
	}
}

// Dashboard is the finance overview of one day.
type Dashboard struct {
	Date          string                      `json:"date"`
	DailyBudget   int64                       `json:"dailyBudget"`
	DaysRemaining int                         `json:"daysRemaining"`
	Trend         analytics.Trend             `json:"trend"`
	Summary       analytics.Summary           `json:"summary"`
	TopCategories []analytics.CategoryStat    `json:"topCategories"`
	Budgets       []analytics.BudgetAnalytics `json:"budgets"`
	Series        []analytics.DayTotals       `json:"series"`
}

// VehicleView is the car overview of one day.
type VehicleView struct {
	Profile            *core.CarProfile           `json:"profile"`
	Metrics            vehicle.Metrics            `json:"metrics"`
	Consumption        []vehicle.ConsumptionPoint `json:"consumption"`
	AverageConsumption float64                    `json:"averageConsumption"`
	ConsumptionTrend   vehicle.Trend              `json:"consumptionTrend"`
	Breakdown          []vehicle.BreakdownItem    `json:"breakdown"`
	Reminders          []reminders.Ranked         `json:"reminders"`
	OverdueCount       int                        `json:"overdueCount"`
}

// Insights computes the read models over store snapshots. Dashboard and
// vehicle views are cached per calendar day until the next Invalidate;
// concurrent misses for the same key share one computation. A computation
// that started before an Invalidate is returned but not cached.
type Insights struct {
	store      ports.SnapshotReader
	matcher    *categories.Matcher
	scheduler  *reminders.Scheduler
	cfg        InsightsConfig
	logger     *log.Logger
	dashboards *cache.LRUCache[Dashboard]
	vehicles   *cache.LRUCache[VehicleView]
	flight     singleflight.Group
	generation atomic.Uint64
	options
}

func NewInsights(store ports.SnapshotReader, matcher *categories.Matcher, cfg InsightsConfig, logger *log.Logger, opts ...Option) *Insights {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	def := DefaultInsightsConfig()
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = def.CacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.TopCategories <= 0 {
		cfg.TopCategories = def.TopCategories
	}
	if cfg.Locale == "" {
		cfg.Locale = def.Locale
	}
	return &Insights{
		store:      store,
		matcher:    matcher,
		scheduler:  reminders.NewScheduler(cfg.Locale),
		cfg:        cfg,
		logger:     logger.WithComponent(log.ComponentInsights),
		dashboards: cache.NewLRUCache[Dashboard](cfg.CacheSize, cfg.CacheTTL),
		vehicles:   cache.NewLRUCache[VehicleView](cfg.CacheSize, cfg.CacheTTL),
		options:    newOptions(opts),
	}
}

// Caches exposes the view caches for periodic expiry sweeps.
func (s *Insights) Caches() []cache.Cleaner {
	return []cache.Cleaner{s.dashboards, s.vehicles}
}

// Invalidate drops every cached view.
func (s *Insights) Invalidate() {
	s.generation.Add(1)
	s.dashboards.Purge()
	s.vehicles.Purge()
}

func (s *Insights) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.current()
	return cached(s, s.dashboards, "dashboard:"+dates.ToISODate(now), func() (Dashboard, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return Dashboard{}, fmt.Errorf("load snapshot: %w", err)
		}
		s.warnUnparseable(ctx, snap.Transactions, now)

		stats := analytics.Stats(snap.Transactions, core.Expense, s.matcher.Table())
		return Dashboard{
			Date:          dates.ToISODate(now),
			DailyBudget:   analytics.DailyBudget(snap.Budgets, now),
			DaysRemaining: dates.DaysRemainingInMonth(now),
			Trend:         analytics.WeeklyTrend(snap.Transactions, now),
			Summary:       analytics.Summarize(snap.Transactions),
			TopCategories: stats.TopN(s.cfg.TopCategories),
			Budgets:       analytics.BudgetHealth(snap.Budgets),
			Series:        analytics.DailySeries(snap.Transactions, dashboardSeriesDays, s.cfg.Locale, now),
		}, nil
	})
}

func (s *Insights) Vehicle(ctx context.Context) (VehicleView, error) {
	now := s.current()
	return cached(s, s.vehicles, "vehicle:"+dates.ToISODate(now), func() (VehicleView, error) {
		snap, err := s.store.Snapshot(ctx)
		if err != nil {
			return VehicleView{}, fmt.Errorf("load snapshot: %w", err)
		}
		return s.vehicleView(snap, now), nil
	})
}

func (s *Insights) vehicleView(snap core.Snapshot, now time.Time) VehicleView {
	points := vehicle.RealConsumptionSeries(snap.FuelLogs)
	active := reminders.Active(snap.Reminders)
	mileage := snap.CurrentMileage()
	return VehicleView{
		Profile: snap.CarProfile,
		Metrics: vehicle.ComputeMetrics(snap.CarProfile, snap.FuelLogs, snap.MaintenanceLogs, snap.AutoExpenses, vehicle.MetricsOptions{
			MonthsWindow:   s.cfg.MetricsWindowMonths,
			ForecastMonths: s.cfg.ForecastMonths,
			Now:            now,
		}),
		Consumption:        points,
		AverageConsumption: vehicle.AverageConsumption(points),
		ConsumptionTrend:   vehicle.ConsumptionTrend(points),
		Breakdown:          vehicle.ExpenseBreakdown(snap.FuelLogs, snap.MaintenanceLogs, snap.AutoExpenses),
		Reminders:          s.scheduler.Rank(active, mileage, now),
		OverdueCount:       s.scheduler.OverdueCount(active, mileage, now),
	}
}

// CategoryStats breaks transactions of typ down by category. A positive
// top folds everything past the top groups into an "other" bucket.
func (s *Insights) CategoryStats(ctx context.Context, typ core.TransactionType, top int) (analytics.CategoryStats, error) {
	if !typ.IsValid() {
		return analytics.CategoryStats{}, invalid(fmt.Errorf("%w: %q", core.ErrInvalidType, typ))
	}
	txs, err := s.transactions(ctx)
	if err != nil {
		return analytics.CategoryStats{}, err
	}
	stats := analytics.Stats(txs, typ, s.matcher.Table())
	if top > 0 {
		stats.Stats = stats.TopN(top)
	}
	return stats, nil
}

func (s *Insights) TransactionGroups(ctx context.Context) ([]analytics.TransactionGroup, error) {
	txs, err := s.transactions(ctx)
	if err != nil {
		return nil, err
	}
	now := s.current()
	s.warnUnparseable(ctx, txs, now)
	return analytics.TransactionGroups(txs, s.cfg.Locale, now), nil
}

func (s *Insights) Duplicates(ctx context.Context, windowDays int) ([]analytics.DuplicatePair, error) {
	if windowDays < 0 {
		return nil, invalid(fmt.Errorf("negative window %d", windowDays))
	}
	txs, err := s.transactions(ctx)
	if err != nil {
		return nil, err
	}
	pairs := analytics.PossibleDuplicates(txs, windowDays, s.current())
	if len(pairs) > 0 {
		s.logger.DebugContext(ctx, "Possible duplicates found", log.FieldCount, len(pairs))
	}
	return pairs, nil
}

func (s *Insights) Categories() []categories.Category {
	return s.matcher.Table().Categories()
}

// Detect suggests a category for title, nil when nothing matches.
func (s *Insights) Detect(title string) *categories.Detection {
	return s.matcher.AutoDetect(title)
}

func (s *Insights) transactions(ctx context.Context) ([]core.Transaction, error) {
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return snap.Transactions, nil
}

func (s *Insights) warnUnparseable(ctx context.Context, txs []core.Transaction, now time.Time) {
	if ids := analytics.UnparseableDates(txs, now); len(ids) > 0 {
		s.logger.WarnContext(ctx, "Transactions with unparseable dates counted as today",
			log.FieldCount, len(ids), "ids", ids)
	}
}

func cached[T any](s *Insights, c *cache.LRUCache[T], key string, compute func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	gen := s.generation.Load()
	v, err, shared := s.flight.Do(key+"#"+strconv.FormatUint(gen, 10), func() (any, error) {
		v, err := compute()
		if err != nil {
			return v, err
		}
		if s.generation.Load() == gen {
			c.Set(key, v)
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if shared {
		s.logger.Debug("Shared in-flight computation", "key", key)
	}
	return v.(T), nil
}
