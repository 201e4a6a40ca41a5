package vehicle

import (
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/finmath"
)

const (
	DefaultMonthsWindow   = 12
	DefaultForecastMonths = 3

	// averageMonth is the month length used to turn elapsed time into months.
	averageMonth = 30 * 24 * time.Hour
)

// Metrics summarises the running cost of the car. Currency and distance
// fields are whole units; CostPerKm and AvgFuelConsumption keep two decimals.
type Metrics struct {
	CostPerKm          float64 `json:"costPerKm"`
	AvgFuelConsumption float64 `json:"avgFuelConsumption"`
	MonthlyForecast    float64 `json:"monthlyForecast"`
	FullTankCost       float64 `json:"fullTankCost"`
	RangeOnFullTank    float64 `json:"rangeOnFullTank"`
	AvgFillupCost      float64 `json:"avgFillupCost"`
	MonthlyMileage     float64 `json:"monthlyMileage"`
}

// MetricsOptions controls the time windows of ComputeMetrics. Zero values
// select the defaults; Now defaults to time.Now().
type MetricsOptions struct {
	MonthsWindow   int
	ForecastMonths int
	Now            time.Time
}

func (o MetricsOptions) withDefaults() MetricsOptions {
	if o.MonthsWindow <= 0 {
		o.MonthsWindow = DefaultMonthsWindow
	}
	if o.ForecastMonths <= 0 {
		o.ForecastMonths = DefaultForecastMonths
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

type datedAmount struct {
	date   string
	amount float64
}

// ComputeMetrics combines the car profile with its logs. Without a profile
// every metric is zero.
func ComputeMetrics(profile *core.CarProfile, fuel []core.FuelLog, maintenance []core.MaintenanceLog, other []core.AutoExpense, opts MetricsOptions) Metrics {
	if profile == nil {
		return Metrics{}
	}
	opts = opts.withDefaults()

	avgConsumption := profile.FuelConsumption
	if points := RealConsumptionSeries(fuel); len(points) > 0 {
		avgConsumption = AverageConsumption(points)
	}

	fullTankCost := profile.TankCapacity * profile.FuelPrice

	var rangeOnFullTank float64
	if avgConsumption > 0 {
		rangeOnFullTank = profile.TankCapacity / avgConsumption * 100
	}

	var avgFillup float64
	if len(fuel) > 0 {
		var sum float64
		for _, l := range fuel {
			sum += l.Amount
		}
		avgFillup = sum / float64(len(fuel))
	}

	expenses := make([]datedAmount, 0, len(fuel)+len(maintenance)+len(other))
	for _, l := range fuel {
		expenses = append(expenses, datedAmount{l.Date, l.Amount})
	}
	for _, l := range maintenance {
		expenses = append(expenses, datedAmount{l.Date, l.Amount})
	}
	for _, e := range other {
		expenses = append(expenses, datedAmount{e.Date, e.Amount})
	}

	var total float64
	for _, e := range expenses {
		total += e.amount
	}

	return Metrics{
		CostPerKm:          costPerKm(total, totalMileage(fuel, opts.Now.Location())),
		AvgFuelConsumption: finmath.Round(avgConsumption, 2),
		MonthlyForecast:    finmath.Round(monthlyForecast(expenses, opts.ForecastMonths, opts.Now), 0),
		FullTankCost:       finmath.Round(fullTankCost, 0),
		RangeOnFullTank:    finmath.Round(rangeOnFullTank, 0),
		AvgFillupCost:      finmath.Round(avgFillup, 0),
		MonthlyMileage:     finmath.Round(monthlyMileage(fuel, opts.MonthsWindow, opts.Now), 0),
	}
}

func costPerKm(totalExpenses float64, mileage int) float64 {
	if mileage <= 0 {
		return 0
	}
	return finmath.Round(totalExpenses/float64(mileage), 2)
}

// totalMileage is the odometer span between the earliest and latest fuel log.
func totalMileage(fuel []core.FuelLog, loc *time.Location) int {
	sorted := sortedFuelLogs(fuel, loc, nil)
	if len(sorted) < 2 {
		return 0
	}
	return sorted[len(sorted)-1].log.Mileage - sorted[0].log.Mileage
}

// monthsBetween is the elapsed time in average months, never below one.
func monthsBetween(from, to time.Time) float64 {
	return max(float64(to.Sub(from))/float64(averageMonth), 1)
}

// monthlyForecast averages the expenses of the last months per elapsed month.
func monthlyForecast(expenses []datedAmount, months int, now time.Time) float64 {
	cutoff := now.AddDate(0, -months, 0)

	var (
		total          float64
		oldest, newest time.Time
		found          bool
	)
	for _, e := range expenses {
		at, ok := dates.Parse(e.date, now.Location())
		if !ok || at.Before(cutoff) {
			continue
		}
		total += e.amount
		if !found || at.Before(oldest) {
			oldest = at
		}
		if !found || at.After(newest) {
			newest = at
		}
		found = true
	}
	if !found {
		return 0
	}
	return total / monthsBetween(oldest, newest)
}

// monthlyMileage is the odometer progress per month within the window.
func monthlyMileage(fuel []core.FuelLog, months int, now time.Time) float64 {
	if len(fuel) < 2 {
		return 0
	}
	cutoff := now.AddDate(0, -months, 0)
	recent := sortedFuelLogs(fuel, now.Location(), nil)
	i := 0
	for i < len(recent) && recent[i].at.Before(cutoff) {
		i++
	}
	recent = recent[i:]
	if len(recent) < 2 {
		return 0
	}
	first, last := recent[0], recent[len(recent)-1]
	return float64(last.log.Mileage-first.log.Mileage) / monthsBetween(first.at, last.at)
}
