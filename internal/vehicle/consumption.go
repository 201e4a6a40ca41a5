// Package vehicle derives fuel consumption and running-cost metrics from
// fuel, maintenance and other vehicle expense records.
package vehicle

import (
	"slices"
	"time"

	"moneypilot/internal/core"
	"moneypilot/internal/dates"
	"moneypilot/internal/finmath"
)

// Trend of real consumption over time.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// trendThreshold is the half-to-half change (L/100km) that counts as a trend.
const trendThreshold = 0.5

// ConsumptionPoint is the real consumption measured at a full-tank fill-up.
type ConsumptionPoint struct {
	Date        string  `json:"date"`
	Consumption float64 `json:"consumption"` // L/100km
	Mileage     int     `json:"mileage"`
}

type datedFuelLog struct {
	at  time.Time
	log core.FuelLog
}

// sortedFuelLogs parses log dates in loc and returns the logs in ascending
// date order. Logs whose date cannot be parsed are left out.
func sortedFuelLogs(logs []core.FuelLog, loc *time.Location, keep func(core.FuelLog) bool) []datedFuelLog {
	out := make([]datedFuelLog, 0, len(logs))
	for _, l := range logs {
		if keep != nil && !keep(l) {
			continue
		}
		at, ok := dates.Parse(l.Date, loc)
		if !ok {
			continue
		}
		out = append(out, datedFuelLog{at: at, log: l})
	}
	slices.SortStableFunc(out, func(a, b datedFuelLog) int {
		return a.at.Compare(b.at)
	})
	return out
}

// RealConsumptionSeries computes L/100km between consecutive full-tank
// fill-ups. A pair whose odometer does not advance is skipped.
func RealConsumptionSeries(logs []core.FuelLog) []ConsumptionPoint {
	full := sortedFuelLogs(logs, time.UTC, func(l core.FuelLog) bool { return l.FullTank })
	if len(full) < 2 {
		return []ConsumptionPoint{}
	}

	points := make([]ConsumptionPoint, 0, len(full)-1)
	for i := 1; i < len(full); i++ {
		prev, cur := full[i-1].log, full[i].log
		c, ok := consumptionBetween(prev, cur)
		if !ok {
			continue
		}
		points = append(points, ConsumptionPoint{Date: cur.Date, Consumption: c, Mileage: cur.Mileage})
	}
	return points
}

func consumptionBetween(prev, cur core.FuelLog) (float64, bool) {
	km := cur.Mileage - prev.Mileage
	if km <= 0 {
		return 0, false
	}
	return finmath.Round(cur.Liters/float64(km)*100, 2), true
}

// AverageConsumption is the mean consumption rounded to two decimals, 0
// for no points.
func AverageConsumption(points []ConsumptionPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		sum += p.Consumption
	}
	return finmath.Round(sum/float64(len(points)), 2)
}

// ConsumptionTrend compares the average of the first half of points with
// the second half.
func ConsumptionTrend(points []ConsumptionPoint) Trend {
	if len(points) < 2 {
		return TrendStable
	}
	mid := len(points) / 2
	diff := AverageConsumption(points[mid:]) - AverageConsumption(points[:mid])
	switch {
	case diff > trendThreshold:
		return TrendIncreasing
	case diff < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
