// Package finmath provides ratio and rounding primitives with explicit
// zero-denominator policies. Undefined ratios are reported as nil.
package finmath

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var half = decimal.NewFromFloat(0.5)

// Percentage returns part/whole*100, or 0 when whole is 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Round rounds value half-up (towards +Inf on ties) to the given number of
// decimals. The decimal representation of value is used, so 1.005 rounds
// to 1.01 at two decimals.
func Round(value float64, decimals int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	scale := decimal.New(1, decimals)
	d := decimal.NewFromFloat(value).Mul(scale).Add(half).Floor().Div(scale)
	return d.InexactFloat64()
}

// SafeDivide returns numerator/denominator, or nil when denominator is 0.
func SafeDivide(numerator, denominator float64) *float64 {
	if denominator == 0 {
		return nil
	}
	v := numerator / denominator
	return &v
}

// PercentageChange returns the change from previous to current in percent,
// or nil when previous is 0.
func PercentageChange(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	v := (current - previous) / previous * 100
	return &v
}

// Format renders amount rounded to whole units with the digit grouping of
// locale ("1,234,567" for en, "1 234 567" for ru). Unknown tags fall back
// to English.
func Format(amount float64, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)
	return p.Sprintf("%d", int64(Round(amount, 0)))
}
