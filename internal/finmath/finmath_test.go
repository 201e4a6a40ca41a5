package finmath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		name        string
		part, whole float64
		want        float64
	}{
		{"zero whole", 50, 0, 0},
		{"zero whole negative part", -10, 0, 0},
		{"half", 50, 100, 50},
		{"over", 150, 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentage(tt.part, tt.whole), 1e-9)
		})
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int32
		want     float64
	}{
		{"two decimals", 7.006, 2, 7.01},
		{"half up at two decimals", 1.005, 2, 1.01},
		{"whole half up", 2.5, 0, 3},
		{"negative tie goes up", -2.5, 0, -2},
		{"negative below tie", -2.6, 0, -3},
		{"already exact", 200, 0, 200},
		{"tens", 1234, -1, 1230},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Round(tt.value, tt.decimals))
		})
	}
}

func TestSafeDivide(t *testing.T) {
	assert.Nil(t, SafeDivide(1, 0))
	got := SafeDivide(1, 4)
	require.NotNil(t, got)
	assert.Equal(t, 0.25, *got)
}

func TestPercentageChange(t *testing.T) {
	for _, current := range []float64{0, 1, -5, 1000} {
		assert.Nil(t, PercentageChange(0, current), "previous=0 current=%v", current)
	}

	got := PercentageChange(200, 300)
	require.NotNil(t, got)
	assert.InDelta(t, 50, *got, 1e-9)

	got = PercentageChange(200, 100)
	require.NotNil(t, got)
	assert.InDelta(t, -50, *got, 1e-9)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "1,234,568", Format(1234567.5, "en-US"))
	assert.Equal(t, "12", Format(12.4, "not a tag!"))
}
