package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeThresholds(t *testing.T) {
	tests := []struct {
		name        string
		lat         float64
		month       time.Month
		expectedHot float64
	}{
		{"mid-latitude north, neutral season", 40, time.April, 25},
		{"mid-latitude north, summer", 40, time.July, 27},
		{"mid-latitude north, winter", 40, time.January, 20},
		{"mid-latitude north, december winter", 40, time.December, 20},
		{"tropics, neutral season", 5, time.April, 35},
		{"tropics, northern summer", 10, time.July, 37},
		{"tropics south, local winter in july", -10, time.July, 30},
		{"subtropics, no latitude adjustment", 20, time.April, 30},
		{"southern mid-latitude, local summer in january", -35, time.January, 27},
		{"southern mid-latitude, local winter in june", -35, time.June, 20},
		{"equator", 0, time.March, 35},
		{"latitude boundary 30 is not extreme", 30, time.April, 30},
		{"latitude boundary 15 is not tropics", 15, time.April, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeThresholds(tt.lat, tt.month)
			assert.InDelta(t, tt.expectedHot, got.HotTempC, 1e-9)
			// Wind and rain always pass through unadjusted.
			assert.InDelta(t, 8.0, got.WindySpeedMS, 1e-9)
			assert.InDelta(t, 10.0, got.HeavyRainMm, 1e-9)
		})
	}
}

func TestComputeThresholds_Deterministic(t *testing.T) {
	a := ComputeThresholds(40, time.July)
	b := ComputeThresholds(40, time.July)
	assert.Equal(t, a, b)
}

func TestSeasonBuckets(t *testing.T) {
	// Northern hemisphere: Dec-Feb winter, Jun-Aug summer.
	assert.True(t, isWinter(40, time.December))
	assert.True(t, isWinter(40, time.February))
	assert.False(t, isWinter(40, time.March))
	assert.True(t, isSummer(40, time.June))
	assert.False(t, isSummer(40, time.September))

	// Southern hemisphere mirrors.
	assert.True(t, isWinter(-40, time.July))
	assert.False(t, isWinter(-40, time.January))
	assert.True(t, isSummer(-40, time.January))
	assert.False(t, isSummer(-40, time.July))

	// The equator counts as northern.
	assert.True(t, isWinter(0, time.January))
	assert.True(t, isSummer(0, time.July))
}
