package domain

import "time"

// ThresholdSet holds the exceedance boundaries used to phrase probability
// queries against the statistics backend. These are boundaries, never
// probabilities.
type ThresholdSet struct {
	HotTempC     float64 `json:"hot_temp_c"`
	WindySpeedMS float64 `json:"windy_speed_ms"`
	HeavyRainMm  float64 `json:"heavy_rain_mm"`
}

// Base thresholds before location and season adjustment.
const (
	baseHotTempC     = 30
	baseWindySpeedMS = 8
	baseHeavyRainMm  = 10
)

// ComputeThresholds derives location- and season-adjusted thresholds for a
// latitude and month. The extreme-latitude check wins over the tropics
// check, and the winter test takes precedence over summer. Wind and rain
// thresholds pass through unadjusted. Pure and deterministic.
func ComputeThresholds(lat float64, month time.Month) ThresholdSet {
	t := ThresholdSet{
		HotTempC:     baseHotTempC,
		WindySpeedMS: baseWindySpeedMS,
		HeavyRainMm:  baseHeavyRainMm,
	}

	abs := lat
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 30:
		t.HotTempC = 25
	case abs < 15:
		t.HotTempC = 35
	}

	switch {
	case isWinter(lat, month):
		t.HotTempC -= 5
	case isSummer(lat, month):
		t.HotTempC += 2
	}

	return t
}

// isWinter reports hemisphere-aware meteorological winter: Jun-Aug south of
// the equator, Dec-Feb at or north of it.
func isWinter(lat float64, month time.Month) bool {
	if lat < 0 {
		return month >= time.June && month <= time.August
	}
	return month == time.December || month <= time.February
}

// isSummer is the mirrored bucket of isWinter.
func isSummer(lat float64, month time.Month) bool {
	if lat < 0 {
		return month == time.December || month <= time.February
	}
	return month >= time.June && month <= time.August
}
