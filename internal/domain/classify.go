package domain

import "math"

// StandardPressureHPa is the default surface pressure when a sample carries none.
const StandardPressureHPa = 1013.25

// NormalizePressure converts a raw PS reading to hectopascals using the
// magnitude heuristic: values above 2000 are pascals, values below 200 are
// kilopascals, anything between is already hPa. NaN (missing) falls back to
// standard sea-level pressure. The cutoffs are safe because real surface
// pressure stays within roughly 870-1085 hPa.
func NormalizePressure(raw float64) float64 {
	switch {
	case math.IsNaN(raw):
		return StandardPressureHPa
	case raw > 2000:
		return raw / 100
	case raw < 200:
		return raw * 10
	default:
		return raw
	}
}

// WindSpeed derives scalar wind speed from u/v components.
func WindSpeed(u, v float64) float64 {
	return math.Sqrt(u*u + v*v)
}

// signal is the normalized input a classification rule inspects.
type signal struct {
	tempC        float64
	windSpeed    float64
	pressureHPa  float64
	humidityFrac float64
	precipMm     float64
}

// rule pairs a condition tag with its predicate. Rules are evaluated in
// order, first match wins; several predicates can hold simultaneously, so
// the order is part of the contract.
type rule struct {
	cond  Condition
	match func(s signal) bool
}

var classificationRules = []rule{
	{ConditionHeavyRain, func(s signal) bool { return s.precipMm >= 20 }},
	{ConditionRainy, func(s signal) bool {
		return s.precipMm >= 10 || (s.humidityFrac >= 0.85 && s.pressureHPa < 1008)
	}},
	{ConditionLightRain, func(s signal) bool { return s.precipMm >= 1 && s.precipMm < 10 }},
	{ConditionVeryWindy, func(s signal) bool { return s.windSpeed >= 15 }},
	{ConditionWindy, func(s signal) bool { return s.windSpeed >= 10 }},
	{ConditionVeryHot, func(s signal) bool { return s.tempC >= 35 }},
	{ConditionHotSunny, func(s signal) bool {
		return s.tempC >= 32 && s.humidityFrac <= 0.6 && s.pressureHPa >= 1008
	}},
	{ConditionFreezing, func(s signal) bool { return s.tempC <= 0 }},
	{ConditionCold, func(s signal) bool { return s.tempC <= 5 }},
	{ConditionVeryHumid, func(s signal) bool { return s.humidityFrac >= 0.9 }},
	{ConditionHumid, func(s signal) bool { return s.humidityFrac >= 0.75 }},
	{ConditionSunny, func(s signal) bool { return s.tempC >= 26 && s.humidityFrac <= 0.65 }},
	{ConditionCloudy, func(s signal) bool { return s.humidityFrac >= 0.65 && s.humidityFrac < 0.75 }},
	{ConditionPartlyCloudy, func(s signal) bool { return true }},
}

// Classify maps one observation to a condition tag. Missing inputs are NaN:
// temperature defaults to 0, humidity to 0.5, precipitation to 0, pressure to
// standard sea-level pressure. Humidity is clamped to [0,1]. Total over all
// inputs; always returns exactly one tag.
func Classify(tempC, windU, windV, pressureHPa, humidityFrac, precipMm float64) Condition {
	s := signal{
		tempC:        orDefault(tempC, 0),
		windSpeed:    WindSpeed(orDefault(windU, 0), orDefault(windV, 0)),
		pressureHPa:  orDefault(pressureHPa, StandardPressureHPa),
		humidityFrac: clamp01(orDefault(humidityFrac, 0.5)),
		precipMm:     orDefault(precipMm, 0),
	}

	for _, r := range classificationRules {
		if r.match(s) {
			return r.cond
		}
	}
	// Unreachable: the final rule always matches.
	return ConditionPartlyCloudy
}

// ClassifySample classifies a single observation sample, normalizing its raw
// pressure first.
func ClassifySample(s ObservationSample) Condition {
	return Classify(
		s.TemperatureC,
		s.WindU,
		s.WindV,
		NormalizePressure(s.PressureRaw),
		s.HumidityPct/100,
		s.PrecipitationMm,
	)
}

func orDefault(v, def float64) float64 {
	if math.IsNaN(v) {
		return def
	}
	return v
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
