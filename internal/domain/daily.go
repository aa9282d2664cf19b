package domain

import (
	"math"
	"sort"
	"time"
)

// historyDays is how many trailing calendar days a daily history keeps.
const historyDays = 7

// DailySummary is the aggregate of all samples sharing one UTC calendar day.
// AvgTempC and AvgHumidityFrac are NaN when no sample carried a value; the
// marker must survive rendering (a dash, an empty cell) and never collapse
// to zero.
type DailySummary struct {
	Date            time.Time
	SampleCount     int
	AvgTempC        float64
	AvgWindSpeedMS  float64
	AvgPressureHPa  float64
	AvgHumidityFrac float64
	TotalPrecipMm   float64
	Condition       Condition
}

// HasTemperature reports whether any sample of the day carried a temperature.
func (d DailySummary) HasTemperature() bool {
	return !math.IsNaN(d.AvgTempC)
}

// AggregateDaily groups samples by UTC calendar date and reduces each group:
// mean temperature over valid samples, mean of per-sample wind speeds, mean
// normalized pressure, mean humidity fraction, summed precipitation. Sample
// order does not matter. The result is ordered by date ascending and
// truncated to the most recent seven days, each classified via the day's
// averages.
func AggregateDaily(samples []ObservationSample) []DailySummary {
	groups := make(map[time.Time][]ObservationSample)
	for _, s := range samples {
		day := s.Timestamp.UTC().Truncate(24 * time.Hour)
		groups[day] = append(groups[day], s)
	}

	summaries := make([]DailySummary, 0, len(groups))
	for day, group := range groups {
		summaries = append(summaries, summarizeDay(day, group))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})

	if len(summaries) > historyDays {
		summaries = summaries[len(summaries)-historyDays:]
	}
	return summaries
}

func summarizeDay(day time.Time, group []ObservationSample) DailySummary {
	var (
		tempSum     float64
		tempCount   int
		windSum     float64
		pressureSum float64
		humiditySum float64
		humidityCnt int
		precipSum   float64
	)

	for _, s := range group {
		if !math.IsNaN(s.TemperatureC) {
			tempSum += s.TemperatureC
			tempCount++
		}
		// Mean of per-sample speeds, not the speed of mean components:
		// opposing winds must not cancel.
		windSum += WindSpeed(orDefault(s.WindU, 0), orDefault(s.WindV, 0))
		pressureSum += NormalizePressure(s.PressureRaw)
		if !math.IsNaN(s.HumidityPct) {
			humiditySum += s.HumidityPct / 100
			humidityCnt++
		}
		if !math.IsNaN(s.PrecipitationMm) {
			precipSum += s.PrecipitationMm
		}
	}

	n := float64(len(group))
	d := DailySummary{
		Date:           day,
		SampleCount:    len(group),
		AvgTempC:       math.NaN(),
		AvgWindSpeedMS: windSum / n,
		AvgPressureHPa: pressureSum / n,
		TotalPrecipMm:  precipSum,
	}
	if tempCount > 0 {
		d.AvgTempC = tempSum / float64(tempCount)
	}
	d.AvgHumidityFrac = math.NaN()
	if humidityCnt > 0 {
		d.AvgHumidityFrac = humiditySum / float64(humidityCnt)
	}

	d.Condition = ClassifyDaily(d)
	return d
}

// ClassifyDaily classifies a day from its aggregate values. The averaged
// scalar wind speed is re-expanded into a synthetic vector at a fixed 45°
// bearing so the day can flow through the vector-shaped classifier
// signature; the magnitude is preserved exactly (cos²+sin² = 1).
func ClassifyDaily(d DailySummary) Condition {
	u, v := dailyWind(d.AvgWindSpeedMS)
	return Classify(d.AvgTempC, u, v, d.AvgPressureHPa, d.AvgHumidityFrac, d.TotalPrecipMm)
}

func dailyWind(speed float64) (u, v float64) {
	return speed * math.Cos(math.Pi/4), speed * math.Sin(math.Pi/4)
}
