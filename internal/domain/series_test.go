package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeriesJSON = `{
	"coords": {"time": {"data": ["2024-07-15T06:00:00", "2024-07-15T18:00:00"]}},
	"data_vars": {
		"T2M": {"data": [20.5, 24.5]},
		"U10M": {"data": [3, 0]},
		"V10M": {"data": [4, 5]},
		"PS": {"data": [101.3, 101.3]},
		"PRECTOTCORR": {"data": [0.2, 1.1]},
		"RH2M": {"data": [55, 65]}
	}
}`

func TestParseSeriesJSON(t *testing.T) {
	samples, err := ParseSeriesJSON([]byte(testSeriesJSON), 47.5, 19.04)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	s := samples[0]
	assert.Equal(t, time.Date(2024, 7, 15, 6, 0, 0, 0, time.UTC), s.Timestamp)
	assert.Equal(t, 47.5, s.Latitude)
	assert.Equal(t, 19.04, s.Longitude)
	assert.Equal(t, 20.5, s.TemperatureC)
	assert.Equal(t, 3.0, s.WindU)
	assert.Equal(t, 4.0, s.WindV)
	assert.Equal(t, 101.3, s.PressureRaw)
	assert.Equal(t, 55.0, s.HumidityPct)
	assert.Equal(t, 0.2, s.PrecipitationMm)
}

func TestParseSeries_MissingTimeAxis(t *testing.T) {
	tests := []struct {
		name string
		doc  SeriesDocument
	}{
		{"no coords", SeriesDocument{}},
		{"no time coordinate", SeriesDocument{Coords: map[string]SeriesVariable{"lat": {Data: []any{47.5}}}}},
		{"empty time axis", SeriesDocument{Coords: map[string]SeriesVariable{"time": {}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeries(tt.doc, 0, 0)
			require.ErrorIs(t, err, ErrMissingTimeAxis)
		})
	}
}

func TestParseSeries_OptionalHumidityAbsent(t *testing.T) {
	doc := SeriesDocument{
		Coords: map[string]SeriesVariable{
			"time": {Data: []any{"2024-07-15T06:00:00"}},
		},
		DataVars: map[string]SeriesVariable{
			VarTemperature: {Data: []any{21.0}},
		},
	}

	samples, err := ParseSeries(doc, 0, 0)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	// Missing optional variable yields NaN, not an error; the classifier
	// default takes over downstream.
	assert.True(t, math.IsNaN(samples[0].HumidityPct))
	assert.Equal(t, 21.0, samples[0].TemperatureC)
}

func TestParseSeries_ShortAndNestedArrays(t *testing.T) {
	doc := SeriesDocument{
		Coords: map[string]SeriesVariable{
			"time": {Data: []any{"2024-07-15", "2024-07-16"}},
		},
		DataVars: map[string]SeriesVariable{
			// Grid-point selection residue: nested single-cell arrays.
			VarTemperature: {Data: []any{[]any{19.5}, []any{22.0}}},
			// Shorter than the time axis.
			VarPrecipitation: {Data: []any{1.0}},
			// Nulls decode as nil.
			VarPressure: {Data: []any{nil, 101.3}},
		},
	}

	samples, err := ParseSeries(doc, 0, 0)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	assert.Equal(t, 19.5, samples[0].TemperatureC)
	assert.Equal(t, 22.0, samples[1].TemperatureC)
	assert.Equal(t, 1.0, samples[0].PrecipitationMm)
	assert.True(t, math.IsNaN(samples[1].PrecipitationMm))
	assert.True(t, math.IsNaN(samples[0].PressureRaw))
	assert.Equal(t, 101.3, samples[1].PressureRaw)
}

func TestParseSeries_BadTimestamp(t *testing.T) {
	doc := SeriesDocument{
		Coords: map[string]SeriesVariable{
			"time": {Data: []any{"yesterday-ish"}},
		},
	}

	_, err := ParseSeries(doc, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "time coordinate")
}

func TestParseSeriesJSON_InvalidJSON(t *testing.T) {
	_, err := ParseSeriesJSON([]byte("{not-json"), 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse series document")
}

func TestClassifySample(t *testing.T) {
	s := ObservationSample{
		TemperatureC:    20,
		WindU:           3,
		WindV:           4,
		PressureRaw:     101325, // pascals, normalized before classifying
		HumidityPct:     88,
		PrecipitationMm: 0,
	}
	// 1013.25 hPa >= 1008 blocks the humid-low-pressure rain rule.
	assert.Equal(t, ConditionHumid, ClassifySample(s))

	s.PressureRaw = 100.0 // kPa -> 1000 hPa, below the 1008 cutoff
	assert.Equal(t, ConditionRainy, ClassifySample(s))
}
