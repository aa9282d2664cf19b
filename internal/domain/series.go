package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrMissingTimeAxis reports a series document without a usable time
// coordinate. It is a hard "no data" failure: callers must surface it
// instead of classifying defaults.
var ErrMissingTimeAxis = errors.New("series has no time coordinate")

// Data variable names as they appear in NASA POWER / MERRA-2 datasets.
const (
	VarTemperature   = "T2M"
	VarWindU         = "U10M"
	VarWindV         = "V10M"
	VarPressure      = "PS"
	VarPrecipitation = "PRECTOTCORR"
	VarHumidity      = "RH2M"
	VarWindSpeed     = "WS10M"
)

// SeriesDocument is the dictionary form of an xarray Dataset as serialized
// by the backend data service: a time coordinate plus named variable arrays
// index-aligned to it.
type SeriesDocument struct {
	Coords   map[string]SeriesVariable `json:"coords"`
	DataVars map[string]SeriesVariable `json:"data_vars"`
	Attrs    map[string]any            `json:"attrs,omitempty"`
}

// SeriesVariable holds one coordinate or data array. Values are decoded
// loosely because upstream emits numbers, nulls, timestamps, and the
// occasional nested single-cell array left over from grid-point selection.
type SeriesVariable struct {
	Data []any `json:"data"`
}

// ObservationSample is one time step of a point weather series. Numeric
// fields use NaN for values the source did not provide.
type ObservationSample struct {
	Timestamp       time.Time
	Latitude        float64
	Longitude       float64
	TemperatureC    float64
	WindU           float64
	WindV           float64
	PressureRaw     float64 // as reported upstream; see NormalizePressure
	HumidityPct     float64 // relative humidity percent, optional
	PrecipitationMm float64
}

// ParseSeriesJSON decodes raw JSON into a sample slice. See ParseSeries.
func ParseSeriesJSON(data []byte, lat, lon float64) ([]ObservationSample, error) {
	var doc SeriesDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse series document: %w", err)
	}
	return ParseSeries(doc, lat, lon)
}

// ParseSeries materializes a series document into observation samples, one
// per time step. A missing or empty time coordinate returns
// ErrMissingTimeAxis. Missing variables and short arrays yield NaN slots;
// downstream defaults absorb them.
func ParseSeries(doc SeriesDocument, lat, lon float64) ([]ObservationSample, error) {
	timeAxis, ok := doc.Coords["time"]
	if !ok || len(timeAxis.Data) == 0 {
		return nil, ErrMissingTimeAxis
	}

	temps := numericColumn(doc.DataVars, VarTemperature, len(timeAxis.Data))
	windU := numericColumn(doc.DataVars, VarWindU, len(timeAxis.Data))
	windV := numericColumn(doc.DataVars, VarWindV, len(timeAxis.Data))
	pressure := numericColumn(doc.DataVars, VarPressure, len(timeAxis.Data))
	precip := numericColumn(doc.DataVars, VarPrecipitation, len(timeAxis.Data))
	humidity := numericColumn(doc.DataVars, VarHumidity, len(timeAxis.Data))

	samples := make([]ObservationSample, 0, len(timeAxis.Data))
	for i, raw := range timeAxis.Data {
		ts, err := parseTimestamp(raw)
		if err != nil {
			return nil, fmt.Errorf("time coordinate index %d: %w", i, err)
		}
		samples = append(samples, ObservationSample{
			Timestamp:       ts,
			Latitude:        lat,
			Longitude:       lon,
			TemperatureC:    temps[i],
			WindU:           windU[i],
			WindV:           windV[i],
			PressureRaw:     pressure[i],
			HumidityPct:     humidity[i],
			PrecipitationMm: precip[i],
		})
	}
	return samples, nil
}

// numericColumn extracts a variable array of exactly n values, padding with
// NaN when the variable is absent or shorter than the time axis.
func numericColumn(vars map[string]SeriesVariable, name string, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	v, ok := vars[name]
	if !ok {
		return out
	}
	for i := 0; i < n && i < len(v.Data); i++ {
		out[i] = coerceNumber(v.Data[i])
	}
	return out
}

// coerceNumber converts a loosely decoded cell to float64, flattening
// single-cell nested arrays and mapping null/garbage to NaN.
func coerceNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return math.NaN()
		}
		return f
	case []any:
		if len(x) == 0 {
			return math.NaN()
		}
		return coerceNumber(x[0])
	default:
		return math.NaN()
	}
}

// timestampLayouts covers the formats the backend emits for the time axis.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(v any) (time.Time, error) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("unexpected time value %v", v)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time value %q", s)
}
