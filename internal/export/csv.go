package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/redhatsam09/planmyfest1/internal/domain"
)

// Dataset kind labels, first column of every row.
const (
	DatasetCurrent    = "CurrentWeather"
	DatasetHistorical = "Historical7Day"
	DatasetPrediction = "WeatherPrediction"
)

// commentPrefix marks metadata preamble lines. The preamble is for humans;
// only the header and data rows are meant to be re-parsed.
const commentPrefix = "# "

// header is the fixed 25-column export schema. Order is part of the contract.
var header = []string{
	"Dataset_Type",
	"Timestamp",
	"Date",
	"Time_UTC",
	"Location_Name",
	"Latitude",
	"Longitude",
	"Temperature_C",
	"Temperature_Unit",
	"Wind_U_Component_ms",
	"Wind_V_Component_ms",
	"Wind_Speed_ms",
	"Wind_Unit",
	"Pressure_hPa",
	"Pressure_Unit",
	"Humidity_Percent",
	"Humidity_Unit",
	"Precipitation_mm",
	"Precipitation_Unit",
	"Weather_Condition",
	"Weather_Description",
	"Data_Source",
	"Source_URL",
	"Analysis_Date",
	"Notes",
}

// nonAlphanumRe matches every character replaced by an underscore when a
// location label is embedded in a file name.
var nonAlphanumRe = regexp.MustCompile(`[^A-Za-z0-9]`)

// Filename suggests an export file name embedding the sanitized location
// label and the current date.
func Filename(s Session) string {
	label := strings.Trim(nonAlphanumRe.ReplaceAllString(s.LocationName, "_"), "_")
	if label == "" {
		label = "location"
	}
	return fmt.Sprintf("weather_data_%s_%s.csv", label, domain.Today().Format("2006-01-02"))
}

// Export serializes the session to a complete CSV artifact.
func Export(s Session) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the export artifact: commented metadata preamble, header
// row, then one row per current-weather sample, per daily summary, and per
// prediction summary. A session with zero datasets still produces the
// preamble and header. Fields containing commas, quotes, or newlines are
// quoted per RFC 4180; absent values are empty cells.
func Write(w io.Writer, s Session) error {
	if err := writePreamble(w, s); err != nil {
		return fmt.Errorf("write preamble: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, sample := range s.Current {
		if err := cw.Write(currentRow(s, sample)); err != nil {
			return fmt.Errorf("write current row: %w", err)
		}
	}
	for _, day := range s.History {
		if err := cw.Write(historyRow(s, day)); err != nil {
			return fmt.Errorf("write history row: %w", err)
		}
	}
	if s.Prediction != nil {
		if err := cw.Write(predictionRow(s, *s.Prediction)); err != nil {
			return fmt.Errorf("write prediction row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func writePreamble(w io.Writer, s Session) error {
	// Keep interpolated values on one line so every preamble line stays a
	// comment.
	label := strings.NewReplacer("\n", " ", "\r", " ").Replace(s.LocationName)
	lines := []string{
		"PlanMyFest Weather Data Export",
		fmt.Sprintf("Location: %s (%.4f, %.4f)", label, s.Latitude, s.Longitude),
		fmt.Sprintf("Event Date: %s", s.EventDate.Format("2006-01-02")),
		fmt.Sprintf("Generated: %s", domain.Today().Format("2006-01-02 15:04:05 UTC")),
		fmt.Sprintf("Data Source: %s", s.DataSource),
		fmt.Sprintf("Datasets: %d, Rows: %d", s.DatasetCount(), s.RowCount()),
		"",
	}
	for _, line := range lines {
		out := strings.TrimRight(commentPrefix+line, " ")
		if _, err := fmt.Fprintln(w, out); err != nil {
			return err
		}
	}
	return nil
}

// currentRow renders one instantaneous sample. The condition is recomputed
// from the row's own fields so every row stays self-describing.
func currentRow(s Session, o domain.ObservationSample) []string {
	cond := domain.ClassifySample(o)
	pressure := domain.NormalizePressure(o.PressureRaw)
	return []string{
		DatasetCurrent,
		o.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		o.Timestamp.UTC().Format("2006-01-02"),
		o.Timestamp.UTC().Format("15:04"),
		s.LocationName,
		num(o.Latitude, 4),
		num(o.Longitude, 4),
		num(o.TemperatureC, 2),
		"C",
		num(o.WindU, 2),
		num(o.WindV, 2),
		num(windSpeedOrNaN(o), 2),
		"m/s",
		num(pressure, 2),
		"hPa",
		num(o.HumidityPct, 1),
		"%",
		num(o.PrecipitationMm, 2),
		"mm",
		cond.String(),
		cond.Description(),
		s.DataSource,
		s.SourceURL,
		s.AnalyzedAt.UTC().Format("2006-01-02"),
		"",
	}
}

func historyRow(s Session, d domain.DailySummary) []string {
	cond := domain.ClassifyDaily(d)
	return []string{
		DatasetHistorical,
		"",
		d.Date.Format("2006-01-02"),
		"",
		s.LocationName,
		num(s.Latitude, 4),
		num(s.Longitude, 4),
		num(d.AvgTempC, 2),
		"C",
		"",
		"",
		num(d.AvgWindSpeedMS, 2),
		"m/s",
		num(d.AvgPressureHPa, 2),
		"hPa",
		num(d.AvgHumidityFrac*100, 1),
		"%",
		num(d.TotalPrecipMm, 2),
		"mm",
		cond.String(),
		cond.Description(),
		s.DataSource,
		s.SourceURL,
		s.AnalyzedAt.UTC().Format("2006-01-02"),
		fmt.Sprintf("Daily aggregate of %d samples", d.SampleCount),
	}
}

// predictionRow renders the odds summary as a single row built from the
// per-variable medians, with the exceedance percentages in the notes.
func predictionRow(s Session, p domain.OddsResult) []string {
	temp := median(p, domain.VarTemperature)
	speed := median(p, domain.VarWindSpeed)
	precip := median(p, domain.VarPrecipitation)
	pressure := domain.NormalizePressure(median(p, domain.VarPressure))
	humidityPct := median(p, domain.VarHumidity)

	cond := domain.Classify(temp, speed, 0, pressure, humidityPct/100, precip)
	return []string{
		DatasetPrediction,
		"",
		s.EventDate.Format("2006-01-02"),
		"",
		s.LocationName,
		num(s.Latitude, 4),
		num(s.Longitude, 4),
		num(temp, 2),
		"C",
		"",
		"",
		num(speed, 2),
		"m/s",
		num(pressure, 2),
		"hPa",
		num(humidityPct, 1),
		"%",
		num(precip, 2),
		"mm",
		cond.String(),
		cond.Description(),
		p.Source,
		s.SourceURL,
		s.AnalyzedAt.UTC().Format("2006-01-02"),
		predictionNotes(p),
	}
}

func predictionNotes(p domain.OddsResult) string {
	parts := make([]string, 0, len(p.Probabilities)+1)
	for _, v := range []string{domain.VarTemperature, domain.VarWindSpeed, domain.VarPrecipitation} {
		if pct, ok := p.Probabilities[v]; ok {
			parts = append(parts, fmt.Sprintf("%s exceedance %.1f%%", v, pct))
		}
	}
	parts = append(parts, fmt.Sprintf("n=%d", p.NSamples))
	return strings.Join(parts, ", ")
}

func median(p domain.OddsResult, variable string) float64 {
	q, ok := p.Summary[variable]
	if !ok {
		return math.NaN()
	}
	return q.Median
}

func windSpeedOrNaN(o domain.ObservationSample) float64 {
	if math.IsNaN(o.WindU) || math.IsNaN(o.WindV) {
		return math.NaN()
	}
	return domain.WindSpeed(o.WindU, o.WindV)
}

// num formats a value with fixed precision, rendering NaN as an empty cell
// rather than the literal word.
func num(v float64, prec int) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}
