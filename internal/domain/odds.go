package domain

import (
	"context"
	"time"
)

// OddsQuery asks the statistics backend how often thresholds were exceeded
// on one day of the year across a span of years.
type OddsQuery struct {
	Latitude   float64
	Longitude  float64
	StartYear  int
	EndYear    int
	Month      time.Month
	Day        int
	Variables  []string
	Thresholds ThresholdSet
}

// Quantiles summarizes one variable's historical distribution for the
// queried day.
type Quantiles struct {
	Median float64 `json:"median"`
	P10    float64 `json:"p10"`
	P90    float64 `json:"p90"`
}

// OddsResult is the statistics backend's answer: exceedance percentages per
// variable plus distribution summaries. The probabilities are computed
// upstream; this service only phrases the query.
type OddsResult struct {
	Probabilities map[string]float64   `json:"probabilities"`
	Summary       map[string]Quantiles `json:"summary"`
	NSamples      int                  `json:"n_samples"`
	Source        string               `json:"source"`
}

// OddsClient answers day-of-year exceedance queries.
type OddsClient interface {
	DayOfYearOdds(ctx context.Context, q OddsQuery) (OddsResult, error)
}

// NewOddsQuery builds the collaborator request for an event at the given
// place and date, with thresholds adjusted for that latitude and month.
func NewOddsQuery(lat, lon float64, eventDate time.Time, startYear, endYear int) OddsQuery {
	return OddsQuery{
		Latitude:   lat,
		Longitude:  lon,
		StartYear:  startYear,
		EndYear:    endYear,
		Month:      eventDate.Month(),
		Day:        eventDate.Day(),
		Variables:  []string{VarTemperature, VarWindSpeed, VarPrecipitation},
		Thresholds: ComputeThresholds(lat, eventDate.Month()),
	}
}
