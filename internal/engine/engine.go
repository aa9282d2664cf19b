// Package engine orchestrates a weather analysis: parse the observation
// series, classify and aggregate it, compute location-aware thresholds, and
// optionally attach day-of-year odds from the statistics backend.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/export"
	"github.com/redhatsam09/planmyfest1/internal/observability"
)

// SummaryPublisher emits daily summaries to a downstream sink.
type SummaryPublisher interface {
	PublishSummaries(ctx context.Context, location string, summaries []domain.DailySummary) error
}

// AnalysisRequest carries one analysis job: where, when, and the raw
// observation series to interpret.
type AnalysisRequest struct {
	LocationName string
	Latitude     float64
	Longitude    float64
	EventDate    time.Time
	SeriesJSON   []byte

	// Optional historical span for the odds query. Zero values fall back to
	// the engine defaults.
	StartYear int
	EndYear   int
}

// Engine runs analyses. The odds client and summary publisher are optional;
// a nil client or a failed lookup degrades to a session without a prediction.
type Engine struct {
	odds      domain.OddsClient
	publisher SummaryPublisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool

	dataSource string
	sourceURL  string
	startYear  int
	endYear    int
}

// Config holds the engine's static wiring.
type Config struct {
	DataSourceName string
	DataSourceURL  string
	OddsStartYear  int
	OddsEndYear    int
}

// New creates an Engine. odds and publisher may be nil.
func New(odds domain.OddsClient, publisher SummaryPublisher, logger *slog.Logger, metrics *observability.Metrics, cfg Config) *Engine {
	return &Engine{
		odds:       odds,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		dataSource: cfg.DataSourceName,
		sourceURL:  cfg.DataSourceURL,
		startYear:  cfg.OddsStartYear,
		endYear:    cfg.OddsEndYear,
	}
}

// CheckReadiness returns nil once the engine has completed at least one
// analysis, or an error describing why the service is not yet ready.
func (e *Engine) CheckReadiness(_ context.Context) error {
	if !e.ready.Load() {
		return errors.New("engine has not completed any analyses yet")
	}
	return nil
}

// Analyze interprets one observation series into a session ready for
// presentation or export.
func (e *Engine) Analyze(ctx context.Context, req AnalysisRequest) (export.Session, error) {
	start := time.Now()
	e.metrics.AnalysesTotal.Inc()

	samples, err := domain.ParseSeriesJSON(req.SeriesJSON, req.Latitude, req.Longitude)
	if err != nil {
		e.metrics.AnalysisErrors.Inc()
		return export.Session{}, fmt.Errorf("parse series: %w", err)
	}
	e.metrics.SamplesAnalyzed.Observe(float64(len(samples)))

	for _, s := range samples {
		cond := domain.ClassifySample(s)
		e.metrics.Classifications.WithLabelValues(string(cond)).Inc()
	}

	history := domain.AggregateDaily(samples)
	thresholds := domain.ComputeThresholds(req.Latitude, req.EventDate.Month())

	session := export.Session{
		LocationName: req.LocationName,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		EventDate:    req.EventDate,
		AnalyzedAt:   domain.Today(),
		DataSource:   e.dataSource,
		SourceURL:    e.sourceURL,
		Current:      samples,
		History:      history,
		Thresholds:   thresholds,
		Prediction:   e.lookupOdds(ctx, req, thresholds),
	}

	e.publishSummaries(ctx, req.LocationName, history)

	e.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	e.ready.Store(true)

	e.logger.Info("analysis complete",
		"location", req.LocationName,
		"samples", len(samples),
		"history_days", len(history),
		"has_prediction", session.Prediction != nil,
	)
	return session, nil
}

// Export renders a session to CSV and returns the bytes with the suggested
// filename.
func (e *Engine) Export(s export.Session) ([]byte, string, error) {
	data, err := export.Export(s)
	if err != nil {
		return nil, "", err
	}
	e.metrics.ExportsTotal.Inc()
	e.metrics.ExportRows.Observe(float64(s.RowCount()))
	return data, export.Filename(s), nil
}

// lookupOdds fetches the day-of-year prediction. Failures degrade to nil so
// an unreachable statistics backend never blocks an analysis.
func (e *Engine) lookupOdds(ctx context.Context, req AnalysisRequest, thresholds domain.ThresholdSet) *domain.OddsResult {
	if e.odds == nil {
		return nil
	}

	startYear, endYear := req.StartYear, req.EndYear
	if startYear == 0 {
		startYear = e.startYear
	}
	if endYear == 0 {
		endYear = e.endYear
	}

	q := domain.NewOddsQuery(req.Latitude, req.Longitude, req.EventDate, startYear, endYear)
	q.Thresholds = thresholds

	result, err := e.odds.DayOfYearOdds(ctx, q)
	if err != nil {
		e.logger.Warn("odds lookup failed, continuing without prediction",
			"error", err, "location", req.LocationName)
		return nil
	}
	if result.NSamples == 0 {
		return nil
	}
	return &result
}

// publishSummaries sends the aggregated history to the sink, if configured.
// Publish failures are logged and swallowed; the analysis result stands.
func (e *Engine) publishSummaries(ctx context.Context, location string, summaries []domain.DailySummary) {
	if e.publisher == nil || len(summaries) == 0 {
		return
	}
	if err := e.publisher.PublishSummaries(ctx, location, summaries); err != nil {
		e.logger.Warn("summary publish failed", "error", err, "location", location)
		return
	}
	e.metrics.SummariesPublished.Add(float64(len(summaries)))
}
