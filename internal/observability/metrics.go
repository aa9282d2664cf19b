package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis service.
type Metrics struct {
	AnalysesTotal    prometheus.Counter
	AnalysisErrors   prometheus.Counter
	AnalysisDuration prometheus.Histogram
	Classifications  *prometheus.CounterVec // labels: condition
	SamplesAnalyzed  prometheus.Histogram

	// Export metrics.
	ExportsTotal prometheus.Counter
	ExportRows   prometheus.Histogram

	// Odds (statistics backend) metrics.
	OddsRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	OddsCache       *prometheus.CounterVec // labels: result={hit,miss}
	OddsAPIDuration prometheus.Histogram
	OddsEnabled     prometheus.Gauge

	// Summary sink metrics.
	SummariesPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "analyses_total",
			Help:      "Total analysis requests processed.",
		}),
		AnalysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "analysis_errors_total",
			Help:      "Total analysis requests that failed.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planmyfest",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete parse-aggregate-predict cycle.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "classifications_total",
			Help:      "Condition classifications produced, by tag.",
		}, []string{"condition"}),
		SamplesAnalyzed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planmyfest",
			Name:      "samples_analyzed",
			Help:      "Number of observation samples per analysis request.",
			Buckets:   []float64{1, 4, 8, 24, 48, 96, 168, 336},
		}),
		ExportsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "exports_total",
			Help:      "Total CSV exports produced.",
		}),
		ExportRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planmyfest",
			Name:      "export_rows",
			Help:      "Data rows per CSV export.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
		}),
		OddsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "odds_requests_total",
			Help:      "Statistics backend requests by outcome.",
		}, []string{"outcome"}),
		OddsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "odds_cache_total",
			Help:      "Odds cache lookups by result.",
		}, []string{"result"}),
		OddsAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "planmyfest",
			Name:      "odds_api_duration_seconds",
			Help:      "Statistics backend request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		OddsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "planmyfest",
			Name:      "odds_enabled",
			Help:      "1 when the statistics backend integration is enabled, 0 otherwise.",
		}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "planmyfest",
			Name:      "summaries_published_total",
			Help:      "Daily summaries published to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisErrors,
		m.AnalysisDuration,
		m.Classifications,
		m.SamplesAnalyzed,
		m.ExportsTotal,
		m.ExportRows,
		m.OddsRequests,
		m.OddsCache,
		m.OddsAPIDuration,
		m.OddsEnabled,
		m.SummariesPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics without touching the default registry
// so parallel tests do not trip duplicate registration panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AnalysesTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "planmyfest", Name: "analyses_total"}),
		AnalysisErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "planmyfest", Name: "analysis_errors_total"}),
		AnalysisDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "planmyfest", Name: "analysis_duration_seconds"}),
		Classifications:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "planmyfest", Name: "classifications_total"}, []string{"condition"}),
		SamplesAnalyzed:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "planmyfest", Name: "samples_analyzed"}),
		ExportsTotal:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "planmyfest", Name: "exports_total"}),
		ExportRows:         prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "planmyfest", Name: "export_rows"}),
		OddsRequests:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "planmyfest", Name: "odds_requests_total"}, []string{"outcome"}),
		OddsCache:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "planmyfest", Name: "odds_cache_total"}, []string{"result"}),
		OddsAPIDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "planmyfest", Name: "odds_api_duration_seconds"}),
		OddsEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "planmyfest", Name: "odds_enabled"}),
		SummariesPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "planmyfest", Name: "summaries_published_total"}),
	}
}
