// Package statsapi talks to the backend statistics service that computes
// day-of-year exceedance probabilities. This service only phrases queries
// (coordinates, date, thresholds); all distribution math stays upstream.
package statsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/observability"
)

// Client implements domain.OddsClient against the statistics backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a statistics backend client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// oddsRequest is the wire form of a day-of-year probability query.
type oddsRequest struct {
	Latitude   float64            `json:"latitude"`
	Longitude  float64            `json:"longitude"`
	StartYear  int                `json:"start_year"`
	EndYear    int                `json:"end_year"`
	Month      int                `json:"month"`
	Day        int                `json:"day"`
	Variables  []string           `json:"variables"`
	Thresholds map[string]float64 `json:"thresholds"`
}

// oddsResponse mirrors the backend's answer shape.
type oddsResponse struct {
	Probabilities map[string]float64          `json:"probabilities"`
	Summary       map[string]domain.Quantiles `json:"summary"`
	NSamples      int                         `json:"n_samples"`
	Source        string                      `json:"source"`
}

// DayOfYearOdds asks the backend how often the query's thresholds were
// exceeded on the given month/day across the year span.
func (c *Client) DayOfYearOdds(ctx context.Context, q domain.OddsQuery) (domain.OddsResult, error) {
	start := time.Now()
	defer func() {
		c.metrics.OddsAPIDuration.Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(oddsRequest{
		Latitude:  q.Latitude,
		Longitude: q.Longitude,
		StartYear: q.StartYear,
		EndYear:   q.EndYear,
		Month:     int(q.Month),
		Day:       q.Day,
		Variables: q.Variables,
		Thresholds: map[string]float64{
			domain.VarTemperature:   q.Thresholds.HotTempC,
			domain.VarWindSpeed:     q.Thresholds.WindySpeedMS,
			domain.VarPrecipitation: q.Thresholds.HeavyRainMm,
		},
	})
	if err != nil {
		return domain.OddsResult{}, fmt.Errorf("encode odds request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/probability/doy", bytes.NewReader(body))
	if err != nil {
		return domain.OddsResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.OddsRequests.WithLabelValues("error").Inc()
		return domain.OddsResult{}, fmt.Errorf("odds request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.OddsRequests.WithLabelValues("error").Inc()
		msg, _ := io.ReadAll(resp.Body)
		return domain.OddsResult{}, fmt.Errorf("stats API error: status %d: %s", resp.StatusCode, msg)
	}

	var decoded oddsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.metrics.OddsRequests.WithLabelValues("error").Inc()
		return domain.OddsResult{}, fmt.Errorf("decode response: %w", err)
	}

	if decoded.NSamples == 0 {
		c.metrics.OddsRequests.WithLabelValues("empty").Inc()
		c.logger.Warn("odds response had no samples",
			"latitude", q.Latitude, "longitude", q.Longitude,
			"month", int(q.Month), "day", q.Day)
	} else {
		c.metrics.OddsRequests.WithLabelValues("success").Inc()
	}

	return domain.OddsResult{
		Probabilities: decoded.Probabilities,
		Summary:       decoded.Summary,
		NSamples:      decoded.NSamples,
		Source:        decoded.Source,
	}, nil
}
