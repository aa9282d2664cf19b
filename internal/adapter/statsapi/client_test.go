package statsapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/observability"
)

func testClient(baseURL string) *Client {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClient(baseURL, 5*time.Second, logger, observability.NewMetricsForTesting())
}

func testQuery() domain.OddsQuery {
	return domain.NewOddsQuery(47.4979, 19.0402, time.Date(2025, time.August, 9, 0, 0, 0, 0, time.UTC), 1995, 2024)
}

func TestDayOfYearOdds_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/probability/doy", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req oddsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.InDelta(t, 47.4979, req.Latitude, 1e-9)
		assert.InDelta(t, 19.0402, req.Longitude, 1e-9)
		assert.Equal(t, 1995, req.StartYear)
		assert.Equal(t, 2024, req.EndYear)
		assert.Equal(t, 8, req.Month)
		assert.Equal(t, 9, req.Day)
		assert.Equal(t, []string{"T2M", "WS10M", "PRECTOTCORR"}, req.Variables)
		// High latitude lowers the heat threshold, northern summer bumps it.
		assert.InDelta(t, 27.0, req.Thresholds["T2M"], 1e-9)
		assert.InDelta(t, 8.0, req.Thresholds["WS10M"], 1e-9)
		assert.InDelta(t, 10.0, req.Thresholds["PRECTOTCORR"], 1e-9)

		json.NewEncoder(w).Encode(oddsResponse{
			Probabilities: map[string]float64{"T2M": 0.42, "WS10M": 0.1, "PRECTOTCORR": 0.07},
			Summary: map[string]domain.Quantiles{
				"T2M": {Median: 27.5, P10: 21.0, P90: 33.2},
			},
			NSamples: 30,
			Source:   "NASA POWER",
		})
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.DayOfYearOdds(context.Background(), testQuery())

	require.NoError(t, err)
	assert.Equal(t, 30, result.NSamples)
	assert.Equal(t, "NASA POWER", result.Source)
	assert.InDelta(t, 0.42, result.Probabilities["T2M"], 1e-9)
	assert.InDelta(t, 27.5, result.Summary["T2M"].Median, 1e-9)
}

func TestDayOfYearOdds_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(oddsResponse{NSamples: 0})
	}))
	defer server.Close()

	client := testClient(server.URL)
	result, err := client.DayOfYearOdds(context.Background(), testQuery())

	require.NoError(t, err)
	assert.Zero(t, result.NSamples)
}

func TestDayOfYearOdds_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.DayOfYearOdds(context.Background(), testQuery())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestDayOfYearOdds_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := testClient(server.URL)
	_, err := client.DayOfYearOdds(context.Background(), testQuery())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestDayOfYearOdds_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(server.URL, 10*time.Millisecond, logger, observability.NewMetricsForTesting())
	_, err := client.DayOfYearOdds(context.Background(), testQuery())

	require.Error(t, err)
}
