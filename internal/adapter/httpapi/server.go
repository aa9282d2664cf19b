// Package httpapi exposes the analysis engine over HTTP alongside health,
// readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/redhatsam09/planmyfest1/internal/domain"
	"github.com/redhatsam09/planmyfest1/internal/engine"
	"github.com/redhatsam09/planmyfest1/internal/export"
)

// AnalysisService is the engine surface the HTTP layer needs.
type AnalysisService interface {
	Analyze(ctx context.Context, req engine.AnalysisRequest) (export.Session, error)
	Export(s export.Session) ([]byte, string, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the analysis API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	service    AnalysisService
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, service AnalysisService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /v1/export", s.handleExport)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// analyzeRequest is the wire form of an analysis job. Series carries the
// raw observation document as produced by the data source.
type analyzeRequest struct {
	Location  string          `json:"location"`
	Latitude  float64         `json:"latitude"`
	Longitude float64         `json:"longitude"`
	EventDate string          `json:"event_date"`
	Series    json.RawMessage `json:"series"`
	StartYear int             `json:"start_year,omitempty"`
	EndYear   int             `json:"end_year,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	session, ok := s.analyze(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := s.analyze(w, r)
	if !ok {
		return
	}

	data, filename, err := s.service.Export(session)
	if err != nil {
		s.logger.Error("export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data) //nolint:errcheck // response already committed
}

// analyze decodes and validates the request, then runs the engine. On failure
// the response is already written and ok is false.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (export.Session, bool) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return export.Session{}, false
	}

	eventDate, err := validate(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return export.Session{}, false
	}

	session, err := s.service.Analyze(r.Context(), engine.AnalysisRequest{
		LocationName: req.Location,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		EventDate:    eventDate,
		SeriesJSON:   req.Series,
		StartYear:    req.StartYear,
		EndYear:      req.EndYear,
	})
	if err != nil {
		if errors.Is(err, domain.ErrMissingTimeAxis) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return export.Session{}, false
		}
		s.logger.Error("analysis failed", "error", err, "location", req.Location)
		writeError(w, http.StatusBadRequest, err.Error())
		return export.Session{}, false
	}
	return session, true
}

func validate(req analyzeRequest) (time.Time, error) {
	if req.Location == "" {
		return time.Time{}, errors.New("location is required")
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		return time.Time{}, errors.New("latitude must be between -90 and 90")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return time.Time{}, errors.New("longitude must be between -180 and 180")
	}
	if len(req.Series) == 0 {
		return time.Time{}, errors.New("series is required")
	}
	eventDate, err := time.Parse("2006-01-02", req.EventDate)
	if err != nil {
		return time.Time{}, errors.New("event_date must be YYYY-MM-DD")
	}
	return eventDate, nil
}

// Response DTOs. Optional numeric fields are pointers because internal NaN
// markers are not representable in JSON.

type analyzeResponse struct {
	Location   string              `json:"location"`
	Latitude   float64             `json:"latitude"`
	Longitude  float64             `json:"longitude"`
	EventDate  string              `json:"event_date"`
	AnalyzedAt string              `json:"analyzed_at"`
	DataSource string              `json:"data_source"`
	SourceURL  string              `json:"source_url"`
	Thresholds domain.ThresholdSet `json:"thresholds"`
	Current    []sampleView        `json:"current"`
	History    []summaryView       `json:"history"`
	Prediction *domain.OddsResult  `json:"prediction,omitempty"`
}

type sampleView struct {
	Timestamp   string   `json:"timestamp"`
	TempC       *float64 `json:"temp_c,omitempty"`
	WindSpeedMS *float64 `json:"wind_speed_ms,omitempty"`
	PressureHPa *float64 `json:"pressure_hpa,omitempty"`
	HumidityPct *float64 `json:"humidity_pct,omitempty"`
	PrecipMm    *float64 `json:"precip_mm,omitempty"`
	Condition   string   `json:"condition"`
	Icon        string   `json:"icon"`
	Description string   `json:"description"`
}

type summaryView struct {
	Date           string   `json:"date"`
	SampleCount    int      `json:"sample_count"`
	AvgTempC       *float64 `json:"avg_temp_c,omitempty"`
	AvgWindSpeedMS float64  `json:"avg_wind_speed_ms"`
	AvgPressureHPa float64  `json:"avg_pressure_hpa"`
	AvgHumidityPct *float64 `json:"avg_humidity_pct,omitempty"`
	TotalPrecipMm  float64  `json:"total_precip_mm"`
	Condition      string   `json:"condition"`
	Icon           string   `json:"icon"`
}

func sessionResponse(s export.Session) analyzeResponse {
	resp := analyzeResponse{
		Location:   s.LocationName,
		Latitude:   s.Latitude,
		Longitude:  s.Longitude,
		EventDate:  s.EventDate.Format("2006-01-02"),
		AnalyzedAt: s.AnalyzedAt.Format(time.RFC3339),
		DataSource: s.DataSource,
		SourceURL:  s.SourceURL,
		Thresholds: s.Thresholds,
		Current:    make([]sampleView, 0, len(s.Current)),
		History:    make([]summaryView, 0, len(s.History)),
		Prediction: s.Prediction,
	}

	for _, sample := range s.Current {
		cond := domain.ClassifySample(sample)
		speed := domain.WindSpeed(sample.WindU, sample.WindV)
		pressure := domain.NormalizePressure(sample.PressureRaw)
		resp.Current = append(resp.Current, sampleView{
			Timestamp:   sample.Timestamp.Format(time.RFC3339),
			TempC:       optional(sample.TemperatureC),
			WindSpeedMS: optional(speed),
			PressureHPa: optional(pressure),
			HumidityPct: optional(sample.HumidityPct),
			PrecipMm:    optional(sample.PrecipitationMm),
			Condition:   string(cond),
			Icon:        cond.Icon(),
			Description: cond.Description(),
		})
	}

	for _, day := range s.History {
		view := summaryView{
			Date:           day.Date.Format("2006-01-02"),
			SampleCount:    day.SampleCount,
			AvgTempC:       optional(day.AvgTempC),
			AvgWindSpeedMS: day.AvgWindSpeedMS,
			AvgPressureHPa: day.AvgPressureHPa,
			TotalPrecipMm:  day.TotalPrecipMm,
			Condition:      string(day.Condition),
			Icon:           day.Condition.Icon(),
		}
		if !math.IsNaN(day.AvgHumidityFrac) {
			pct := day.AvgHumidityFrac * 100
			view.AvgHumidityPct = &pct
		}
		resp.History = append(resp.History, view)
	}

	return resp
}

func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
