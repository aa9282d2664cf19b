// Package kafka publishes analysis artifacts to Kafka for downstream
// consumers (dashboards, long-term archives).
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/redhatsam09/planmyfest1/internal/domain"
)

// Writer produces daily summary messages to a Kafka topic.
// It implements engine.SummaryPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the summary topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishSummaries serializes and publishes the daily summaries for one
// location in a single WriteMessages call.
func (w *Writer) PublishSummaries(ctx context.Context, location string, summaries []domain.DailySummary) error {
	if len(summaries) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(summaries))
	for i := range summaries {
		msg, err := serializeToMessage(location, summaries[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// summaryEvent is the wire form of a daily summary. Optional aggregates are
// pointers because NaN is not representable in JSON.
type summaryEvent struct {
	Location       string   `json:"location"`
	Date           string   `json:"date"`
	SampleCount    int      `json:"sample_count"`
	AvgTempC       *float64 `json:"avg_temp_c,omitempty"`
	AvgWindSpeedMS float64  `json:"avg_wind_speed_ms"`
	AvgPressureHPa float64  `json:"avg_pressure_hpa"`
	AvgHumidityPct *float64 `json:"avg_humidity_pct,omitempty"`
	TotalPrecipMm  float64  `json:"total_precip_mm"`
	Condition      string   `json:"condition"`
}

// serializeToMessage marshals a daily summary into a Kafka message keyed by
// location and date so replays for the same day compact cleanly.
func serializeToMessage(location string, d domain.DailySummary) (kafkago.Message, error) {
	event := summaryEvent{
		Location:       location,
		Date:           d.Date.Format("2006-01-02"),
		SampleCount:    d.SampleCount,
		AvgWindSpeedMS: d.AvgWindSpeedMS,
		AvgPressureHPa: d.AvgPressureHPa,
		TotalPrecipMm:  d.TotalPrecipMm,
		Condition:      string(d.Condition),
	}
	if d.HasTemperature() {
		t := d.AvgTempC
		event.AvgTempC = &t
	}
	if !math.IsNaN(d.AvgHumidityFrac) {
		h := d.AvgHumidityFrac * 100
		event.AvgHumidityPct = &h
	}

	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize daily summary: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fmt.Sprintf("%s|%s", location, event.Date)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "condition", Value: []byte(d.Condition)},
			{Key: "published_at", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		},
	}, nil
}
