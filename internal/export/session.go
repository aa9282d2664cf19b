package export

import (
	"time"

	"github.com/redhatsam09/planmyfest1/internal/domain"
)

// Session is the explicit result context an analysis produces and the
// exporter consumes. It replaces any notion of "whatever was analyzed last":
// callers hand the exporter exactly the datasets they want serialized.
type Session struct {
	LocationName string    `json:"location_name"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	EventDate    time.Time `json:"event_date"`
	AnalyzedAt   time.Time `json:"analyzed_at"`
	DataSource   string    `json:"data_source,omitempty"`
	SourceURL    string    `json:"source_url,omitempty"`

	Current    []domain.ObservationSample `json:"-"`
	History    []domain.DailySummary      `json:"-"`
	Thresholds domain.ThresholdSet        `json:"thresholds"`
	Prediction *domain.OddsResult         `json:"prediction,omitempty"`
}

// DatasetCount reports how many of the three dataset kinds are present.
func (s Session) DatasetCount() int {
	n := 0
	if len(s.Current) > 0 {
		n++
	}
	if len(s.History) > 0 {
		n++
	}
	if s.Prediction != nil {
		n++
	}
	return n
}

// RowCount is the number of data rows the session will export.
func (s Session) RowCount() int {
	n := len(s.Current) + len(s.History)
	if s.Prediction != nil {
		n++
	}
	return n
}
