// package models defines the data model for the listening dashboard
package models

import (
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Track represents a track returned by the music API.
type Track struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	Artists []string `json:"artists" yaml:"artists"`
	Album   string   `json:"album" yaml:"album"`
	URL     string   `json:"url" yaml:"url"` // Public web URL
}

// PrimaryArtist returns the first credited artist, or "" when there is none.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// FeatureRow holds the charted feature values for one track.
type FeatureRow struct {
	TrackID   string    `json:"track_id" yaml:"track_id"`
	TrackName string    `json:"track_name" yaml:"track_name"`
	Values    []float64 `json:"values" yaml:"values"` // Aligned with FeatureTable.Columns
	Missing   bool      `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// FeatureTable is a table of feature values indexed by track name.
type FeatureTable struct {
	Columns []string     `json:"columns" yaml:"columns"`
	Rows    []FeatureRow `json:"rows" yaml:"rows"`
}

// Column returns the values of the named column, skipping rows with missing features.
func (t FeatureTable) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if row.Missing || idx >= len(row.Values) {
			continue
		}
		values = append(values, row.Values[idx])
	}
	return values
}

// RecommendationRow is one recommended track ready for display.
type RecommendationRow struct {
	TrackID string `json:"track_id" yaml:"track_id"`
	Name    string `json:"name" yaml:"name"`
	URL     string `json:"url" yaml:"url"`
	Artist  string `json:"artist" yaml:"artist"`
	Album   string `json:"album" yaml:"album"`
}

// RecommendationTable lists recommended tracks in API response order.
type RecommendationTable struct {
	Rows []RecommendationRow `json:"rows" yaml:"rows"`
}

// FeatureSummary holds descriptive statistics for one feature column.
type FeatureSummary struct {
	Feature string  `json:"feature" yaml:"feature"`
	Count   int     `json:"count" yaml:"count"`
	Mean    float64 `json:"mean" yaml:"mean"`
	StdDev  float64 `json:"std_dev" yaml:"std_dev"`
	Min     float64 `json:"min" yaml:"min"`
	Median  float64 `json:"median" yaml:"median"`
	Max     float64 `json:"max" yaml:"max"`
}
