package models

import "slices"

// Feature names as used by the audio-features endpoint.
const (
	FeatureDanceability     = "danceability"
	FeatureEnergy           = "energy"
	FeatureValence          = "valence"
	FeatureAcousticness     = "acousticness"
	FeatureInstrumentalness = "instrumentalness"
	FeatureLiveness         = "liveness"
	FeatureSpeechiness      = "speechiness"
	FeatureTempo            = "tempo"
	FeatureLoudness         = "loudness"
)

// DefaultFeatures are the features charted when none are configured.
var DefaultFeatures = []string{FeatureDanceability, FeatureEnergy, FeatureValence}

var numericFeatures = []string{
	FeatureDanceability, FeatureEnergy, FeatureValence, FeatureAcousticness,
	FeatureInstrumentalness, FeatureLiveness, FeatureSpeechiness, FeatureTempo, FeatureLoudness,
}

// AudioFeatures contains numeric descriptors for a single track.
type AudioFeatures struct {
	TrackID          string  `json:"track_id" yaml:"track_id"`
	Danceability     float64 `json:"danceability" yaml:"danceability"`
	Energy           float64 `json:"energy" yaml:"energy"`
	Valence          float64 `json:"valence" yaml:"valence"`
	Acousticness     float64 `json:"acousticness" yaml:"acousticness"`
	Instrumentalness float64 `json:"instrumentalness" yaml:"instrumentalness"`
	Liveness         float64 `json:"liveness" yaml:"liveness"`
	Speechiness      float64 `json:"speechiness" yaml:"speechiness"`
	Tempo            float64 `json:"tempo" yaml:"tempo"`
	Loudness         float64 `json:"loudness" yaml:"loudness"`
	Key              int     `json:"key" yaml:"key"`
	Mode             int     `json:"mode" yaml:"mode"`
	TimeSignature    int     `json:"time_signature" yaml:"time_signature"`
	DurationMS       int     `json:"duration_ms" yaml:"duration_ms"`
}

// Value returns the named numeric feature. ok is false for unknown names.
func (a AudioFeatures) Value(name string) (float64, bool) {
	switch name {
	case FeatureDanceability:
		return a.Danceability, true
	case FeatureEnergy:
		return a.Energy, true
	case FeatureValence:
		return a.Valence, true
	case FeatureAcousticness:
		return a.Acousticness, true
	case FeatureInstrumentalness:
		return a.Instrumentalness, true
	case FeatureLiveness:
		return a.Liveness, true
	case FeatureSpeechiness:
		return a.Speechiness, true
	case FeatureTempo:
		return a.Tempo, true
	case FeatureLoudness:
		return a.Loudness, true
	default:
		return 0, false
	}
}

// IsFeature reports whether name is a numeric feature known to [AudioFeatures.Value].
func IsFeature(name string) bool {
	return slices.Contains(numericFeatures, name)
}

// IsUnitFeature reports whether the feature is a 0..1 ratio, as opposed to tempo (BPM) or loudness (dB).
func IsUnitFeature(name string) bool {
	return IsFeature(name) && name != FeatureTempo && name != FeatureLoudness
}
