package dashboard

import (
	"fmt"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/samber/lo"
)

// MaxSeeds is the most seed tracks the recommendations endpoint accepts.
const MaxSeeds = 5

// SeedIDs returns the ids of the first min(limit, [MaxSeeds]) tracks, in order.
func SeedIDs(tracks []models.Track, limit int) []string {
	n := min(limit, MaxSeeds, len(tracks))
	if n <= 0 {
		return nil
	}
	return TrackIDs(tracks[:n])
}

// TrackIDs returns the ids of tracks, in order.
func TrackIDs(tracks []models.Track) []string {
	return lo.Map(tracks, func(t models.Track, _ int) string { return t.ID })
}

// BuildFeatureTable returns one row per top track, in top-tracks order, indexed by track name.
//
// Values are matched to tracks by id, so a reordered features response still lines up.
// A track without features (nil entry or absent id) gets a zero row marked Missing.
func BuildFeatureTable(tracks []models.Track, features []*models.AudioFeatures, columns []string) (models.FeatureTable, error) {
	for _, c := range columns {
		if !models.IsFeature(c) {
			return models.FeatureTable{}, fmt.Errorf("%w: unknown feature %q", shared.ErrInvalidArgument, c)
		}
	}

	byID := make(map[string]*models.AudioFeatures, len(features))
	for _, f := range features {
		if f != nil {
			byID[f.TrackID] = f
		}
	}

	table := models.FeatureTable{
		Columns: append([]string(nil), columns...),
		Rows:    make([]models.FeatureRow, 0, len(tracks)),
	}

	for _, t := range tracks {
		row := models.FeatureRow{
			TrackID:   t.ID,
			TrackName: t.Name,
			Values:    make([]float64, len(columns)),
		}

		f, ok := byID[t.ID]
		if !ok {
			row.Missing = true
		} else {
			for i, c := range columns {
				row.Values[i], _ = f.Value(c)
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// BuildRecommendationTable returns one row per track, in response order, with values copied verbatim.
func BuildRecommendationTable(tracks []models.Track) models.RecommendationTable {
	return models.RecommendationTable{
		Rows: lo.Map(tracks, func(t models.Track, _ int) models.RecommendationRow {
			return models.RecommendationRow{
				TrackID: t.ID,
				Name:    t.Name,
				URL:     t.URL,
				Artist:  t.PrimaryArtist(),
				Album:   t.Album,
			}
		}),
	}
}
