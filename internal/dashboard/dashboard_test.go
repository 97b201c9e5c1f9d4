package dashboard

import (
	"context"
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/shared"
	tu "github.com/desertthunder/spotdash/internal/testing"
)

func newTestBuilder(catalog *tu.MockCatalog, opts Options) *Builder {
	b := NewBuilder(catalog, opts, log.New(io.Discard))
	b.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return b
}

func TestBuilder(t *testing.T) {
	ctx := context.Background()

	t.Run("Build", func(t *testing.T) {
		t.Run("Ten Top Tracks", func(t *testing.T) {
			catalog := tu.NewMockCatalog(10)
			view, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(view.Features.Rows) != 10 {
				t.Fatalf("expected 10 feature rows, got %d", len(view.Features.Rows))
			}
			for i, row := range view.Features.Rows {
				want := catalog.Top[i]
				if row.TrackID != want.ID || row.TrackName != want.Name {
					t.Errorf("row %d: expected %s (%s), got %s (%s)", i, want.ID, want.Name, row.TrackID, row.TrackName)
				}
				if row.Missing {
					t.Errorf("row %d should not be missing", i)
				}
			}

			if !slices.Equal(view.Features.Columns, []string{"danceability", "energy", "valence"}) {
				t.Errorf("unexpected columns %v", view.Features.Columns)
			}
			first := view.Features.Rows[0].Values
			if first[0] != 0.05 || first[1] != 0.025 || first[2] != 0.95 {
				t.Errorf("unexpected values for T1: %v", first)
			}
		})

		t.Run("Call Sequence", func(t *testing.T) {
			catalog := tu.NewMockCatalog(10)
			if _, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []string{"TopTracks", "AudioFeatures", "Recommendations", "Tracks"}
			if got := catalog.Calls(); !slices.Equal(got, want) {
				t.Errorf("expected calls %v, got %v", want, got)
			}
			if catalog.TopLimit != 10 || catalog.TimeRange != "short_term" {
				t.Errorf("unexpected top tracks request: limit=%d range=%s", catalog.TopLimit, catalog.TimeRange)
			}
			if !slices.Equal(catalog.FeatureIDs, TrackIDs(catalog.Top)) {
				t.Errorf("expected features requested for all top tracks in order, got %v", catalog.FeatureIDs)
			}
			if !slices.Equal(catalog.SeedIDs, []string{"T1", "T2", "T3", "T4", "T5"}) {
				t.Errorf("expected the first five tracks as seeds, got %v", catalog.SeedIDs)
			}
			if !slices.Equal(catalog.TrackIDs, TrackIDs(catalog.Recs)) {
				t.Errorf("expected details for every recommendation, got %v", catalog.TrackIDs)
			}
		})

		t.Run("Seeds Capped At Five", func(t *testing.T) {
			catalog := tu.NewMockCatalog(10)
			opts := DefaultOptions()
			opts.SeedLimit = 8

			if _, err := newTestBuilder(catalog, opts).Build(ctx, nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(catalog.SeedIDs) != MaxSeeds {
				t.Errorf("expected %d seeds, got %v", MaxSeeds, catalog.SeedIDs)
			}
		})

		t.Run("Recommendations Copied Verbatim", func(t *testing.T) {
			catalog := tu.NewMockCatalog(10)
			view, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if len(view.Recommendations.Rows) != 10 {
				t.Fatalf("expected 10 recommendation rows, got %d", len(view.Recommendations.Rows))
			}
			for i, row := range view.Recommendations.Rows {
				want := catalog.Recs[i]
				if row.Name != want.Name || row.URL != want.URL || row.Album != want.Album || row.Artist != want.Artists[0] {
					t.Errorf("row %d: expected %+v, got %+v", i, want, row)
				}
			}
		})

		t.Run("View Text", func(t *testing.T) {
			view, err := newTestBuilder(tu.NewMockCatalog(3), DefaultOptions()).Build(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if view.Title != "Analysis for your Top Songs" {
				t.Errorf("unexpected title %q", view.Title)
			}
			if view.Subheadings.Features != "Audio Features for Top Tracks" || view.Subheadings.Recommendations != "Recommended Tracks" {
				t.Errorf("unexpected subheadings %+v", view.Subheadings)
			}
			if view.Footer != "Enjoy these tracks based on your listening habits!" {
				t.Errorf("unexpected footer %q", view.Footer)
			}
			if !view.GeneratedAt.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)) {
				t.Errorf("unexpected generated time %v", view.GeneratedAt)
			}
		})

		t.Run("Authentication Error Aborts", func(t *testing.T) {
			catalog := tu.NewMockCatalog(10)
			catalog.TopErr = shared.ErrTokenExpired

			view, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil)
			if !errors.Is(err, shared.ErrTokenExpired) {
				t.Errorf("expected ErrTokenExpired, got %v", err)
			}
			if view != nil {
				t.Error("expected no view on error")
			}
			if got := catalog.Calls(); !slices.Equal(got, []string{"TopTracks"}) {
				t.Errorf("expected no calls after failure, got %v", got)
			}
		})

		t.Run("Later Errors Abort", func(t *testing.T) {
			tests := []struct {
				name  string
				setup func(*tu.MockCatalog)
				want  error
			}{
				{"features", func(c *tu.MockCatalog) { c.FeaturesErr = shared.ErrRateLimited }, shared.ErrRateLimited},
				{"recommendations", func(c *tu.MockCatalog) { c.RecsErr = shared.ErrAPIRequest }, shared.ErrAPIRequest},
				{"details", func(c *tu.MockCatalog) { c.TracksErr = shared.ErrAuthFailed }, shared.ErrAuthFailed},
			}

			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					catalog := tu.NewMockCatalog(10)
					tt.setup(catalog)

					view, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil)
					if !errors.Is(err, tt.want) {
						t.Errorf("expected %v, got %v", tt.want, err)
					}
					if view != nil {
						t.Error("expected no view on error")
					}
				})
			}
		})

		t.Run("No Top Tracks", func(t *testing.T) {
			catalog := &tu.MockCatalog{}
			view, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if !view.Empty() || len(view.Recommendations.Rows) != 0 {
				t.Errorf("expected empty tables, got %+v", view)
			}
			if got := catalog.Calls(); !slices.Equal(got, []string{"TopTracks"}) {
				t.Errorf("expected only the top tracks call, got %v", got)
			}
			if len(view.Summary) != 3 || view.Summary[0].Count != 0 {
				t.Errorf("expected empty summaries, got %+v", view.Summary)
			}
		})

		t.Run("No Recommendations Skips Details", func(t *testing.T) {
			catalog := tu.NewMockCatalog(4)
			catalog.Recs = []models.Track{}

			view, err := newTestBuilder(catalog, DefaultOptions()).Build(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if catalog.CallCount("Tracks") != 0 {
				t.Error("expected no details call without recommendations")
			}
			if len(view.Recommendations.Rows) != 0 {
				t.Errorf("expected no recommendation rows, got %d", len(view.Recommendations.Rows))
			}
		})

		t.Run("Invalid Options", func(t *testing.T) {
			catalog := tu.NewMockCatalog(10)
			opts := DefaultOptions()
			opts.TimeRange = "all_time"

			_, err := newTestBuilder(catalog, opts).Build(ctx, nil)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if len(catalog.Calls()) != 0 {
				t.Errorf("expected no calls, got %v", catalog.Calls())
			}
		})

		t.Run("Nil Catalog", func(t *testing.T) {
			_, err := NewBuilder(nil, DefaultOptions(), nil).Build(ctx, nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Progress", func(t *testing.T) {
			progress := make(chan ProgressUpdate, 10)
			if _, err := newTestBuilder(tu.NewMockCatalog(5), DefaultOptions()).Build(ctx, progress); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			close(progress)

			var phases []Phase
			for update := range progress {
				phases = append(phases, update.Phase)
				if update.Total != totalSteps || update.Message == "" {
					t.Errorf("unexpected update %+v", update)
				}
			}

			want := []Phase{FetchTopTracks, FetchFeatures, FetchRecommendations, FetchDetails, Reshape}
			if !slices.Equal(phases, want) {
				t.Errorf("expected phases %v, got %v", want, phases)
			}
		})

		t.Run("Progress Never Blocks", func(t *testing.T) {
			progress := make(chan ProgressUpdate)
			if _, err := newTestBuilder(tu.NewMockCatalog(5), DefaultOptions()).Build(ctx, progress); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{FetchTopTracks, "fetch_top_tracks"},
		{FetchFeatures, "fetch_features"},
		{FetchRecommendations, "fetch_recommendations"},
		{FetchDetails, "fetch_details"},
		{Reshape, "reshape"},
		{Phase(99), ""},
	}

	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
