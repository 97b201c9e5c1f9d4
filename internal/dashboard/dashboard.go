package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/samber/lo"
)

// Display text of every surface.
const (
	Title                  = "Analysis for your Top Songs"
	Description            = "Discover insights about your Spotify listening habits."
	FeaturesHeading        = "Audio Features for Top Tracks"
	RecommendationsHeading = "Recommended Tracks"
	Footer                 = "Enjoy these tracks based on your listening habits!"
)

// Subheadings titles the two dashboard sections.
type Subheadings struct {
	Features        string `json:"features" yaml:"features"`
	Recommendations string `json:"recommendations" yaml:"recommendations"`
}

// View is the complete, presentation-independent dashboard.
type View struct {
	Title           string                     `json:"title" yaml:"title"`
	Description     string                     `json:"description" yaml:"description"`
	Subheadings     Subheadings                `json:"subheadings" yaml:"subheadings"`
	Features        models.FeatureTable        `json:"features" yaml:"features"`
	Summary         []models.FeatureSummary    `json:"summary" yaml:"summary"`
	Recommendations models.RecommendationTable `json:"recommendations" yaml:"recommendations"`
	Footer          string                     `json:"footer" yaml:"footer"`
	TimeRange       string                     `json:"time_range" yaml:"time_range"`
	GeneratedAt     time.Time                  `json:"generated_at" yaml:"generated_at"`
}

// Empty reports whether the view has no top tracks.
func (v *View) Empty() bool {
	return len(v.Features.Rows) == 0
}

// Builder runs the dashboard pipeline against a catalog.
type Builder struct {
	catalog services.Catalog
	opts    Options
	logger  *log.Logger
	now     func() time.Time
}

// NewBuilder creates a builder. A nil logger uses the default logger.
func NewBuilder(catalog services.Catalog, opts Options, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{catalog: catalog, opts: opts, logger: logger, now: time.Now}
}

// Options returns the build options.
func (b *Builder) Options() Options {
	return b.opts
}

// Build fetches, reshapes and summarizes. Requests are issued strictly in order and the first error aborts the build.
//
// progress may be nil.
func (b *Builder) Build(ctx context.Context, progress chan<- ProgressUpdate) (*View, error) {
	if b.catalog == nil {
		return nil, fmt.Errorf("%w: catalog not initialized", shared.ErrServiceUnavailable)
	}
	if err := b.opts.Validate(); err != nil {
		return nil, err
	}

	started := b.now()
	view := &View{
		Title:       Title,
		Description: Description,
		Subheadings: Subheadings{Features: FeaturesHeading, Recommendations: RecommendationsHeading},
		Footer:      Footer,
		TimeRange:   b.opts.TimeRange,
		GeneratedAt: started.UTC(),
	}

	sendProgress(progress, topTracksUpdate(b.opts.TopLimit, b.opts.TimeRange))
	top, err := b.catalog.TopTracks(ctx, b.opts.TopLimit, b.opts.TimeRange)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top tracks: %w", err)
	}
	b.logger.Debug("fetched top tracks", "count", len(top), "time_range", b.opts.TimeRange)

	if len(top) == 0 {
		view.Features = models.FeatureTable{Columns: append([]string(nil), b.opts.Features...), Rows: []models.FeatureRow{}}
		view.Summary = Summarize(view.Features)
		view.Recommendations = models.RecommendationTable{Rows: []models.RecommendationRow{}}
		b.logger.Info("no top tracks for time range", "time_range", b.opts.TimeRange)
		return view, nil
	}

	sendProgress(progress, featuresUpdate(len(top)))
	features, err := b.catalog.AudioFeatures(ctx, TrackIDs(top))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch audio features: %w", err)
	}

	seeds := SeedIDs(top, b.opts.SeedLimit)
	sendProgress(progress, recommendationsUpdate(len(seeds)))
	recs, err := b.catalog.Recommendations(ctx, seeds, b.opts.RecommendationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendations: %w", err)
	}
	b.logger.Debug("fetched recommendations", "seeds", len(seeds), "count", len(recs))

	details := []models.Track{}
	if len(recs) > 0 {
		sendProgress(progress, detailsUpdate(len(recs)))
		details, err = b.catalog.Tracks(ctx, TrackIDs(recs))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch track details: %w", err)
		}
	}

	sendProgress(progress, reshapeUpdate())
	view.Features, err = BuildFeatureTable(top, features, b.opts.Features)
	if err != nil {
		return nil, err
	}
	if missing := lo.CountBy(view.Features.Rows, func(r models.FeatureRow) bool { return r.Missing }); missing > 0 {
		b.logger.Warn("audio features unavailable", "tracks", missing)
	}
	view.Summary = Summarize(view.Features)
	view.Recommendations = BuildRecommendationTable(details)

	b.logger.Debug("built dashboard",
		"tracks", len(view.Features.Rows),
		"recommendations", len(view.Recommendations.Rows),
		"duration", time.Since(started),
	)
	return view, nil
}
