package dashboard

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

const (
	maxTopLimit            = 50
	maxRecommendationLimit = 50
)

// Options controls a dashboard build.
type Options struct {
	TopLimit            int      // Number of top tracks to fetch
	TimeRange           string   // short_term, medium_term or long_term
	SeedLimit           int      // Number of top tracks used as recommendation seeds, capped at [MaxSeeds]
	RecommendationLimit int      // Number of recommendations to fetch
	Features            []string // Feature columns of the chart
}

// DefaultOptions returns ten short-term top tracks, five seeds, ten recommendations and the default features.
func DefaultOptions() Options {
	return Options{
		TopLimit:            10,
		TimeRange:           "short_term",
		SeedLimit:           MaxSeeds,
		RecommendationLimit: 10,
		Features:            slices.Clone(models.DefaultFeatures),
	}
}

// OptionsFromConfig converts the [dashboard] config section. Zero values fall back to [DefaultOptions].
func OptionsFromConfig(cfg shared.DashboardConfig) Options {
	opts := DefaultOptions()
	if cfg.TopLimit > 0 {
		opts.TopLimit = cfg.TopLimit
	}
	if cfg.TimeRange != "" {
		opts.TimeRange = cfg.TimeRange
	}
	if cfg.SeedLimit > 0 {
		opts.SeedLimit = cfg.SeedLimit
	}
	if cfg.RecommendationLimit > 0 {
		opts.RecommendationLimit = cfg.RecommendationLimit
	}
	if len(cfg.Features) > 0 {
		opts.Features = slices.Clone(cfg.Features)
	}
	return opts
}

// Validate checks limits, the time range and feature names.
func (o Options) Validate() error {
	if o.TopLimit < 1 || o.TopLimit > maxTopLimit {
		return fmt.Errorf("%w: top limit must be between 1 and %d, got %d", shared.ErrInvalidArgument, maxTopLimit, o.TopLimit)
	}
	if !slices.Contains(services.TimeRanges, o.TimeRange) {
		return fmt.Errorf("%w: unknown time range %q (want one of %v)", shared.ErrInvalidArgument, o.TimeRange, services.TimeRanges)
	}
	if o.SeedLimit < 1 {
		return fmt.Errorf("%w: seed limit must be positive, got %d", shared.ErrInvalidArgument, o.SeedLimit)
	}
	if o.RecommendationLimit < 1 || o.RecommendationLimit > maxRecommendationLimit {
		return fmt.Errorf("%w: recommendation limit must be between 1 and %d, got %d",
			shared.ErrInvalidArgument, maxRecommendationLimit, o.RecommendationLimit)
	}
	if len(o.Features) == 0 {
		return fmt.Errorf("%w: at least one feature is required", shared.ErrInvalidArgument)
	}

	seen := make(map[string]bool, len(o.Features))
	for _, f := range o.Features {
		if !models.IsFeature(f) {
			return fmt.Errorf("%w: unknown feature %q", shared.ErrInvalidArgument, f)
		}
		if seen[f] {
			return fmt.Errorf("%w: duplicate feature %q", shared.ErrInvalidArgument, f)
		}
		seen[f] = true
	}
	return nil
}

// WithOverrides applies the time_range and limit query parameters and validates the result.
func (o Options) WithOverrides(query url.Values) (Options, error) {
	out := o
	out.Features = slices.Clone(o.Features)

	if tr := query.Get("time_range"); tr != "" {
		out.TimeRange = tr
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return o, fmt.Errorf("%w: limit %q is not a number", shared.ErrInvalidArgument, raw)
		}
		out.TopLimit = limit
	}

	if err := out.Validate(); err != nil {
		return o, err
	}
	return out, nil
}
