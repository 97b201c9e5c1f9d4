package dashboard

import (
	"slices"

	"github.com/desertthunder/spotdash/internal/models"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes descriptive statistics for every column of table, skipping rows with missing features.
func Summarize(table models.FeatureTable) []models.FeatureSummary {
	summaries := make([]models.FeatureSummary, 0, len(table.Columns))
	for _, c := range table.Columns {
		summaries = append(summaries, summarizeColumn(c, table.Column(c)))
	}
	return summaries
}

func summarizeColumn(name string, values []float64) models.FeatureSummary {
	summary := models.FeatureSummary{Feature: name, Count: len(values)}
	if len(values) == 0 {
		return summary
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	summary.Mean, summary.StdDev = stat.MeanStdDev(sorted, nil)
	if len(sorted) == 1 {
		summary.StdDev = 0
	}
	summary.Min = floats.Min(sorted)
	summary.Max = floats.Max(sorted)
	summary.Median = median(sorted)
	return summary
}

// median of sorted values; the mean of the two middle values when the count is even.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
