package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/desertthunder/spotdash/internal/dashboard"
	"github.com/desertthunder/spotdash/internal/models"
)

const (
	barWidth     = 12
	maxNameWidth = 32
)

// RenderReport renders view as a static terminal report: feature bars, summary statistics and recommendations.
func RenderReport(view *dashboard.View) string {
	var b strings.Builder

	b.WriteString(styles.title.Render(view.Title))
	b.WriteString("\n")
	b.WriteString(view.Description)
	b.WriteString("\n")
	b.WriteString(styles.help.Render(fmt.Sprintf("Time range: %s • generated %s",
		view.TimeRange, view.GeneratedAt.Local().Format("2006-01-02 15:04"))))
	b.WriteString("\n\n")

	b.WriteString(styles.subtitle.Render(view.Subheadings.Features))
	b.WriteString("\n")
	if view.Empty() {
		b.WriteString(styles.warn.Render("No top tracks for this time range."))
		b.WriteString("\n")
	} else {
		b.WriteString(featureTable(view.Features))
		b.WriteString("\n")
		b.WriteString(summaryTable(view.Summary))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.subtitle.Render(view.Subheadings.Recommendations))
	b.WriteString("\n")
	if len(view.Recommendations.Rows) == 0 {
		b.WriteString(styles.warn.Render("No recommendations."))
		b.WriteString("\n")
	} else {
		b.WriteString(recommendationTable(view.Recommendations))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.ok.Render(view.Footer))
	b.WriteString("\n")
	return b.String()
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.help).
		Headers(headers...)
}

func featureTable(ft models.FeatureTable) string {
	scales := columnScales(ft)
	rows := make([][]string, 0, len(ft.Rows))
	for _, row := range ft.Rows {
		cells := []string{truncate(row.TrackName, maxNameWidth)}
		for i, v := range row.Values {
			if row.Missing {
				cells = append(cells, styles.warn.Render("n/a"))
				continue
			}
			cells = append(cells, fmt.Sprintf("%s %s", styles.bar.Render(bar(v, scales[i], barWidth)), formatValue(v)))
		}
		rows = append(rows, cells)
	}

	return newTable(append([]string{"Track"}, ft.Columns...)...).Rows(rows...).String()
}

func summaryTable(summaries []models.FeatureSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Feature, fmt.Sprint(s.Count),
			formatValue(s.Mean), formatValue(s.StdDev), formatValue(s.Min), formatValue(s.Median), formatValue(s.Max),
		})
	}
	return newTable("Feature", "Count", "Mean", "Std", "Min", "Median", "Max").Rows(rows...).String()
}

func recommendationTable(rt models.RecommendationTable) string {
	rows := make([][]string, 0, len(rt.Rows))
	for _, r := range rt.Rows {
		rows = append(rows, []string{truncate(r.Name, maxNameWidth), r.Artist, truncate(r.Album, maxNameWidth), r.URL})
	}
	return newTable("Name", "Artist", "Album", "URL").Rows(rows...).String()
}

// columnScales returns the value mapped to a full bar for each column.
// Unit features use 1; others use the largest absolute value present.
func columnScales(ft models.FeatureTable) []float64 {
	scales := make([]float64, len(ft.Columns))
	for i, c := range ft.Columns {
		if models.IsUnitFeature(c) {
			scales[i] = 1
			continue
		}
		for _, v := range ft.Column(c) {
			scales[i] = math.Max(scales[i], math.Abs(v))
		}
		if scales[i] == 0 {
			scales[i] = 1
		}
	}
	return scales
}

// bar draws |v|/scale as a horizontal bar of width cells.
func bar(v, scale float64, width int) string {
	ratio := math.Min(math.Abs(v)/scale, 1)
	filled := int(math.Round(ratio * float64(width)))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatValue(v float64) string {
	return fmt.Sprintf("%.3f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
