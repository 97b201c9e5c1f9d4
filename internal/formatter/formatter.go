// package formatter exports a dashboard view to files (CSV, Markdown, plain text, JSON, YAML)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/spotdash/internal/dashboard"
	"github.com/desertthunder/spotdash/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an export format.
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat accepts a format name or a common alias (md, txt, yml).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: unknown format %q (want one of %v)", shared.ErrInvalidFlag, s, Formats)
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText:
		return "txt"
	default:
		return string(f)
	}
}

// Export renders view in format.
func Export(view *dashboard.View, format Format) ([]byte, error) {
	if view == nil {
		return nil, fmt.Errorf("%w: nothing to export", shared.ErrInvalidArgument)
	}

	switch format {
	case FormatText:
		return ExportToText(view)
	case FormatCSV:
		return ExportToCSV(view)
	case FormatMarkdown:
		return ExportToMarkdown(view)
	case FormatJSON:
		return shared.MarshalJSON(view, true)
	case FormatYAML:
		return ExportToYAML(view)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
}

// ExportFeaturesCSV converts the feature table to CSV with columns: Track, ID, one per feature, Missing
func ExportFeaturesCSV(view *dashboard.View) ([]byte, error) {
	headers := append([]string{"Track", "ID"}, view.Features.Columns...)
	headers = append(headers, "Missing")

	records := make([][]string, 0, len(view.Features.Rows))
	for _, row := range view.Features.Rows {
		record := []string{row.TrackName, row.TrackID}
		for _, v := range row.Values {
			record = append(record, formatValue(v))
		}
		record = append(record, strconv.FormatBool(row.Missing))
		records = append(records, record)
	}
	return writeCSV(headers, records)
}

// ExportRecommendationsCSV converts the recommendation table to CSV with columns: Name, Artist, Album, URL, ID
func ExportRecommendationsCSV(view *dashboard.View) ([]byte, error) {
	headers := []string{"Name", "Artist", "Album", "URL", "ID"}

	records := make([][]string, 0, len(view.Recommendations.Rows))
	for _, row := range view.Recommendations.Rows {
		records = append(records, []string{row.Name, row.Artist, row.Album, row.URL, row.TrackID})
	}
	return writeCSV(headers, records)
}

// ExportToCSV concatenates the feature and recommendation tables, separated by a blank line.
func ExportToCSV(view *dashboard.View) ([]byte, error) {
	features, err := ExportFeaturesCSV(view)
	if err != nil {
		return nil, err
	}
	recs, err := ExportRecommendationsCSV(view)
	if err != nil {
		return nil, err
	}
	return slices.Concat(features, []byte("\n"), recs), nil
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToMarkdown renders both tables and the summary as Markdown. Track names link to their public URL.
func ExportToMarkdown(view *dashboard.View) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", view.Title)
	fmt.Fprintf(&buf, "%s\n\n", view.Description)
	fmt.Fprintf(&buf, "**Time range**: %s\n", view.TimeRange)
	fmt.Fprintf(&buf, "**Generated**: %s\n\n", view.GeneratedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&buf, "## %s\n\n", view.Subheadings.Features)
	if view.Empty() {
		buf.WriteString("No top tracks for this time range.\n\n")
	} else {
		buf.WriteString("| Track | " + strings.Join(view.Features.Columns, " | ") + " |\n")
		buf.WriteString("|---" + strings.Repeat("|---:", len(view.Features.Columns)) + "|\n")
		for _, row := range view.Features.Rows {
			cells := make([]string, 0, len(row.Values))
			for _, v := range row.Values {
				if row.Missing {
					cells = append(cells, "n/a")
				} else {
					cells = append(cells, formatValue(v))
				}
			}
			fmt.Fprintf(&buf, "| %s | %s |\n", escapeMarkdown(row.TrackName), strings.Join(cells, " | "))
		}
		buf.WriteString("\n")

		buf.WriteString("| Feature | Count | Mean | Std | Min | Median | Max |\n")
		buf.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
		for _, s := range view.Summary {
			fmt.Fprintf(&buf, "| %s | %d | %s | %s | %s | %s | %s |\n", s.Feature, s.Count,
				formatValue(s.Mean), formatValue(s.StdDev), formatValue(s.Min), formatValue(s.Median), formatValue(s.Max))
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "## %s\n\n", view.Subheadings.Recommendations)
	if len(view.Recommendations.Rows) == 0 {
		buf.WriteString("No recommendations.\n\n")
	} else {
		buf.WriteString("| Name | Artist | Album |\n")
		buf.WriteString("|---|---|---|\n")
		for _, row := range view.Recommendations.Rows {
			name := escapeMarkdown(row.Name)
			if row.URL != "" {
				name = fmt.Sprintf("[%s](%s)", name, row.URL)
			}
			fmt.Fprintf(&buf, "| %s | %s | %s |\n", name, escapeMarkdown(row.Artist), escapeMarkdown(row.Album))
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "_%s_\n", view.Footer)
	return buf.Bytes(), nil
}

// ExportToText renders the view as plain text
func ExportToText(view *dashboard.View) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n%s\n\n", view.Title, view.Description)

	fmt.Fprintf(&buf, "%s (%s)\n", view.Subheadings.Features, view.TimeRange)
	for i, row := range view.Features.Rows {
		parts := make([]string, 0, len(row.Values))
		for j, v := range row.Values {
			parts = append(parts, fmt.Sprintf("%s=%s", view.Features.Columns[j], formatValue(v)))
		}
		if row.Missing {
			parts = []string{"features unavailable"}
		}
		fmt.Fprintf(&buf, "%d. %s [%s]\n", i+1, row.TrackName, strings.Join(parts, ", "))
	}
	if view.Empty() {
		buf.WriteString("No top tracks for this time range.\n")
	}

	fmt.Fprintf(&buf, "\n%s\n", view.Subheadings.Recommendations)
	for i, row := range view.Recommendations.Rows {
		fmt.Fprintf(&buf, "%d. %s - %s (%s) %s\n", i+1, row.Artist, row.Name, row.Album, row.URL)
	}

	fmt.Fprintf(&buf, "\n%s\n", view.Footer)
	return buf.Bytes(), nil
}

// ExportToYAML marshals the view with yaml.v3
func ExportToYAML(view *dashboard.View) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport renders view in format and writes it to path.
//
// Defaults to spotdash_{time_range}.{ext} as the filename.
func WriteExport(view *dashboard.View, format Format, path string) (string, error) {
	if path == "" {
		path = DefaultFilename(view, format)
	}

	data, err := Export(view, format)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", format, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return path, nil
}

// DefaultFilename returns spotdash_{time_range}.{ext}.
func DefaultFilename(view *dashboard.View, format Format) string {
	timeRange := "dashboard"
	if view != nil && view.TimeRange != "" {
		timeRange = view.TimeRange
	}
	return fmt.Sprintf("spotdash_%s.%s", timeRange, format.Extension())
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "[", `\[`, "]", `\]`, "*", `\*`, "_", `\_`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
