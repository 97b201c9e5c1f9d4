package server

import (
	"fmt"
	"math"
	"strconv"

	"github.com/desertthunder/spotdash/internal/models"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

const (
	chartMarginLeft   = 56.0
	chartMarginRight  = 16.0
	chartMarginTop    = 40.0
	chartMarginBottom = 140.0
	chartPlotHeight   = 280.0
	chartMinWidth     = 480.0
	chartGroupWidth   = 64.0
	chartGroupPadding = 0.2
	chartTicks        = 5
	chartLabelRunes   = 24
)

var chartColors = []string{
	"#1DB954", "#2E77D0", "#F573A0", "#FF9E44", "#9B59B6",
	"#E74C3C", "#16A085", "#F1C40F", "#7F8C8D",
}

// Chart is the precomputed geometry of a grouped bar chart: one group per track, one bar per feature.
type Chart struct {
	Width, Height         float64
	PlotLeft, PlotTop     float64
	PlotWidth, PlotHeight float64
	PlotRight, PlotBottom float64
	ZeroY                 float64
	Ticks                 []ChartTick
	Groups                []ChartGroup
	Legend                []ChartLegend
}

// ChartTick is a y-axis gridline.
type ChartTick struct {
	Y     float64
	Label string
}

// ChartGroup is the set of bars for one track.
type ChartGroup struct {
	Label          string
	LabelX, LabelY float64
	Missing        bool
	Bars           []ChartBar
}

// ChartBar is one feature value of one track.
type ChartBar struct {
	X, Y, Width, Height float64
	Color               string
	Title               string
}

// ChartLegend maps a feature to its bar color.
type ChartLegend struct {
	Feature string
	Color   string
	X, Y    float64
}

// NewChart lays out table as a grouped bar chart on a shared y-axis spanning at least 0..1.
//
// Returns nil for a table without rows or columns.
func NewChart(table models.FeatureTable) *Chart {
	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		return nil
	}

	lo0, hi := chartRange(table)
	plotWidth := math.Max(chartMinWidth, float64(len(table.Rows))*chartGroupWidth)

	c := &Chart{
		Width:      chartMarginLeft + plotWidth + chartMarginRight,
		Height:     chartMarginTop + chartPlotHeight + chartMarginBottom,
		PlotLeft:   chartMarginLeft,
		PlotTop:    chartMarginTop,
		PlotWidth:  plotWidth,
		PlotHeight: chartPlotHeight,
		PlotRight:  chartMarginLeft + plotWidth,
		PlotBottom: chartMarginTop + chartPlotHeight,
	}

	scale := func(v float64) float64 {
		return c.PlotTop + (hi-v)/(hi-lo0)*c.PlotHeight
	}
	c.ZeroY = scale(0)

	for i := range chartTicks {
		v := lo0 + float64(i)*(hi-lo0)/float64(chartTicks-1)
		c.Ticks = append(c.Ticks, ChartTick{Y: scale(v), Label: tickLabel(v)})
	}

	groupWidth := plotWidth / float64(len(table.Rows))
	inner := groupWidth * (1 - chartGroupPadding)
	barWidth := inner / float64(len(table.Columns))

	for i, row := range table.Rows {
		left := c.PlotLeft + float64(i)*groupWidth + (groupWidth-inner)/2
		group := ChartGroup{
			Label:   truncateRunes(row.TrackName, chartLabelRunes),
			LabelX:  c.PlotLeft + (float64(i)+0.5)*groupWidth,
			LabelY:  c.PlotBottom + 12,
			Missing: row.Missing,
		}
		if row.Missing {
			group.Label += " (no data)"
		} else {
			for j, feature := range table.Columns {
				v := row.Values[j]
				y := scale(v)
				group.Bars = append(group.Bars, ChartBar{
					X:      left + float64(j)*barWidth,
					Y:      math.Min(y, c.ZeroY),
					Width:  barWidth,
					Height: math.Abs(y - c.ZeroY),
					Color:  chartColor(j),
					Title:  fmt.Sprintf("%s: %s = %s", row.TrackName, feature, tickLabel(v)),
				})
			}
		}
		c.Groups = append(c.Groups, group)
	}

	c.Legend = lo.Map(table.Columns, func(feature string, j int) ChartLegend {
		return ChartLegend{
			Feature: feature,
			Color:   chartColor(j),
			X:       c.PlotLeft + float64(j)*120,
			Y:       chartMarginTop / 2,
		}
	})

	return c
}

// chartRange returns the y-axis bounds: min(0, smallest value) and max(1, largest value).
func chartRange(table models.FeatureTable) (float64, float64) {
	values := lo.FlatMap(table.Rows, func(row models.FeatureRow, _ int) []float64 {
		if row.Missing {
			return nil
		}
		return row.Values
	})

	lo0, hi := 0.0, 1.0
	if len(values) > 0 {
		lo0 = math.Min(lo0, floats.Min(values))
		hi = math.Max(hi, floats.Max(values))
	}
	return lo0, hi
}

func chartColor(i int) string {
	return chartColors[i%len(chartColors)]
}

func tickLabel(v float64) string {
	if math.Abs(v) >= 10 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
