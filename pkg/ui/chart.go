package ui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
)

const (
	historyGlyph  = '●'
	forecastGlyph = '◌'
	emptyGlyph    = ' '
)

// chartCell is one plotted grid position.
type chartCell struct {
	glyph  rune
	series int // index into TrendDataset.Series, -1 when empty
}

// plotTrendGrid places every non-nil value of ds on a rows x len(Labels)
// grid. Row 0 is the top. Later series overwrite earlier ones, and a
// topic's historical point wins over its forecast anchor.
func plotTrendGrid(ds analysis.TrendDataset, rows int) [][]chartCell {
	cols := len(ds.Labels)
	grid := make([][]chartCell, rows)
	for r := range grid {
		grid[r] = make([]chartCell, cols)
		for c := range grid[r] {
			grid[r][c] = chartCell{glyph: emptyGlyph, series: -1}
		}
	}
	if rows == 0 || cols == 0 {
		return grid
	}
	maxV := ds.MaxValue()
	if maxV <= 0 {
		maxV = 1
	}

	place := func(si int, glyph rune) {
		for c, v := range ds.Series[si].Values {
			if v == nil || c >= cols {
				continue
			}
			r := rows - 1 - int(math.Round(*v/maxV*float64(rows-1)))
			if r < 0 {
				r = 0
			}
			grid[r][c] = chartCell{glyph: glyph, series: si}
		}
	}
	// Forecasts first so historical points are drawn on top.
	for si, s := range ds.Series {
		if s.Kind == analysis.SeriesForecast {
			place(si, forecastGlyph)
		}
	}
	for si, s := range ds.Series {
		if s.Kind == analysis.SeriesHistorical {
			place(si, historyGlyph)
		}
	}
	return grid
}

// RenderTrendChart draws ds as a dot chart with a y-axis, first/last month
// labels and a legend listing only the historical series. Forecast points
// use a hollow faint glyph.
func RenderTrendChart(t Theme, ds analysis.TrendDataset, growth map[string]float64, width, height int) string {
	if ds.IsEmpty() || len(ds.Labels) == 0 {
		return t.MutedText.Render("No trend data to chart")
	}
	if height < 4 {
		height = 4
	}

	maxV := ds.MaxValue()
	axisLabel := fmt.Sprintf("%.0f", maxV)
	axisWidth := len(axisLabel) + 1

	// Each month gets colW cells so the chart fills the width.
	colW := 1
	if cols := len(ds.Labels); cols > 0 && width > axisWidth+cols {
		colW = (width - axisWidth - 1) / cols
		if colW > 4 {
			colW = 4
		}
	}

	legend := ds.LegendSeries()
	rows := height - 2
	grid := plotTrendGrid(ds, rows)

	var b strings.Builder
	for r, row := range grid {
		switch r {
		case 0:
			b.WriteString(padLeft(axisLabel, axisWidth-1))
		case rows - 1:
			b.WriteString(padLeft("0", axisWidth-1))
		default:
			b.WriteString(strings.Repeat(" ", axisWidth-1))
		}
		b.WriteString(t.MutedText.Render("│"))
		for _, cell := range row {
			text := string(cell.glyph) + strings.Repeat(" ", colW-1)
			if cell.series < 0 {
				b.WriteString(text)
				continue
			}
			s := ds.Series[cell.series]
			style := lipgloss.NewStyle().Foreground(SeriesColor(s.Color, seriesTopicIndex(ds, cell.series)))
			if s.Dashed {
				style = style.Faint(true)
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString("\n")
	}

	// x axis
	b.WriteString(strings.Repeat(" ", axisWidth-1))
	b.WriteString(t.MutedText.Render("└" + strings.Repeat("─", len(ds.Labels)*colW)))
	b.WriteString("\n")
	first, last := ds.Labels[0], ds.Labels[len(ds.Labels)-1]
	span := len(ds.Labels)*colW + 1
	b.WriteString(strings.Repeat(" ", axisWidth-1))
	b.WriteString(t.MutedText.Render(axisLabels(first, last, span)))
	b.WriteString("\n")

	var items []string
	for i, s := range legend {
		swatch := lipgloss.NewStyle().Foreground(SeriesColor(s.Color, i)).Render(string(historyGlyph))
		item := swatch + " " + s.Name
		if rate, ok := growth[s.Topic]; ok {
			item += " " + t.GrowthStyle(rate).Render(analysis.FormatGrowth(rate))
		}
		items = append(items, item)
	}
	b.WriteString(strings.Join(items, "   "))
	b.WriteString("\n")
	b.WriteString(t.MutedText.Render(fmt.Sprintf("%c history  %c forecast", historyGlyph, forecastGlyph)))
	return b.String()
}

// axisLabels spreads the first and last month over span cells. Short axes
// overflow span rather than drop the last label.
func axisLabels(first, last string, span int) string {
	if first == last {
		return first
	}
	gap := span - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		gap = 1
	}
	return first + strings.Repeat(" ", gap) + last
}

// seriesTopicIndex returns the topic position of series si, pairing each
// historical series with its forecast.
func seriesTopicIndex(ds analysis.TrendDataset, si int) int {
	topic := ds.Series[si].Topic
	idx := 0
	seen := map[string]bool{}
	for _, s := range ds.Series {
		if seen[s.Topic] {
			continue
		}
		if s.Topic == topic {
			return idx
		}
		seen[s.Topic] = true
		idx++
	}
	return 0
}
