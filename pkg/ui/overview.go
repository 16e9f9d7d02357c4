package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/model"
)

// overviewData is everything the overview needs, derived once per payload or
// top-N change.
type overviewData struct {
	cards    [4]analysis.SummaryCard
	rising   []model.TopicGrowth
	falling  []model.TopicGrowth
	selected []string
	dataset  analysis.TrendDataset
	chartErr error
	growth   map[string]float64
	topN     analysis.TopN
}

func buildOverview(p model.Payload, ranked []string, n analysis.TopN) overviewData {
	d := overviewData{
		cards:    analysis.DeriveSummaryCards(p.Summary),
		selected: analysis.SelectTop(ranked, n),
		growth:   make(map[string]float64, p.Trends.Len()),
		topN:     n,
	}
	d.rising, d.falling = analysis.Split(p.Trends)
	for _, topic := range p.Trends.Topics() {
		tt, _ := p.Trends.Get(topic)
		d.growth[topic] = tt.GrowthRate
	}
	d.dataset, d.chartErr = analysis.BuildTrendDataset(p.Trends, d.selected)
	return d
}

func renderOverview(t Theme, d overviewData, width int) string {
	var sections []string

	cardW := width / 4
	if cardW < 18 {
		cardW = 18
	}
	cards := make([]string, 0, len(d.cards))
	for _, c := range d.cards {
		cards = append(cards, RenderCard(t, c, cardW))
	}
	if cardW*4 <= width {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	} else {
		sections = append(sections,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3]))
	}

	title := fmt.Sprintf("Mentions over time (top %s, t to change)", d.topN)
	sections = append(sections, RenderSectionTitle(t, title))
	if d.chartErr != nil {
		sections = append(sections, t.ErrorText.Render("Chart unavailable: "+d.chartErr.Error()))
	} else {
		sections = append(sections, RenderTrendChart(t, d.dataset, d.growth, width, 14))
	}

	colW := width/2 - 2
	if colW < 24 {
		colW = 24
	}
	rising := renderGrowthList(t, "Rising", d.rising, colW)
	falling := renderGrowthList(t, "Declining", d.falling, colW)
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, rising, "  ", falling))

	return strings.Join(sections, "\n\n")
}

func renderGrowthList(t Theme, title string, items []model.TopicGrowth, width int) string {
	var b strings.Builder
	b.WriteString(RenderSectionTitle(t, title))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(t.MutedText.Render("  none"))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}
	nameW := width - 12
	for i, it := range items {
		b.WriteString(fmt.Sprintf("%2d. ", i+1))
		b.WriteString(padRight(truncate(it.Topic, nameW-4), nameW-4))
		b.WriteString(" ")
		b.WriteString(RenderGrowthBadge(t, it.GrowthRate))
		if i != len(items)-1 {
			b.WriteString("\n")
		}
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}
