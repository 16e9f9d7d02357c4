package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
)

// renderClusters draws one proportional bar per cluster segment with its
// share and keywords.
func renderClusters(t Theme, ds analysis.SegmentDataset, width int) string {
	if ds.IsEmpty() {
		return t.MutedText.Render("No clusters available")
	}

	labelW := 0
	for _, s := range ds.Segments {
		if w := runewidth.StringWidth(s.Label); w > labelW {
			labelW = w
		}
	}
	if labelW > 24 {
		labelW = 24
	}
	barW := width - labelW - 18
	if barW < 10 {
		barW = 10
	}

	var b strings.Builder
	b.WriteString(RenderSectionTitle(t, "Topic clusters"))
	b.WriteString(t.MutedText.Render(fmt.Sprintf("  %d documents in %d clusters", ds.Total(), len(ds.Segments))))
	b.WriteString("\n\n")
	for i, s := range ds.Segments {
		share := ds.Share(i)
		b.WriteString(padRight(truncate(s.Label, labelW), labelW))
		b.WriteString(" ")
		b.WriteString(RenderBar(share, barW, SeriesColor(s.Color, i)))
		b.WriteString(fmt.Sprintf(" %5.1f%% %5d", share*100, s.Weight))
		b.WriteString("\n")
		if len(s.Keywords) > 0 {
			kw := truncate(strings.Join(s.Keywords, ", "), width-labelW-1)
			b.WriteString(strings.Repeat(" ", labelW+1))
			b.WriteString(t.MutedText.Render(kw))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
