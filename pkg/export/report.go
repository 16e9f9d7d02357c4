// Package export writes static artifacts from a loaded payload: trend charts
// (SVG or PNG), markdown reports and SQLite snapshots.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/brief"
	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/search"
)

// ReportOptions controls markdown report generation.
type ReportOptions struct {
	Title      string
	TopN       analysis.TopN // zero value includes every topic
	Catalog    []search.Source
	BriefTopic string // optional; included with BriefText when both are set
	BriefText  string
	ChartPath  string // optional image embedded under the ranking
	Now        func() time.Time
}

// GenerateReport renders the payload as a markdown document.
func GenerateReport(p model.Payload, opts ReportOptions) string {
	title := opts.Title
	if title == "" {
		title = "Technology Trend Report"
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	topN := opts.TopN
	catalog := opts.Catalog
	if catalog == nil {
		catalog = search.DefaultCatalog()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", now().Format(time.RFC1123)))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value | Change |\n")
	sb.WriteString("|--------|-------|--------|\n")
	for _, c := range analysis.DeriveSummaryCards(p.Summary) {
		change := c.ChangeText
		if change == "" {
			change = analysis.Placeholder
		}
		sb.WriteString(fmt.Sprintf("| %s %s | %s | %s |\n", c.Icon, c.Label, escapeCell(c.Value), escapeCell(change)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Top Topics (%s)\n\n", topN))
	ranked := analysis.SelectTop(analysis.Rank(p.Trends), topN)
	if len(ranked) == 0 {
		sb.WriteString("_No topics._\n\n")
	} else {
		sb.WriteString("| # | Topic | Growth | Mentions | Latest |\n")
		sb.WriteString("|---|-------|--------|----------|--------|\n")
		for i, topic := range ranked {
			t, _ := p.Trends.Get(topic)
			latest := analysis.Placeholder
			if last, ok := t.LastHistorical(); ok {
				latest = fmt.Sprintf("%s (%s)", analysis.FormatCount(last.Mentions), last.Month)
			}
			sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s |\n",
				i+1, escapeCell(topic), analysis.FormatGrowth(t.GrowthRate),
				analysis.FormatCount(t.TotalMentions()), latest))
		}
		sb.WriteString("\n")
	}
	if opts.ChartPath != "" {
		sb.WriteString(fmt.Sprintf("![Mentions over time](%s)\n\n", opts.ChartPath))
	}

	rising, declining := analysis.Split(p.Trends)
	sb.WriteString("## Rising\n\n")
	writeGrowthList(&sb, rising)
	sb.WriteString("## Declining\n\n")
	writeGrowthList(&sb, declining)

	segments := analysis.BuildClusterDataset(p.Clusters)
	if !segments.IsEmpty() {
		sb.WriteString("## Clusters\n\n")
		sb.WriteString("| Cluster | Size | Share | Keywords |\n")
		sb.WriteString("|---------|------|-------|----------|\n")
		for i, s := range segments.Segments {
			sb.WriteString(fmt.Sprintf("| %s | %s | %.1f%% | %s |\n",
				escapeCell(s.Label), analysis.FormatCount(s.Weight),
				segments.Share(i)*100, escapeCell(strings.Join(s.Keywords, ", "))))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Sources\n\n")
	sb.WriteString("| Source | Kind | Documents |\n")
	sb.WriteString("|--------|------|-----------|\n")
	for _, sc := range search.AnnotateCatalog(catalog, search.CountBySource(p.Documents)) {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", escapeCell(sc.Name), escapeCell(sc.Kind), analysis.FormatCount(sc.Count)))
	}
	sb.WriteString("\n")

	if opts.BriefTopic != "" && strings.TrimSpace(opts.BriefText) != "" {
		sb.WriteString(fmt.Sprintf("## Brief: %s\n\n", opts.BriefTopic))
		sb.WriteString(brief.FormatBriefHTML(strings.TrimSpace(opts.BriefText)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// SaveReport writes GenerateReport output to path.
func SaveReport(p model.Payload, opts ReportOptions, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	return os.WriteFile(path, []byte(GenerateReport(p, opts)), 0o644)
}

// RenderReportTerminal renders a markdown report for a terminal of the given
// width.
func RenderReportTerminal(markdown string, width int) (string, error) {
	if width < 40 {
		width = 40
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}

func writeGrowthList(sb *strings.Builder, items []model.TopicGrowth) {
	if len(items) == 0 {
		sb.WriteString("_None._\n\n")
		return
	}
	for i, it := range items {
		sb.WriteString(fmt.Sprintf("%d. **%s** %s\n", i+1, it.Topic, analysis.FormatGrowth(it.GrowthRate)))
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
