package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/debug"
	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/search"
)

// Kind selects which artifact Write produces.
type Kind string

const (
	KindChart  Kind = "chart"
	KindReport Kind = "report"
	KindSQLite Kind = "sqlite"
)

// KindForPath infers the artifact kind from a file extension.
func KindForPath(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg", ".png":
		return KindChart, nil
	case ".md", ".markdown":
		return KindReport, nil
	case ".sqlite", ".sqlite3", ".db":
		return KindSQLite, nil
	default:
		return "", fmt.Errorf("cannot infer export kind from %q (use .svg, .png, .md or .sqlite)", path)
	}
}

// Request describes one export.
type Request struct {
	Kind    Kind // empty means infer from Path
	Path    string
	Title   string
	TopN    analysis.TopN
	Catalog []search.Source
	Source  string // recorded in SQLite meta

	// Reports only. The brief section is written when both are set.
	BriefTopic string
	BriefText  string
}

// Write produces the requested artifact from p.
func Write(p model.Payload, req Request) error {
	kind := req.Kind
	if kind == "" {
		k, err := KindForPath(req.Path)
		if err != nil {
			return err
		}
		kind = k
	}
	debug.Log("export %s -> %s", kind, req.Path)

	switch kind {
	case KindChart:
		ds, err := analysis.BuildTrendDataset(p.Trends, analysis.SelectTop(analysis.Rank(p.Trends), req.TopN))
		if err != nil {
			return fmt.Errorf("build trend dataset: %w", err)
		}
		growth := make(map[string]float64, p.Trends.Len())
		for _, topic := range p.Trends.Topics() {
			t, _ := p.Trends.Get(topic)
			growth[topic] = t.GrowthRate
		}
		return SaveTrendChart(ChartOptions{
			Path:    req.Path,
			Title:   req.Title,
			Dataset: ds,
			Growth:  growth,
		})
	case KindReport:
		return SaveReport(p, ReportOptions{
			Title:      req.Title,
			TopN:       req.TopN,
			Catalog:    req.Catalog,
			BriefTopic: req.BriefTopic,
			BriefText:  req.BriefText,
		}, req.Path)
	case KindSQLite:
		return NewSQLiteExporter(p, req.Source).Export(req.Path)
	default:
		return fmt.Errorf("unknown export kind %q", kind)
	}
}
