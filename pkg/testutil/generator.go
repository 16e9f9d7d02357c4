// Package testutil generates deterministic dashboard payloads for tests and
// sample data directories.
package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/model"
	"github.com/vanderheijden86/trendscope/pkg/search"
)

// DefaultTopics is the topic list used when GeneratorConfig.Topics is empty.
var DefaultTopics = []string{
	"Rust", "WebAssembly", "Go", "Kubernetes", "LLM Agents",
	"Vector Databases", "jQuery", "AngularJS",
}

// GeneratorConfig controls payload generation.
type GeneratorConfig struct {
	Seed           int64     // Random seed for determinism (0 = use current time)
	Topics         []string  // Topic names in payload order (default: DefaultTopics)
	HistoryMonths  int       // Observed months per topic (default: 12)
	ForecastMonths int       // Predicted months per topic (0 = none)
	StartMonth     time.Time // First historical month (default: 2024-01)
	Documents      int       // Number of documents (0 = none)
	Clusters       int       // Number of clusters (default: 4, capped at topic count)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:           42,
		Topics:         DefaultTopics,
		HistoryMonths:  12,
		ForecastMonths: 3,
		StartMonth:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Documents:      24,
		Clusters:       4,
	}
}

// Generator creates payload fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config. Empty topics, history,
// start month and cluster count fall back to DefaultConfig.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if len(cfg.Topics) == 0 {
		cfg.Topics = def.Topics
	}
	if cfg.HistoryMonths <= 0 {
		cfg.HistoryMonths = def.HistoryMonths
	}
	if cfg.ForecastMonths < 0 {
		cfg.ForecastMonths = 0
	}
	if cfg.StartMonth.IsZero() {
		cfg.StartMonth = def.StartMonth
	}
	if cfg.Documents < 0 {
		cfg.Documents = 0
	}
	if cfg.Clusters <= 0 {
		cfg.Clusters = def.Clusters
	}
	if cfg.Clusters > len(cfg.Topics) {
		cfg.Clusters = len(cfg.Topics)
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Months returns the shared month axis: history followed by forecast.
func (g *Generator) Months() []string {
	n := g.cfg.HistoryMonths + g.cfg.ForecastMonths
	out := make([]string, n)
	for i := range out {
		out[i] = g.cfg.StartMonth.AddDate(0, i, 0).Format("2006-01")
	}
	return out
}

// Trends generates one trend per topic on a shared month axis. Growth rates
// compare the last observed month to the first, rounded to one decimal.
func (g *Generator) Trends() model.TrendMap {
	months := g.Months()
	var m model.TrendMap
	for _, topic := range g.cfg.Topics {
		base := 50 + g.rng.Float64()*450
		drift := g.rng.Float64()*0.16 - 0.06 // -6% .. +10% per month

		hist := make([]model.Point, g.cfg.HistoryMonths)
		v := base
		for i := range hist {
			hist[i] = model.Point{Month: months[i], Mentions: int(math.Round(v))}
			v = math.Max(0, v*(1+drift+(g.rng.Float64()-0.5)*0.04))
		}

		fc := make([]model.Point, g.cfg.ForecastMonths)
		last := float64(hist[len(hist)-1].Mentions)
		for i := range fc {
			last = math.Max(0, last*(1+drift))
			fc[i] = model.Point{Month: months[g.cfg.HistoryMonths+i], Mentions: int(math.Round(last))}
		}

		m.Set(topic, model.TopicTrend{
			Historical: hist,
			Forecast:   fc,
			GrowthRate: growthRate(hist),
		})
	}
	return m
}

func growthRate(hist []model.Point) float64 {
	first := float64(hist[0].Mentions)
	last := float64(hist[len(hist)-1].Mentions)
	if first == 0 {
		return 0
	}
	return math.Round((last-first)/first*1000) / 10
}

// Summary derives summary metrics from trends the way the service does:
// totals plus the top three rising and declining topics.
func Summary(trends model.TrendMap) model.Summary {
	s := model.Summary{TotalTopics: trends.Len()}
	for _, topic := range trends.Topics() {
		t, _ := trends.Get(topic)
		s.TotalMentions += t.TotalMentions()
	}
	rising, declining := analysis.Split(trends)
	s.TopRising = firstN(rising, 3)
	s.TopDeclining = firstN(declining, 3)
	return s
}

func firstN(items []model.TopicGrowth, n int) []model.TopicGrowth {
	out := []model.TopicGrowth{}
	if len(items) < n {
		n = len(items)
	}
	return append(out, items[:n]...)
}

// Clusters groups topics round-robin into the configured number of clusters.
func (g *Generator) Clusters() []model.Cluster {
	out := make([]model.Cluster, g.cfg.Clusters)
	for i := range out {
		out[i] = model.Cluster{ClusterID: i, Keywords: []string{}}
	}
	for i, topic := range g.cfg.Topics {
		c := &out[i%len(out)]
		c.Keywords = append(c.Keywords, topic)
		c.Size += 5 + g.rng.Intn(40)
	}
	for i := range out {
		out[i].Label = fmt.Sprintf("Cluster %d: %s", i, out[i].Keywords[0])
	}
	return out
}

// Documents spreads documents across the default source catalog and topics.
func (g *Generator) Documents() []model.Document {
	sources := search.DefaultCatalog()
	months := g.Months()[:g.cfg.HistoryMonths]
	out := make([]model.Document, g.cfg.Documents)
	for i := range out {
		topic := g.cfg.Topics[i%len(g.cfg.Topics)]
		src := sources[g.rng.Intn(len(sources))]
		month := months[g.rng.Intn(len(months))]
		out[i] = model.Document{
			ID:         fmt.Sprintf("doc-%03d", i+1),
			Source:     src.Name,
			Title:      fmt.Sprintf("%s roundup #%d", topic, i+1),
			Text:       fmt.Sprintf("Notes on %s adoption from %s.", topic, src.Name),
			Technology: topic,
			Date:       month + "-15",
		}
	}
	return out
}

// Payload generates a complete, internally consistent payload.
func (g *Generator) Payload() model.Payload {
	trends := g.Trends()
	return model.Payload{
		Trends:    trends,
		Clusters:  g.Clusters(),
		Summary:   Summary(trends),
		Documents: g.Documents(),
		LoadedAt:  g.cfg.StartMonth.AddDate(0, g.cfg.HistoryMonths, 0),
	}
}

// Briefs returns a canned brief per topic, keyed by topic name.
func Briefs(trends model.TrendMap) map[string]string {
	out := make(map[string]string, trends.Len())
	for _, topic := range trends.Topics() {
		t, _ := trends.Get(topic)
		direction := "rising"
		if t.GrowthRate < 0 {
			direction = "declining"
		}
		out[topic] = fmt.Sprintf("**%s** is %s (%s).\nWatch the next quarter.", topic, direction, analysis.FormatGrowth(t.GrowthRate))
	}
	return out
}

// QuickPayload generates a default payload with the given seed.
func QuickPayload(seed int64) model.Payload {
	cfg := DefaultConfig()
	cfg.Seed = seed
	return New(cfg).Payload()
}
