package analysis

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

// ForecastSuffix marks forecast series names so legends and tooltips can
// filter them out.
const ForecastSuffix = " (forecast)"

// TrendPalette assigns line colors by topic position.
var TrendPalette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

var (
	// ErrAxisMismatch is returned when a selected topic's months differ from
	// the reference topic's axis.
	ErrAxisMismatch = errors.New("month axis mismatch")
	// ErrUnknownTopic is returned when a selected topic is not in the map.
	ErrUnknownTopic = errors.New("unknown topic")
)

// SeriesKind distinguishes observed history from predicted values.
type SeriesKind int

const (
	SeriesHistorical SeriesKind = iota
	SeriesForecast
)

func (k SeriesKind) String() string {
	if k == SeriesForecast {
		return "forecast"
	}
	return "historical"
}

// TrendSeries is one line of the trend chart. Values align with the dataset
// labels; a nil entry means no value at that month.
type TrendSeries struct {
	Name   string
	Topic  string
	Kind   SeriesKind
	Values []*float64
	Color  string
	Dashed bool
	Filled bool
}

// TrendDataset is a unified month axis plus two series per selected topic.
type TrendDataset struct {
	Labels []string
	Series []TrendSeries
}

// IsEmpty reports whether there is nothing to render.
func (d TrendDataset) IsEmpty() bool {
	return len(d.Series) == 0
}

// MaxValue returns the largest non-nil value across all series, or 0.
func (d TrendDataset) MaxValue() float64 {
	var vals []float64
	for _, s := range d.Series {
		for _, v := range s.Values {
			if v != nil {
				vals = append(vals, *v)
			}
		}
	}
	if len(vals) == 0 {
		return 0
	}
	return floats.Max(vals)
}

// LegendSeries returns the historical series only.
func (d TrendDataset) LegendSeries() []TrendSeries {
	out := make([]TrendSeries, 0, len(d.Series)/2)
	for _, s := range d.Series {
		if !IsForecastSeries(s.Name) {
			out = append(out, s)
		}
	}
	return out
}

// IsForecastSeries reports whether a series name carries the forecast marker.
func IsForecastSeries(name string) bool {
	return strings.HasSuffix(name, ForecastSuffix)
}

// TopicColor returns the palette color for the topic at position i.
func TopicColor(i int) string {
	return TrendPalette[i%len(TrendPalette)]
}

// BuildTrendDataset builds chart series for the selected topics. The label
// axis comes from the first selected topic; every other selected topic must
// share it exactly.
func BuildTrendDataset(trends model.TrendMap, selected []string) (TrendDataset, error) {
	if trends.Len() == 0 || len(selected) == 0 {
		return TrendDataset{}, nil
	}

	ref, ok := trends.Get(selected[0])
	if !ok {
		return TrendDataset{}, fmt.Errorf("%w: %q", ErrUnknownTopic, selected[0])
	}
	labels := ref.Months()

	ds := TrendDataset{
		Labels: labels,
		Series: make([]TrendSeries, 0, len(selected)*2),
	}

	for i, topic := range selected {
		trend, ok := trends.Get(topic)
		if !ok {
			return TrendDataset{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
		}
		if !sameAxis(labels, trend.Months()) {
			return TrendDataset{}, fmt.Errorf("%w: %q does not match %q", ErrAxisMismatch, topic, selected[0])
		}

		color := TopicColor(i)
		ds.Series = append(ds.Series,
			TrendSeries{
				Name:   topic,
				Topic:  topic,
				Kind:   SeriesHistorical,
				Values: historicalValues(trend, len(labels)),
				Color:  color,
				Filled: true,
			},
			TrendSeries{
				Name:   topic + ForecastSuffix,
				Topic:  topic,
				Kind:   SeriesForecast,
				Values: forecastValues(trend, len(labels)),
				Color:  color,
				Dashed: true,
			},
		)
	}

	return ds, nil
}

func historicalValues(t model.TopicTrend, n int) []*float64 {
	values := make([]*float64, n)
	for i, p := range t.Historical {
		values[i] = floatPtr(p.Mentions)
	}
	return values
}

// forecastValues leaves every historical slot empty except the last one,
// which repeats the last observed count so the forecast line starts where
// history ends.
func forecastValues(t model.TopicTrend, n int) []*float64 {
	values := make([]*float64, n)
	last, ok := t.LastHistorical()
	if !ok {
		return values
	}
	anchor := len(t.Historical) - 1
	values[anchor] = floatPtr(last.Mentions)
	for i, p := range t.Forecast {
		values[anchor+1+i] = floatPtr(p.Mentions)
	}
	return values
}

func sameAxis(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func floatPtr(v int) *float64 {
	f := float64(v)
	return &f
}
