package datasource

import (
	"fmt"
	"math"
	"strings"

	"github.com/vanderheijden86/trendscope/pkg/analysis"
	"github.com/vanderheijden86/trendscope/pkg/model"
)

// GrowthChange records a topic whose growth rate moved between two loads.
type GrowthChange struct {
	Topic  string
	Before float64
	After  float64
}

// PayloadDiff summarizes what changed between two successive payloads.
type PayloadDiff struct {
	AddedTopics   []string
	RemovedTopics []string
	GrowthChanges []GrowthChange
	DocumentsA    int
	DocumentsB    int
}

// growthEpsilon ignores float noise from re-serialized rates.
const growthEpsilon = 0.05

// DiffPayloads compares an earlier payload a with a later payload b. Topic
// lists follow each payload's mapping order.
func DiffPayloads(a, b model.Payload) PayloadDiff {
	d := PayloadDiff{DocumentsA: len(a.Documents), DocumentsB: len(b.Documents)}

	for _, topic := range b.Trends.Topics() {
		after, _ := b.Trends.Get(topic)
		before, ok := a.Trends.Get(topic)
		if !ok {
			d.AddedTopics = append(d.AddedTopics, topic)
			continue
		}
		if math.Abs(after.GrowthRate-before.GrowthRate) >= growthEpsilon {
			d.GrowthChanges = append(d.GrowthChanges, GrowthChange{
				Topic:  topic,
				Before: before.GrowthRate,
				After:  after.GrowthRate,
			})
		}
	}
	for _, topic := range a.Trends.Topics() {
		if _, ok := b.Trends.Get(topic); !ok {
			d.RemovedTopics = append(d.RemovedTopics, topic)
		}
	}
	return d
}

// HasChanges reports whether anything the dashboard shows changed.
func (d PayloadDiff) HasChanges() bool {
	return len(d.AddedTopics) > 0 || len(d.RemovedTopics) > 0 ||
		len(d.GrowthChanges) > 0 || d.DocumentsA != d.DocumentsB
}

// Summary returns a one-line description for the status bar.
func (d PayloadDiff) Summary() string {
	if !d.HasChanges() {
		return "No changes"
	}
	var parts []string
	if n := len(d.AddedTopics); n > 0 {
		parts = append(parts, fmt.Sprintf("+%d topics", n))
	}
	if n := len(d.RemovedTopics); n > 0 {
		parts = append(parts, fmt.Sprintf("-%d topics", n))
	}
	if n := len(d.GrowthChanges); n == 1 {
		c := d.GrowthChanges[0]
		parts = append(parts, fmt.Sprintf("%s %s -> %s", c.Topic, analysis.FormatGrowth(c.Before), analysis.FormatGrowth(c.After)))
	} else if n > 1 {
		parts = append(parts, fmt.Sprintf("%d growth changes", n))
	}
	if delta := d.DocumentsB - d.DocumentsA; delta != 0 {
		parts = append(parts, fmt.Sprintf("%+d documents", delta))
	}
	return strings.Join(parts, ", ")
}
