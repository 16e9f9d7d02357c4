package datasource

import (
	"testing"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

func payloadWith(rates map[string]float64, order []string, docs int) model.Payload {
	trends := make([]model.TopicTrend, len(order))
	for i, topic := range order {
		trends[i] = model.TopicTrend{GrowthRate: rates[topic]}
	}
	return model.Payload{
		Trends:    model.NewTrendMap(order, trends),
		Documents: make([]model.Document, docs),
	}
}

func TestDiffPayloadsNoChanges(t *testing.T) {
	a := payloadWith(map[string]float64{"Go": 5}, []string{"Go"}, 2)
	d := DiffPayloads(a, a)
	if d.HasChanges() {
		t.Errorf("expected no changes, got %+v", d)
	}
	if d.Summary() != "No changes" {
		t.Errorf("summary = %q", d.Summary())
	}
}

func TestDiffPayloads(t *testing.T) {
	a := payloadWith(map[string]float64{"Go": 5, "Perl": -3, "Rust": 10}, []string{"Go", "Perl", "Rust"}, 2)
	b := payloadWith(map[string]float64{"Go": 5.01, "Rust": 42.5, "Zig": 7}, []string{"Rust", "Go", "Zig"}, 5)

	d := DiffPayloads(a, b)
	if len(d.AddedTopics) != 1 || d.AddedTopics[0] != "Zig" {
		t.Errorf("added = %v", d.AddedTopics)
	}
	if len(d.RemovedTopics) != 1 || d.RemovedTopics[0] != "Perl" {
		t.Errorf("removed = %v", d.RemovedTopics)
	}
	if len(d.GrowthChanges) != 1 || d.GrowthChanges[0].Topic != "Rust" {
		t.Errorf("growth changes = %+v", d.GrowthChanges)
	}
	want := "+1 topics, -1 topics, Rust +10.0% -> +42.5%, +3 documents"
	if got := d.Summary(); got != want {
		t.Errorf("summary = %q, want %q", got, want)
	}
}
