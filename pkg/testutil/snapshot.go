package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

// SnapshotFiles encodes p as the JSON envelopes served by the analytics API,
// keyed by the file names an offline data directory uses.
func SnapshotFiles(p model.Payload, briefs map[string]string) (map[string][]byte, error) {
	if briefs == nil {
		briefs = map[string]string{}
	}
	docs := p.Documents
	if docs == nil {
		docs = []model.Document{}
	}
	clusters := p.Clusters
	if clusters == nil {
		clusters = []model.Cluster{}
	}
	envelopes := map[string]any{
		"trends.json":    map[string]any{"trends": p.Trends},
		"clusters.json":  map[string]any{"clusters": clusters},
		"summary.json":   map[string]any{"summary": p.Summary},
		"documents.json": map[string]any{"documents": docs},
		"briefs.json":    map[string]any{"briefs": briefs},
	}
	out := make(map[string][]byte, len(envelopes))
	for name, v := range envelopes {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}

// WriteSnapshot writes p into dir as an offline data directory.
func WriteSnapshot(dir string, p model.Payload, briefs map[string]string) error {
	files, err := SnapshotFiles(p, briefs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}

// TempSnapshotDir writes p to a fresh temp directory and returns its path.
func TempSnapshotDir(t *testing.T, p model.Payload, briefs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	if err := WriteSnapshot(dir, p, briefs); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}
	return dir
}

// AssertTopicOrder fails the test unless trends lists exactly want, in order.
func AssertTopicOrder(t *testing.T, trends model.TrendMap, want []string) {
	t.Helper()
	got := trends.Topics()
	if len(got) != len(want) {
		t.Fatalf("topics = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topics = %v, want %v", got, want)
		}
	}
}

// AssertJSONEqual compares two values after JSON encoding.
func AssertJSONEqual(t *testing.T, expected, actual any) {
	t.Helper()

	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}
