package analysis

import (
	"testing"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

func TestBuildClusterDataset(t *testing.T) {
	clusters := make([]model.Cluster, 10)
	for i := range clusters {
		clusters[i] = model.Cluster{ClusterID: 100 + i, Label: "c", Size: i + 1, Keywords: []string{"k"}}
	}

	ds := BuildClusterDataset(clusters)
	if len(ds.Segments) != len(clusters) {
		t.Fatalf("segments = %d; want %d", len(ds.Segments), len(clusters))
	}
	for i, s := range ds.Segments {
		if s.Weight != clusters[i].Size {
			t.Errorf("segment %d weight = %d; want %d", i, s.Weight, clusters[i].Size)
		}
		if s.ClusterID != clusters[i].ClusterID {
			t.Errorf("segment %d id = %d", i, s.ClusterID)
		}
		if want := ClusterPalette[i%len(ClusterPalette)]; s.Color != want {
			t.Errorf("segment %d color = %s; want %s", i, s.Color, want)
		}
	}
	if ds.Total() != 55 {
		t.Errorf("Total() = %d; want 55", ds.Total())
	}
	if got := ds.Share(9); got != 10.0/55.0 {
		t.Errorf("Share(9) = %v", got)
	}
}

func TestBuildClusterDataset_Empty(t *testing.T) {
	ds := BuildClusterDataset(nil)
	if !ds.IsEmpty() {
		t.Errorf("expected empty dataset")
	}
	if ds.Share(0) != 0 {
		t.Errorf("Share on empty dataset should be 0")
	}
}

func TestClusterPaletteDistinctFromTrendPalette(t *testing.T) {
	if len(ClusterPalette) < 8 {
		t.Fatalf("cluster palette has %d colors; want at least 8", len(ClusterPalette))
	}
	if len(TrendPalette) < 10 {
		t.Fatalf("trend palette has %d colors; want at least 10", len(TrendPalette))
	}
	seen := make(map[string]bool)
	for _, c := range ClusterPalette {
		if seen[c] {
			t.Errorf("duplicate cluster color %s", c)
		}
		seen[c] = true
	}
}
