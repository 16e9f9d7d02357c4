package analysis

import "github.com/vanderheijden86/trendscope/pkg/model"

// ClusterPalette colors cluster segments by position. It is kept separate
// from TrendPalette.
var ClusterPalette = []string{
	"#22D3EE", "#A78BFA", "#F472B6", "#FB923C",
	"#34D399", "#FACC15", "#60A5FA", "#F87171",
}

// Segment is one proportional slice of the cluster chart. Weight is the raw
// cluster size; renderers convert it to a share.
type Segment struct {
	ClusterID int
	Label     string
	Weight    int
	Keywords  []string
	Color     string
}

// SegmentDataset is the cluster chart input.
type SegmentDataset struct {
	Segments []Segment
}

// IsEmpty reports whether the dataset has no segments. Callers should hide
// the cluster view entirely in that case.
func (d SegmentDataset) IsEmpty() bool {
	return len(d.Segments) == 0
}

// Total returns the sum of segment weights.
func (d SegmentDataset) Total() int {
	total := 0
	for _, s := range d.Segments {
		total += s.Weight
	}
	return total
}

// Share returns segment i's fraction of the total, or 0 when the total is 0.
func (d SegmentDataset) Share(i int) float64 {
	total := d.Total()
	if total == 0 || i < 0 || i >= len(d.Segments) {
		return 0
	}
	return float64(d.Segments[i].Weight) / float64(total)
}

// BuildClusterDataset maps clusters to segments in input order.
func BuildClusterDataset(clusters []model.Cluster) SegmentDataset {
	if len(clusters) == 0 {
		return SegmentDataset{}
	}
	segments := make([]Segment, len(clusters))
	for i, c := range clusters {
		segments[i] = Segment{
			ClusterID: c.ClusterID,
			Label:     c.Label,
			Weight:    c.Size,
			Keywords:  c.Keywords,
			Color:     ClusterPalette[i%len(ClusterPalette)],
		}
	}
	return SegmentDataset{Segments: segments}
}
