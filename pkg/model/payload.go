package model

import "time"

// Cluster is a group of documents sharing a discovered topic.
type Cluster struct {
	ClusterID int      `json:"cluster_id"`
	Label     string   `json:"label"`
	Size      int      `json:"size"`
	Keywords  []string `json:"keywords"`
}

// Document is a raw ingested article, paper or repository description.
// Null fields decode to the empty string.
type Document struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	Technology string `json:"technology"`
	Date       string `json:"date"`
}

// TopicGrowth pairs a topic with its growth rate.
type TopicGrowth struct {
	Topic      string  `json:"topic"`
	GrowthRate float64 `json:"growth_rate"`
}

// Summary holds the backend's decision-ready summary metrics.
// TopRising is sorted descending, TopDeclining most negative first.
type Summary struct {
	TotalTopics   int           `json:"total_topics"`
	TotalMentions int           `json:"total_mentions"`
	TopRising     []TopicGrowth `json:"top_rising"`
	TopDeclining  []TopicGrowth `json:"top_declining"`
}

// Payload is the combined result of the initial bulk fetch.
type Payload struct {
	Trends    TrendMap
	Clusters  []Cluster
	Summary   Summary
	Documents []Document
	LoadedAt  time.Time
}

// IsEmpty reports whether the payload carries no topics.
func (p Payload) IsEmpty() bool {
	return p.Trends.Len() == 0
}
