// Package model defines the payload types served by the trend analytics API.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Point is a single (month, mention count) observation or prediction.
type Point struct {
	Month    string `json:"month"`    // YYYY-MM
	Mentions int    `json:"mentions"` // non-negative
}

// TopicTrend holds the historical and forecast series for one topic.
// Forecast continues from the last historical point.
type TopicTrend struct {
	Historical []Point `json:"historical"`
	Forecast   []Point `json:"forecast"`
	GrowthRate float64 `json:"growth_rate"` // signed percentage
}

// Months returns the full month axis (historical then forecast).
func (t TopicTrend) Months() []string {
	months := make([]string, 0, len(t.Historical)+len(t.Forecast))
	for _, p := range t.Historical {
		months = append(months, p.Month)
	}
	for _, p := range t.Forecast {
		months = append(months, p.Month)
	}
	return months
}

// LastHistorical returns the last observed point, or false if there is none.
func (t TopicTrend) LastHistorical() (Point, bool) {
	if len(t.Historical) == 0 {
		return Point{}, false
	}
	return t.Historical[len(t.Historical)-1], true
}

// TotalMentions sums the historical mention counts.
func (t TopicTrend) TotalMentions() int {
	total := 0
	for _, p := range t.Historical {
		total += p.Mentions
	}
	return total
}

// TrendMap maps topic names to trends while remembering the order in which
// topics appeared in the decoded JSON object. Encoding a TrendMap writes the
// topics back in that order.
//
// The zero value is an empty map ready to use.
type TrendMap struct {
	order []string
	byKey map[string]TopicTrend
}

// NewTrendMap builds a TrendMap from topic/trend pairs in the given order.
func NewTrendMap(topics []string, trends []TopicTrend) TrendMap {
	var m TrendMap
	for i, topic := range topics {
		if i < len(trends) {
			m.Set(topic, trends[i])
		}
	}
	return m
}

// Set inserts or replaces a topic. New topics are appended to the order.
func (m *TrendMap) Set(topic string, trend TopicTrend) {
	if m.byKey == nil {
		m.byKey = make(map[string]TopicTrend)
	}
	if _, ok := m.byKey[topic]; !ok {
		m.order = append(m.order, topic)
	}
	m.byKey[topic] = trend
}

// Get returns the trend for a topic.
func (m TrendMap) Get(topic string) (TopicTrend, bool) {
	t, ok := m.byKey[topic]
	return t, ok
}

// Topics returns the topic names in mapping order. The slice is a copy.
func (m TrendMap) Topics() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of topics.
func (m TrendMap) Len() int {
	return len(m.order)
}

// UnmarshalJSON decodes a JSON object and keeps its key order.
func (m *TrendMap) UnmarshalJSON(data []byte) error {
	*m = TrendMap{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("trend map: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("trend map: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("trend map key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("trend map: unexpected key %v", keyTok)
		}
		var trend TopicTrend
		if err := dec.Decode(&trend); err != nil {
			return fmt.Errorf("trend map %q: %w", key, err)
		}
		m.Set(key, trend)
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("trend map: %w", err)
	}
	return nil
}

// MarshalJSON encodes the map as a JSON object in mapping order.
func (m TrendMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, topic := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(topic)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.byKey[topic])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
