package analysis

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

// TopN limits how many ranked topics a view shows. TopAll disables truncation.
type TopN int

const (
	TopAll TopN = 0
	Top3   TopN = 3
	Top5   TopN = 5
)

// SupportedTopN lists the selectable limits in cycling order.
var SupportedTopN = []TopN{Top3, Top5, TopAll}

// ParseTopN accepts "3", "5", "all" (or "0").
func ParseTopN(s string) (TopN, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "all", "0", "":
		return TopAll, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return TopAll, fmt.Errorf("invalid top-n %q (expected 3, 5 or all)", s)
	}
	switch TopN(n) {
	case Top3, Top5:
		return TopN(n), nil
	default:
		return TopAll, fmt.Errorf("unsupported top-n %d (expected 3, 5 or all)", n)
	}
}

func (n TopN) String() string {
	if n == TopAll {
		return "all"
	}
	return strconv.Itoa(int(n))
}

// Next returns the following limit in SupportedTopN, wrapping around.
func (n TopN) Next() TopN {
	for i, v := range SupportedTopN {
		if v == n {
			return SupportedTopN[(i+1)%len(SupportedTopN)]
		}
	}
	return SupportedTopN[0]
}

// Rank orders topics by growth rate, highest first. Equal rates keep the
// mapping order so repeated calls on unchanged input give the same result.
func Rank(trends model.TrendMap) []string {
	topics := trends.Topics()
	rates := make(map[string]float64, len(topics))
	for _, topic := range topics {
		t, _ := trends.Get(topic)
		rates[topic] = t.GrowthRate
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return rates[topics[i]] > rates[topics[j]]
	})
	return topics
}

// SelectTop returns the first min(n, len(ranked)) topics. TopAll returns
// every topic.
func SelectTop(ranked []string, n TopN) []string {
	limit := len(ranked)
	if n > TopAll && int(n) < limit {
		limit = int(n)
	}
	out := make([]string, limit)
	copy(out, ranked[:limit])
	return out
}

// Split partitions ranked topics into rising (growth >= 0, highest first) and
// declining (growth < 0, most negative first). Ties on either side keep the
// mapping order.
func Split(trends model.TrendMap) (rising, declining []model.TopicGrowth) {
	for _, topic := range Rank(trends) {
		t, _ := trends.Get(topic)
		g := model.TopicGrowth{Topic: topic, GrowthRate: t.GrowthRate}
		if t.GrowthRate >= 0 {
			rising = append(rising, g)
		} else {
			declining = append(declining, g)
		}
	}
	// Equal rates keep the mapping order, as in Rank.
	sort.SliceStable(declining, func(i, j int) bool {
		return declining[i].GrowthRate < declining[j].GrowthRate
	})
	return rising, declining
}

// FormatGrowth renders a growth rate as a signed one-decimal percentage.
func FormatGrowth(rate float64) string {
	return fmt.Sprintf("%+.1f%%", rate)
}
