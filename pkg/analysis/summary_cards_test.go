package analysis

import (
	"testing"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

func TestDeriveSummaryCards_Scenario(t *testing.T) {
	cards := DeriveSummaryCards(model.Summary{
		TotalTopics:   12,
		TotalMentions: 48000,
		TopRising:     []model.TopicGrowth{{Topic: "Rust", GrowthRate: 42.5}},
		TopDeclining:  []model.TopicGrowth{{Topic: "jQuery", GrowthRate: -18.0}},
	})

	want := []struct {
		value, change string
		positive      bool
	}{
		{"12", "Active", true},
		{"48,000", "All sources", true},
		{"Rust", "+42.5%", true},
		{"jQuery", "-18.0%", false},
	}
	for i, w := range want {
		c := cards[i]
		if c.Value != w.value || c.ChangeText != w.change || c.IsPositive != w.positive {
			t.Errorf("card %d = %+v; want value=%q change=%q positive=%v", i, c, w.value, w.change, w.positive)
		}
		if c.Label == "" || c.Icon == "" {
			t.Errorf("card %d missing label or icon", i)
		}
	}
}

func TestDeriveSummaryCards_Placeholders(t *testing.T) {
	cards := DeriveSummaryCards(model.Summary{})
	for _, i := range []int{2, 3} {
		if cards[i].Value != Placeholder {
			t.Errorf("card %d value = %q; want placeholder", i, cards[i].Value)
		}
		if cards[i].ChangeText != "" {
			t.Errorf("card %d should have no change indicator, got %q", i, cards[i].ChangeText)
		}
	}
	if cards[0].Value != "0" || !cards[0].IsPositive {
		t.Errorf("card 0 = %+v", cards[0])
	}
}

func TestDeriveSummaryCards_PicksIndexZeroOnly(t *testing.T) {
	cards := DeriveSummaryCards(model.Summary{
		TopRising: []model.TopicGrowth{{Topic: "First", GrowthRate: 1}, {Topic: "Bigger", GrowthRate: 99}},
	})
	if cards[2].Value != "First" {
		t.Errorf("hottest = %q; want the first entry unchanged", cards[2].Value)
	}
}

func TestFormatCount(t *testing.T) {
	for in, want := range map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567"} {
		if got := FormatCount(in); got != want {
			t.Errorf("FormatCount(%d) = %q; want %q", in, got, want)
		}
	}
}
