package analysis

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vanderheijden86/trendscope/pkg/model"
)

// Placeholder is shown when a ranked list has no entry.
const Placeholder = "—"

// SummaryCard is one headline metric on the overview.
type SummaryCard struct {
	Label      string
	Icon       string
	Value      string
	ChangeText string // empty means no change indicator
	IsPositive bool
}

var numberPrinter = message.NewPrinter(language.English)

// FormatCount renders an integer with thousands separators ("48,000").
func FormatCount(n int) string {
	return numberPrinter.Sprintf("%d", n)
}

// DeriveSummaryCards projects the summary onto the four fixed overview cards:
// topic count, mention count, hottest topic and fastest declining topic.
func DeriveSummaryCards(s model.Summary) [4]SummaryCard {
	cards := [4]SummaryCard{
		{
			Label:      "Topics Tracked",
			Icon:       "📡",
			Value:      FormatCount(s.TotalTopics),
			ChangeText: "Active",
			IsPositive: true,
		},
		{
			Label:      "Total Mentions",
			Icon:       "💬",
			Value:      FormatCount(s.TotalMentions),
			ChangeText: "All sources",
			IsPositive: true,
		},
		{Label: "Hottest Topic", Icon: "🔥", Value: Placeholder},
		{Label: "Fastest Declining", Icon: "📉", Value: Placeholder},
	}

	if len(s.TopRising) > 0 {
		top := s.TopRising[0]
		cards[2].Value = top.Topic
		cards[2].ChangeText = FormatGrowth(top.GrowthRate)
		cards[2].IsPositive = true
	}
	if len(s.TopDeclining) > 0 {
		bottom := s.TopDeclining[0]
		cards[3].Value = bottom.Topic
		cards[3].ChangeText = FormatGrowth(bottom.GrowthRate)
		cards[3].IsPositive = false
	}
	return cards
}
